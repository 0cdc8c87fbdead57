// Package config loads shevd's bootstrap configuration: the settings
// needed before the store can be opened (everything else, port,
// queue_size, worker_count, is a persisted Config row read from the
// store itself, see shevcore.ConfigKey*).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the bootstrap settings for shevd.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// ListenAddr is the address the HTTP API binds to.
	ListenAddr string

	// AllowIPs is the set of remote addresses permitted to read from the
	// HTTP API. Loopback is always allowed regardless of this list.
	AllowIPs []string

	// AllowWriteIPs is the set of remote addresses permitted to perform
	// mutating HTTP requests. Loopback is always allowed.
	AllowWriteIPs []string

	// RateLimitRPS and RateLimitBurst configure the per-remote-IP token
	// bucket applied to non-loopback callers.
	RateLimitRPS   float64
	RateLimitBurst int

	// OTELEndpoint is the OTLP gRPC collector address for traces. Empty
	// disables tracing.
	OTELEndpoint string

	// ShutdownGrace is how long the daemon waits for in-flight jobs and
	// HTTP requests to finish before a forced exit on shutdown signal.
	ShutdownGrace time.Duration
}

// Load reads configuration from environment variables prefixed SHEV_ and,
// if configPath is non-empty, from a YAML config file. Environment
// variables take precedence over the file, mirroring viper's default
// merge order.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db", "shev.db")
	v.SetDefault("listen_addr", ":3000")
	v.SetDefault("allow_ips", "")
	v.SetDefault("allow_write_ips", "")
	v.SetDefault("rate_limit_rps", 5.0)
	v.SetDefault("rate_limit_burst", 10)
	v.SetDefault("otel_endpoint", "")
	v.SetDefault("shutdown_grace", "10s")

	v.SetEnvPrefix("SHEV")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	grace, err := time.ParseDuration(v.GetString("shutdown_grace"))
	if err != nil {
		return nil, fmt.Errorf("invalid shutdown_grace: %w", err)
	}

	cfg := &Config{
		DBPath:         v.GetString("db"),
		ListenAddr:     v.GetString("listen_addr"),
		AllowIPs:       splitNonEmpty(v.GetString("allow_ips")),
		AllowWriteIPs:  splitNonEmpty(v.GetString("allow_write_ips")),
		RateLimitRPS:   v.GetFloat64("rate_limit_rps"),
		RateLimitBurst: v.GetInt("rate_limit_burst"),
		OTELEndpoint:   v.GetString("otel_endpoint"),
		ShutdownGrace:  grace,
	}

	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path is required (env: SHEV_DB)")
	}

	return cfg, nil
}

// splitNonEmpty splits a comma-separated list, dropping empty entries.
// viper returns list-typed env vars as a single string, so allow_ips set
// via SHEV_ALLOW_IPS="10.0.0.1,10.0.0.2" is parsed here rather than
// relying on viper's slice binding, which only works for config files.
func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
