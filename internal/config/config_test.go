package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DBPath != "shev.db" {
		t.Errorf("expected DBPath shev.db, got %s", cfg.DBPath)
	}
	if cfg.ListenAddr != ":3000" {
		t.Errorf("expected ListenAddr :3000, got %s", cfg.ListenAddr)
	}
	if len(cfg.AllowIPs) != 0 {
		t.Errorf("expected empty AllowIPs, got %v", cfg.AllowIPs)
	}
	if cfg.RateLimitRPS != 5.0 {
		t.Errorf("expected RateLimitRPS 5.0, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 10 {
		t.Errorf("expected RateLimitBurst 10, got %d", cfg.RateLimitBurst)
	}
	if cfg.OTELEndpoint != "" {
		t.Errorf("expected empty OTELEndpoint, got %s", cfg.OTELEndpoint)
	}
	if cfg.ShutdownGrace != 10*time.Second {
		t.Errorf("expected ShutdownGrace 10s, got %v", cfg.ShutdownGrace)
	}
}

func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("SHEV_DB", "/var/lib/shev/custom.db")
	t.Setenv("SHEV_LISTEN_ADDR", ":9999")
	t.Setenv("SHEV_ALLOW_IPS", "10.0.0.1, 10.0.0.2")
	t.Setenv("SHEV_ALLOW_WRITE_IPS", "10.0.0.1")
	t.Setenv("SHEV_RATE_LIMIT_RPS", "20")
	t.Setenv("SHEV_RATE_LIMIT_BURST", "40")
	t.Setenv("SHEV_OTEL_ENDPOINT", "otel-collector:4317")
	t.Setenv("SHEV_SHUTDOWN_GRACE", "30s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DBPath != "/var/lib/shev/custom.db" {
		t.Errorf("expected DBPath from env, got %s", cfg.DBPath)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("expected ListenAddr :9999, got %s", cfg.ListenAddr)
	}
	if len(cfg.AllowIPs) != 2 || cfg.AllowIPs[0] != "10.0.0.1" || cfg.AllowIPs[1] != "10.0.0.2" {
		t.Errorf("expected AllowIPs [10.0.0.1 10.0.0.2], got %v", cfg.AllowIPs)
	}
	if len(cfg.AllowWriteIPs) != 1 || cfg.AllowWriteIPs[0] != "10.0.0.1" {
		t.Errorf("expected AllowWriteIPs [10.0.0.1], got %v", cfg.AllowWriteIPs)
	}
	if cfg.RateLimitRPS != 20 {
		t.Errorf("expected RateLimitRPS 20, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 40 {
		t.Errorf("expected RateLimitBurst 40, got %d", cfg.RateLimitBurst)
	}
	if cfg.OTELEndpoint != "otel-collector:4317" {
		t.Errorf("expected OTELEndpoint otel-collector:4317, got %s", cfg.OTELEndpoint)
	}
	if cfg.ShutdownGrace != 30*time.Second {
		t.Errorf("expected ShutdownGrace 30s, got %v", cfg.ShutdownGrace)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "shev-test-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	configContent := `
db: "/tmp/from-file.db"
listen_addr: ":7777"
rate_limit_rps: 12
`
	if _, err := tmpFile.WriteString(configContent); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	tmpFile.Close()

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DBPath != "/tmp/from-file.db" {
		t.Errorf("expected DBPath from config file, got %s", cfg.DBPath)
	}
	if cfg.ListenAddr != ":7777" {
		t.Errorf("expected ListenAddr :7777, got %s", cfg.ListenAddr)
	}
	if cfg.RateLimitRPS != 12 {
		t.Errorf("expected RateLimitRPS 12, got %v", cfg.RateLimitRPS)
	}
}

func TestLoad_EnvOverridesConfigFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "shev-test-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	configContent := `
db: "/tmp/from-file.db"
listen_addr: ":7777"
`
	if _, err := tmpFile.WriteString(configContent); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	tmpFile.Close()

	t.Setenv("SHEV_DB", "/tmp/from-env.db")
	t.Setenv("SHEV_LISTEN_ADDR", ":8888")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DBPath != "/tmp/from-env.db" {
		t.Errorf("expected DBPath from env, got %s", cfg.DBPath)
	}
	if cfg.ListenAddr != ":8888" {
		t.Errorf("expected ListenAddr :8888 from env, got %s", cfg.ListenAddr)
	}
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	_, err := Load("/nonexistent/path/to/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent config file")
	}
}

func TestLoad_InvalidShutdownGrace(t *testing.T) {
	t.Setenv("SHEV_SHUTDOWN_GRACE", "not-a-duration")

	_, err := Load("")
	if err == nil {
		t.Error("expected error for invalid shutdown_grace")
	}
}
