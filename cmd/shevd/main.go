// Package main is the entry point for shevd, the shev daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"shev/internal/config"
	"shev/internal/dispatch"
	"shev/internal/execshell"
	"shev/internal/httpapi"
	"shev/internal/logging"
	"shev/internal/observability"
	"shev/internal/registry"
	"shev/internal/reload"
	"shev/internal/shevcore"
	"shev/internal/store/sqlite"
	"shev/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: environment only)")
	flag.Parse()

	logger := logging.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	queueSize := readIntConfig(ctx, st, logger, shevcore.ConfigKeyQueueSize, shevcore.DefaultQueueSize)
	workerCount := readIntConfig(ctx, st, logger, shevcore.ConfigKeyWorkerCount, shevcore.DefaultWorkerCount)
	port := readIntConfig(ctx, st, logger, shevcore.ConfigKeyPort, shevcore.DefaultPort)

	var shutdownTracer func(context.Context) error
	if cfg.OTELEndpoint != "" {
		shutdownTracer, err = observability.InitTracer(ctx, "shevd", cfg.OTELEndpoint)
		if err != nil {
			log.Fatalf("failed to init tracing: %v", err)
		}
		defer shutdownTracer(context.Background())
	}

	metricsHandler, shutdownMetrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("failed to init metrics: %v", err)
	}
	defer shutdownMetrics(context.Background())

	d := dispatch.New(st, queueSize)

	meter := otel.Meter("shevd")
	_, err = meter.Int64ObservableGauge("shev.queue.depth",
		metric.WithDescription("Current number of events waiting in the dispatch queue"),
		metric.WithInt64Callback(func(ctx context.Context, obs metric.Int64Observer) error {
			obs.Observe(int64(d.Depth()))
			return nil
		}),
	)
	if err != nil {
		logger.Error("failed to register queue depth metric", "error", err)
	}

	reg := registry.New()
	exec := execshell.New()

	rl, err := reload.New(ctx, st, func(ctx context.Context, eventType, evtContext string) error {
		_, err := d.Enqueue(ctx, eventType, evtContext)
		return err
	}, logger)
	if err != nil {
		log.Fatalf("failed to load handlers/timers/schedules: %v", err)
	}

	recovered, err := st.RecoverOrphans(ctx, time.Now())
	if err != nil {
		log.Fatalf("failed to recover orphaned jobs: %v", err)
	}
	if recovered > 0 {
		logger.Info("recovered orphaned jobs", "count", recovered)
	}

	pool := worker.New(d, st, rl.Handlers, reg, exec, logger, workerCount)
	pool.Run(ctx)

	addr := cfg.ListenAddr
	if addr == ":3000" && port != shevcore.DefaultPort {
		addr = portToAddr(port)
	}
	srv := httpapi.NewServer(addr, st, d, reg, rl, httpapi.Options{
		AllowIPs:       cfg.AllowIPs,
		AllowWriteIPs:  cfg.AllowWriteIPs,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsHandler)
		if err := http.ListenAndServe(":6162", mux); err != nil {
			logger.Error("metrics server exited", "error", err)
		}
	}()

	go func() {
		logger.Info("shevd starting", "addr", addr, "worker_count", workerCount, "queue_size", queueSize)
		if err := srv.Run(ctx, cfg.ShutdownGrace); err != nil {
			logger.Error("http server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()
	rl.Stop()
	pool.Shutdown(cfg.ShutdownGrace)
	logger.Info("shutdown complete")
}

func readIntConfig(ctx context.Context, st *sqlite.Store, logger *slog.Logger, key string, def int) int {
	v, ok, err := st.GetConfig(ctx, key)
	if err != nil {
		logger.Error("failed to read config, using default", "key", key, "error", err)
		return def
	}
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Error("invalid persisted config value, using default", "key", key, "value", v, "error", err)
		return def
	}
	return n
}

// portToAddr turns a persisted port number into a listen address, used when
// the operator has set a custom port via PUT /config/port rather than
// SHEV_LISTEN_ADDR.
func portToAddr(port int) string {
	return fmt.Sprintf(":%d", port)
}
