package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourorg/landmark-api/internal/enrich"
	"github.com/yourorg/landmark-api/internal/env"
	"github.com/yourorg/landmark-api/internal/events"
	"github.com/yourorg/landmark-api/internal/hydrator"
	"github.com/yourorg/landmark-api/internal/logging"
	"github.com/yourorg/landmark-api/internal/metrics"
	"github.com/yourorg/landmark-api/internal/redisx"
	"github.com/yourorg/landmark-api/internal/store"
	"github.com/yourorg/landmark-api/lpc"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := env.Load(env.GetList("ENV_FILES")...); err != nil {
		return fmt.Errorf("env load: %w", err)
	}
	dsn := env.Must("PG_DSN")

	logger := logging.New(logging.Config{
		Level:  env.Get("LOG_LEVEL", "info"),
		Format: env.Get("LOG_FORMAT", "json"),
	})
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	client := lpc.NewClient(lpc.Config{
		BaseURL:  env.Get("LPC_BASE_URL", lpc.DefaultBaseURL),
		Token:    env.Get("LPC_API_TOKEN", ""),
		Timeout:  env.GetDuration("LPC_TIMEOUT", lpc.DefaultTimeout),
		RetryMax: env.GetInt("LPC_RETRY_MAX", 0),
		Logger:   logger,
		Metrics:  m,
	})
	svc := lpc.NewService(client, lpc.Options{Logger: logger, Metrics: m})

	st, err := store.Open(dsn)
	if err != nil {
		return fmt.Errorf("store open: %w", err)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = st.Ping(ctx)
	if err == nil {
		err = st.Migrate(ctx)
	}
	cancel()
	if err != nil {
		return fmt.Errorf("postgres setup: %w", err)
	}

	var coord hydrator.Coordinator
	if addr := env.Get("REDIS_ADDR", ""); addr != "" {
		rc := redisx.New(addr, env.Get("REDIS_PASSWORD", ""), env.GetInt("REDIS_DB", 0))
		defer rc.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		coord = rc
	} else {
		logger.Warn("REDIS_ADDR not set; running without run lock or checkpoints")
	}

	pub := events.NewInMemory(1024)
	hyd := &hydrator.Hydrator{Store: st, Pub: pub, Metrics: m}

	job := &hydrator.BulkJob{
		Registry:    svc,
		Hydrator:    hyd,
		Coordinator: coord,
		Logger:      logger,
		Metrics:     m,
		Config: hydrator.BulkConfig{
			Filters: lpc.Filters{
				Borough:    env.Get("COLLECTOR_BOROUGH", ""),
				ObjectType: env.Get("COLLECTOR_OBJECT_TYPE", ""),
			},
			PageSize:          env.GetInt("COLLECTOR_PAGE_SIZE", 50),
			MaxPages:          env.GetInt("COLLECTOR_MAX_PAGES", 200),
			Interval:          env.GetDuration("COLLECTOR_INTERVAL", 24*time.Hour),
			RequestsPerSecond: float64(env.GetInt("COLLECTOR_RPS", 5)),
			Concurrency:       env.GetInt("COLLECTOR_CONCURRENCY", 4),
			RequestTimeout:    env.GetDuration("COLLECTOR_REQUEST_TIMEOUT", 30*time.Second),
		},
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if env.GetBool("COLLECTOR_ENRICH", true) {
		enricher := &enrich.Enricher{Pub: pub, Source: svc, Store: st, Logger: logger}
		stopEnricher := enricher.Start(rootCtx)
		defer stopEnricher()
	}

	if addr := env.Get("METRICS_ADDR", ""); addr != "" {
		srv := &http.Server{Addr: addr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
		defer srv.Close()
	}

	if env.GetBool("COLLECTOR_RUN_ONCE", false) {
		stats, err := job.RunOnce(rootCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("collector run: %w", err)
		}
		logger.Info("collector run complete", "persisted", stats.Persisted, "failed", stats.Failed)
		return nil
	}

	if err := job.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("collector stopped: %w", err)
	}
	return nil
}
