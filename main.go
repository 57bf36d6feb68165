package main

import (
	"context"
	"encoding/json"
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
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "github.com/yourorg/landmark-api/http"
	"github.com/yourorg/landmark-api/internal/enrich"
	"github.com/yourorg/landmark-api/internal/env"
	"github.com/yourorg/landmark-api/internal/events"
	"github.com/yourorg/landmark-api/internal/hydrator"
	"github.com/yourorg/landmark-api/internal/logging"
	"github.com/yourorg/landmark-api/internal/metrics"
	"github.com/yourorg/landmark-api/internal/refresh"
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
	logger := logging.New(logging.Config{
		Level:  env.Get("LOG_LEVEL", "info"),
		Format: env.Get("LOG_FORMAT", "color"),
	})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	client := lpc.NewClient(lpc.Config{
		BaseURL:  env.Get("LPC_BASE_URL", lpc.DefaultBaseURL),
		Token:    env.Get("LPC_API_TOKEN", ""),
		Timeout:  env.GetDuration("LPC_TIMEOUT", lpc.DefaultTimeout),
		RetryMax: env.GetInt("LPC_RETRY_MAX", 0),
		Logger:   logger,
		Metrics:  m,
	})
	svc := lpc.NewService(client, lpc.Options{
		Logger:            logger,
		Metrics:           m,
		CountMaxPages:     env.GetInt("LPC_COUNT_MAX_PAGES", lpc.DefaultCountMaxPages),
		DefaultTotalCount: env.GetInt("LPC_DEFAULT_TOTAL", lpc.DefaultTotalCount),
	})

	var storeDeps httpapi.StoreDeps
	if dsn := env.Get("PG_DSN", ""); dsn != "" {
		st, err := openStore(dsn)
		if err != nil {
			return fmt.Errorf("store: %w", err)
		}
		defer st.Close()

		pub := events.NewInMemory(0)
		hyd := &hydrator.Hydrator{Store: st, Pub: pub, Metrics: m}
		enricher := &enrich.Enricher{Pub: pub, Source: svc, Store: st, Logger: logger}
		stopEnricher := enricher.Start(ctx)
		defer stopEnricher()
		refresher := refresh.New(256, env.GetInt("REFRESH_WORKERS", 2), 0, func(ctx context.Context, j refresh.Job) {
			refreshLandmark(ctx, logger, svc, hyd, j)
		})
		defer refresher.Close()
		storeDeps = httpapi.StoreDeps{Refresher: refresher, Articles: st}
	} else {
		logger.Info("PG_DSN not set; refresh and articles endpoints disabled")
	}

	router := BuildRouter(RouterDeps{
		Registry:  svc,
		Resolver:  svc,
		Store:     storeDeps,
		Logger:    logger,
		Gatherer:  reg,
		RateLimit: env.GetInt("RATE_LIMIT_PER_MINUTE", 100),
	})

	port := env.GetInt("PORT", 4002)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("landmark-api listening", "port", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func openStore(dsn string) (*store.Store, error) {
	st, err := store.Open(dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.Ping(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}
	return st, nil
}

func refreshLandmark(ctx context.Context, logger *slog.Logger, svc *lpc.Service, hyd *hydrator.Hydrator, j refresh.Job) {
	detail, raw, found, err := svc.ResolveLandmarkRaw(ctx, j.LPNumber)
	if err != nil {
		logger.Warn("refresh failed", "lp_number", j.LPNumber, "err", err)
		return
	}
	if !found {
		logger.Info("refresh: landmark not found", "lp_number", j.LPNumber)
		return
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		logger.Warn("refresh: encode snapshot", "lp_number", j.LPNumber, "err", err)
		return
	}
	if err := hyd.Write(ctx, detail, payload); err != nil {
		logger.Warn("refresh: persist failed", "lp_number", j.LPNumber, "err", err)
	}
}
