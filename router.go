package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/yourorg/landmark-api/http"
	httpv1 "github.com/yourorg/landmark-api/http/v1"
	"github.com/yourorg/landmark-api/internal/logging"
)

type RouterDeps struct {
	Registry httpapi.Registry
	Resolver httpv1.Resolver
	Store    httpapi.StoreDeps
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
	// RateLimit is requests per minute per client IP.
	RateLimit int
}

func BuildRouter(d RouterDeps) http.Handler {
	if d.RateLimit <= 0 {
		d.RateLimit = 100
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logging.Middleware(d.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(d.RateLimit, 1*time.Minute)) // protect upstream quota
		r.Use(render.SetContentType(render.ContentTypeJSON))

		deps := httpapi.LandmarksDeps{Registry: d.Registry}
		httpapi.RegisterLandmarks(r, deps)
		httpapi.RegisterReference(r, deps)
		httpapi.RegisterStore(r, d.Store)
		httpv1.RegisterResolve(r, httpv1.ResolveDeps{Resolver: d.Resolver})
	})

	return r
}
