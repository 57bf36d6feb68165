// Package metrics holds the Prometheus instruments for registry access and
// the collector pipeline. Every method is safe on a nil *Metrics so callers
// can run without instrumentation.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	UpstreamRequests     *prometheus.CounterVec
	UpstreamLatency      *prometheus.HistogramVec
	IdentifierProbes     *prometheus.CounterVec
	PaginationBoundaries prometheus.Counter
	BuildingSources      *prometheus.CounterVec
	CountStrategies      *prometheus.CounterVec
	CollectorPages       prometheus.Counter
	LandmarksPersisted   prometheus.Counter
}

// New registers all instruments on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		UpstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lpc_upstream_requests_total",
			Help: "Registry requests by endpoint and status class",
		}, []string{"endpoint", "status"}),

		UpstreamLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lpc_upstream_request_duration_seconds",
			Help:    "Registry request latency by endpoint",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),

		IdentifierProbes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lpc_identifier_probes_total",
			Help: "Identifier candidate probes by outcome (hit, empty, error)",
		}, []string{"outcome"}),

		PaginationBoundaries: f.NewCounter(prometheus.CounterOpts{
			Name: "lpc_pagination_boundaries_total",
			Help: "Listing requests past the last page answered with a synthesized empty page",
		}),

		BuildingSources: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lpc_building_sources_total",
			Help: "Which source answered a buildings lookup (direct, detail, none)",
		}, []string{"source"}),

		CountStrategies: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lpc_count_strategies_total",
			Help: "Which strategy produced the registry total (metadata, walk, default)",
		}, []string{"strategy"}),

		CollectorPages: f.NewCounter(prometheus.CounterOpts{
			Name: "lpc_collector_pages_total",
			Help: "Listing pages processed by the collector",
		}),

		LandmarksPersisted: f.NewCounter(prometheus.CounterOpts{
			Name: "lpc_collector_landmarks_persisted_total",
			Help: "Landmark detail records written by the collector",
		}),
	}
}

// ObserveUpstream records one registry request. status 0 means the request
// never produced a response.
func (m *Metrics) ObserveUpstream(endpoint string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(endpoint, statusClass(status)).Inc()
	m.UpstreamLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) IncProbe(outcome string) {
	if m != nil {
		m.IdentifierProbes.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncBoundary() {
	if m != nil {
		m.PaginationBoundaries.Inc()
	}
}

func (m *Metrics) IncBuildingSource(source string) {
	if m != nil {
		m.BuildingSources.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) IncCountStrategy(strategy string) {
	if m != nil {
		m.CountStrategies.WithLabelValues(strategy).Inc()
	}
}

func (m *Metrics) IncCollectorPage() {
	if m != nil {
		m.CollectorPages.Inc()
	}
}

func (m *Metrics) IncPersisted() {
	if m != nil {
		m.LandmarksPersisted.Inc()
	}
}

func statusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
