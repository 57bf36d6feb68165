package lpc

import (
	"context"
	"log/slog"

	"github.com/yourorg/landmark-api/internal/metrics"
)

// Upstream is the registry surface Service depends on. *Client implements it;
// tests substitute fakes.
type Upstream interface {
	GetReport(ctx context.Context, id string) (any, error)
	ListReports(ctx context.Context, limit, page int, f Filters) (any, error)
	GetBuildings(ctx context.Context, lpNumber string, limit int) (any, error)
	GetPhotos(ctx context.Context, lpNumber string, limit int) (any, error)
	GetLandUse(ctx context.Context, id string) (any, error)
	GetReference(ctx context.Context, kind string) (any, error)
	GetWebContent(ctx context.Context, lpNumbers []string) (any, error)
}

const (
	DefaultCountPageSize  = 50
	DefaultCountMaxPages  = 100
	DefaultTotalCount     = 1000
	DefaultBuildingsLimit = 50
	DefaultPhotosLimit    = 50
)

type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// CountPageSize and CountMaxPages bound the TotalCount page walk.
	CountPageSize int
	CountMaxPages int
	// DefaultTotalCount is reported when no count strategy succeeds.
	DefaultTotalCount int
}

// Service resolves identifiers, lists, counts and expands landmarks on top of
// an Upstream. Calls are sequential and share no mutable state, so one Service
// may be used from many goroutines.
type Service struct {
	up         Upstream
	logger     *slog.Logger
	metrics    *metrics.Metrics
	normalizer *Normalizer

	countPageSize int
	countMaxPages int
	defaultTotal  int
}

func NewService(up Upstream, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		up:            up,
		logger:        logger,
		metrics:       opts.Metrics,
		normalizer:    NewNormalizer(logger),
		countPageSize: opts.CountPageSize,
		countMaxPages: opts.CountMaxPages,
		defaultTotal:  opts.DefaultTotalCount,
	}
	if s.countPageSize <= 0 {
		s.countPageSize = DefaultCountPageSize
	}
	if s.countMaxPages <= 0 {
		s.countMaxPages = DefaultCountMaxPages
	}
	if s.defaultTotal <= 0 {
		s.defaultTotal = DefaultTotalCount
	}
	return s
}

// Normalizer exposes the Service's normalizer for callers holding raw items.
func (s *Service) Normalizer() *Normalizer { return s.normalizer }
