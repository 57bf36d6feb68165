package lpc

import (
	"context"
)

// TotalCount estimates how many reports the registry holds. It reads the
// listing metadata, falls back to walking pages, and finally reports the
// configured default. Counting is advisory so it never fails.
func (s *Service) TotalCount(ctx context.Context) int {
	if n, ok := s.countFromMetadata(ctx); ok {
		s.metrics.IncCountStrategy("metadata")
		return n
	}
	if n, ok := s.countByWalking(ctx); ok {
		s.metrics.IncCountStrategy("walk")
		return n
	}
	s.metrics.IncCountStrategy("default")
	s.logger.Warn("lpc: count unavailable, using default", "total", s.defaultTotal)
	return s.defaultTotal
}

func (s *Service) countFromMetadata(ctx context.Context) (int, bool) {
	v, err := s.up.ListReports(ctx, 1, 1, Filters{})
	if err != nil {
		s.logger.Debug("lpc: count metadata request failed", "err", err)
		return 0, false
	}
	m, ok := asMap(v)
	if !ok {
		return 0, false
	}
	_, hasTotal := m["total"]
	_, hasCount := m["totalCount"]
	if !hasTotal && !hasCount {
		return 0, false
	}
	return Reconcile(v).Total, true
}

func (s *Service) countByWalking(ctx context.Context) (int, bool) {
	size := s.countPageSize
	sum := 0
	for page := 1; page <= s.countMaxPages; page++ {
		v, err := s.up.ListReports(ctx, size, page, Filters{})
		if err != nil {
			if page == 1 && IsNotFound(err) {
				s.logger.Warn("lpc: first count page empty, reporting 1")
				return 1, true
			}
			s.logger.Warn("lpc: count walk failed", "page", page, "sum", sum, "err", err)
			return 0, false
		}
		n := len(Reconcile(v).Entries)
		if n == 0 {
			if page == 1 {
				s.logger.Warn("lpc: first count page empty, reporting 1")
				return 1, true
			}
			return sum, true
		}
		sum += n
		if n < size {
			return sum, true
		}
	}
	s.logger.Warn("lpc: count walk hit page ceiling", "pages", s.countMaxPages, "sum", sum)
	return sum, true
}
