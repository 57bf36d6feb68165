package lpc

import (
	"context"

	"github.com/yourorg/landmark-api/internal/canon"
)

// ResolveLandmark looks a landmark up by a loosely formatted identifier,
// probing each standardised candidate until the registry returns an object.
// found is false when every candidate missed; err is only set when ctx ends.
func (s *Service) ResolveLandmark(ctx context.Context, raw string) (*LandmarkDetail, bool, error) {
	d, _, found, err := s.resolveRaw(ctx, raw)
	return d, found, err
}

// ResolveLandmarkRaw is ResolveLandmark plus the registry object the detail
// was built from.
func (s *Service) ResolveLandmarkRaw(ctx context.Context, raw string) (*LandmarkDetail, map[string]any, bool, error) {
	return s.resolveRaw(ctx, raw)
}

// Resolve is ResolveLandmark reduced to the canonical record.
func (s *Service) Resolve(ctx context.Context, raw string) (Landmark, bool, error) {
	d, found, err := s.ResolveLandmark(ctx, raw)
	if err != nil || !found {
		return Landmark{}, found, err
	}
	return d.Landmark, true, nil
}

func (s *Service) resolveRaw(ctx context.Context, raw string) (*LandmarkDetail, map[string]any, bool, error) {
	candidates := canon.StandardizeLPNumber(raw)
	for _, id := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, nil, false, err
		}
		v, err := s.up.GetReport(ctx, id)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, false, ctxErr
			}
			s.metrics.IncProbe("error")
			s.logger.Debug("lpc: candidate probe failed", "raw_id", raw, "candidate", id, "err", err)
			continue
		}
		m, ok := asMap(v)
		if !ok || len(m) == 0 {
			s.metrics.IncProbe("empty")
			s.logger.Debug("lpc: candidate returned no record", "raw_id", raw, "candidate", id)
			continue
		}
		s.metrics.IncProbe("hit")
		return s.normalizer.parseDetail(m, resolveContextID(m, candidates, raw)), m, true, nil
	}
	s.logger.Info("lpc: landmark not found", "raw_id", raw, "candidates", candidates)
	return nil, nil, false, nil
}

// resolveContextID picks the identifier a resolved record is known by: the
// response's own id, then the first prefixed candidate, then the raw input.
func resolveContextID(m map[string]any, candidates []string, raw string) string {
	if id := stringField(m, "id"); id != "" {
		return id
	}
	for _, c := range candidates {
		if canon.HasLPPrefix(c) {
			return c
		}
	}
	return raw
}
