package lpc

import (
	"context"
)

// GetBuildings returns the buildings designated under lpNumber as canonical
// records. The dedicated endpoint is tried first, then the detail record's
// "landmarks" list. No buildings is a valid answer, not an error.
func (s *Service) GetBuildings(ctx context.Context, lpNumber string, limit int) ([]Landmark, error) {
	if limit <= 0 {
		limit = DefaultBuildingsLimit
	}

	items, err := s.directBuildings(ctx, lpNumber, limit)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		s.logger.Warn("lpc: buildings endpoint failed, trying detail", "lp_number", lpNumber, "err", err)
	}
	source := "direct"
	if len(items) == 0 {
		items, err = s.detailBuildings(ctx, lpNumber)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			s.logger.Warn("lpc: detail lookup for buildings failed", "lp_number", lpNumber, "err", err)
		}
		source = "detail"
	}
	if len(items) == 0 {
		s.metrics.IncBuildingSource("none")
		return []Landmark{}, nil
	}
	s.metrics.IncBuildingSource(source)

	out := make([]Landmark, 0, len(items))
	for _, b := range items {
		l, _ := s.normalizer.Normalize(b, lpNumber)
		out = append(out, l)
	}
	return out, nil
}

func (s *Service) directBuildings(ctx context.Context, lpNumber string, limit int) ([]Building, error) {
	v, err := s.up.GetBuildings(ctx, lpNumber, limit)
	if err != nil {
		return nil, err
	}
	list, ok := entries(v)
	if !ok && v != nil {
		s.logger.Warn("lpc: buildings payload has unexpected shape", "lp_number", lpNumber)
	}
	return buildingsFrom(list), nil
}

func (s *Service) detailBuildings(ctx context.Context, lpNumber string) ([]Building, error) {
	v, err := s.up.GetReport(ctx, lpNumber)
	if err != nil {
		return nil, err
	}
	m, ok := asMap(v)
	if !ok {
		return nil, nil
	}
	list, _ := m["landmarks"].([]any)
	return buildingsFrom(list), nil
}

func buildingsFrom(list []any) []Building {
	ms := maps(list)
	out := make([]Building, 0, len(ms))
	for _, m := range ms {
		out = append(out, parseBuilding(m))
	}
	return out
}
