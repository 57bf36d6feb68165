package lpc

import (
	"context"
	"fmt"
)

// ListLandmarks fetches one page of the report listing. A 404 means the page
// lies past the end of the data and yields an empty listing; any other
// failure is returned.
func (s *Service) ListLandmarks(ctx context.Context, f Filters, page, limit int) (Listing, error) {
	v, err := s.up.ListReports(ctx, limit, page, f)
	if err != nil {
		if IsNotFound(err) {
			s.metrics.IncBoundary()
			s.logger.Debug("lpc: listing page past end", "page", page, "limit", limit)
			return BoundaryListing(page, limit), nil
		}
		return Listing{}, fmt.Errorf("list landmarks page %d: %w", page, err)
	}

	rl := Reconcile(withRequested(v, page, limit))
	if rl.Mismatch {
		s.logger.Warn("lpc: listing results not a list", "page", page, "limit", limit)
	}
	out := Listing{
		Total:      rl.Total,
		Page:       rl.Page,
		Limit:      rl.Limit,
		RangeStart: rl.RangeStart,
		RangeEnd:   rl.RangeEnd,
		Results:    make([]Landmark, 0, len(rl.Entries)),
	}
	for _, e := range rl.Entries {
		l, _ := s.normalizer.Normalize(RawItem(e), "")
		out.Results = append(out.Results, l)
	}
	return out, nil
}

// withRequested fills page and limit the registry left out of a 2xx
// listing with the values that were asked for, so the reconciled range
// agrees with the 404 boundary path. Keys the registry did send are kept.
func withRequested(v any, page, limit int) any {
	var m map[string]any
	switch t := v.(type) {
	case map[string]any:
		m = make(map[string]any, len(t)+2)
		for k, val := range t {
			m[k] = val
		}
	case []any:
		m = map[string]any{"results": t}
	default:
		return v
	}
	if _, ok := m["page"]; !ok && page > 0 {
		m["page"] = page
	}
	if _, ok := m["limit"]; !ok && limit > 0 {
		m["limit"] = limit
	}
	return m
}
