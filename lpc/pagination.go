package lpc

// RawListing is a reconciled listing whose entries have not been normalised
// yet. Mismatch is set when the payload's results were not a list.
type RawListing struct {
	Total      int
	Page       int
	Limit      int
	RangeStart int
	RangeEnd   int
	Entries    []map[string]any
	Mismatch   bool
}

// Reconcile derives consistent pagination fields from a listing payload
// without another round trip. The steps run in a fixed order because each
// one reads what the previous produced.
func Reconcile(raw any) RawListing {
	var (
		out  RawListing
		list []any
		body map[string]any
	)

	switch t := raw.(type) {
	case []any:
		list = t
	case map[string]any:
		body = t
		switch r := t["results"].(type) {
		case []any:
			list = r
		case nil:
		default:
			out.Mismatch = true
		}
	case nil:
	default:
		out.Mismatch = true
	}

	// totalCount wins over total; pageCount is not carried.
	total, hasTotal := intKey(body, "total")
	if tc, ok := intKey(body, "totalCount"); ok {
		total, hasTotal = tc, true
	}
	start, hasStart := intKey(body, "from")
	end, hasEnd := intKey(body, "to")
	limit, hasLimit := intKey(body, "limit")
	page, hasPage := intKey(body, "page")

	// Non-object entries keep their position as empty objects.
	out.Entries = make([]map[string]any, len(list))
	for i, e := range list {
		if m, ok := e.(map[string]any); ok {
			out.Entries[i] = m
		} else {
			out.Entries[i] = map[string]any{}
		}
	}
	n := len(out.Entries)

	if !hasLimit || limit < 0 {
		limit = n
	}
	if !hasPage || page <= 0 {
		page = 1
	}
	if !hasTotal || total < 0 {
		total = n
	}
	if !hasStart || start <= 0 {
		start = (page-1)*limit + 1
	}
	if !hasEnd || end < 0 {
		end = rangeEnd(start, limit, total)
	}

	out.Total, out.Page, out.Limit = total, page, limit
	out.RangeStart, out.RangeEnd = start, end
	return out
}

// BoundaryListing is the listing for a page past the end of the data: no
// results and the smallest total consistent with the earlier pages existing.
func BoundaryListing(page, limit int) Listing {
	if page <= 0 {
		page = 1
	}
	if limit < 0 {
		limit = 0
	}
	total := (page - 1) * limit
	start := total + 1
	return Listing{
		Total:      total,
		Page:       page,
		Limit:      limit,
		RangeStart: start,
		RangeEnd:   rangeEnd(start, limit, total),
		Results:    []Landmark{},
	}
}

// rangeEnd is min(start+limit-1, total), never below start-1.
func rangeEnd(start, limit, total int) int {
	return max(min(start+limit-1, total), start-1)
}

func intKey(m map[string]any, k string) (int, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m[k]
	if !ok || v == nil {
		return 0, false
	}
	return asInt(v)
}
