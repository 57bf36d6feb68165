package lpc

import (
	"context"
	"fmt"
)

// Photos returns archive photos for a landmark. Entries without an absolute
// http(s) URL are skipped.
func (s *Service) Photos(ctx context.Context, lpNumber string, limit int) ([]Photo, error) {
	if limit <= 0 {
		limit = DefaultPhotosLimit
	}
	v, err := s.up.GetPhotos(ctx, lpNumber, limit)
	if err != nil {
		if IsNotFound(err) {
			return []Photo{}, nil
		}
		return nil, fmt.Errorf("photos for %s: %w", lpNumber, err)
	}
	list, ok := entries(v)
	if !ok && v != nil {
		s.logger.Warn("lpc: photo payload has unexpected shape", "lp_number", lpNumber)
	}

	out := make([]Photo, 0, len(list))
	skipped := 0
	for _, m := range maps(list) {
		u := stringField(m, "url", "photoUrl", "imageUrl")
		if !validURL(u) {
			skipped++
			continue
		}
		out = append(out, Photo{
			ID:          stringField(m, "id", "photoId"),
			LPNumber:    firstNonEmpty(stringField(m, "lpcId", "lpNumber"), lpNumber),
			Title:       stringField(m, "title"),
			Description: stringField(m, "description", "desc"),
			Year:        stringField(m, "year", "yearTaken"),
			URL:         u,
		})
	}
	if skipped > 0 {
		s.logger.Debug("lpc: photos without usable url", "lp_number", lpNumber, "skipped", skipped)
	}
	return out, nil
}
