package lpc

import (
	"context"
	"fmt"
	"strings"
)

// Reference list kinds served by the registry.
const (
	RefBorough      = "borough"
	RefObjectType   = "objectType"
	RefNeighborhood = "neighborhood"
)

func referenceKind(kind string) (string, bool) {
	for _, k := range []string{RefBorough, RefObjectType, RefNeighborhood} {
		if strings.EqualFold(kind, k) {
			return k, true
		}
	}
	return "", false
}

// Reference fetches a lookup list. Entries may be bare strings or objects;
// a string is both code and name.
func (s *Service) Reference(ctx context.Context, kind string) ([]ReferenceItem, error) {
	k, ok := referenceKind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReference, kind)
	}
	v, err := s.up.GetReference(ctx, k)
	if err != nil {
		return nil, fmt.Errorf("reference %s: %w", k, err)
	}
	list, ok := entries(v)
	if !ok && v != nil {
		s.logger.Warn("lpc: reference payload has unexpected shape", "kind", k)
	}

	out := make([]ReferenceItem, 0, len(list))
	for _, e := range list {
		switch t := e.(type) {
		case string:
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, ReferenceItem{Code: t, Name: t})
			}
		case map[string]any:
			name := stringField(t, "name", "description", "value")
			code := firstNonEmpty(stringField(t, "code", "id", "key"), name)
			if code == "" {
				continue
			}
			out = append(out, ReferenceItem{Code: code, Name: firstNonEmpty(name, code)})
		}
	}
	return out, nil
}
