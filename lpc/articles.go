package lpc

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strings"
)

// ArticleReferences returns the Wikipedia article URLs attached to each of
// lpNumbers through the registry's web content. Landmarks without articles
// are absent from the result.
func (s *Service) ArticleReferences(ctx context.Context, lpNumbers []string) (map[string][]string, error) {
	out := map[string][]string{}
	if len(lpNumbers) == 0 {
		return out, nil
	}
	v, err := s.up.GetWebContent(ctx, lpNumbers)
	if err != nil {
		return nil, fmt.Errorf("web content batch: %w", err)
	}

	var objs []map[string]any
	switch t := v.(type) {
	case []any:
		objs = maps(t)
	case map[string]any:
		// Keyed by LP number, or wrapped in "results".
		if list, ok := t["results"].([]any); ok {
			objs = maps(list)
			break
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if urls := wikipediaURLs(t[k]); len(urls) > 0 {
				out[k] = urls
			}
		}
		return out, nil
	default:
		if v != nil {
			s.logger.Warn("lpc: web content payload has unexpected shape")
		}
	}

	for _, m := range objs {
		lp := stringField(m, "lpcId", "lpNumber", "lpcNumber")
		if lp == "" {
			continue
		}
		if urls := wikipediaURLs(m); len(urls) > 0 {
			out[lp] = appendUnique(out[lp], urls...)
		}
	}
	return out, nil
}

// wikipediaURLs walks any decoded JSON value and collects Wikipedia URLs in
// first-seen order.
func wikipediaURLs(v any) []string {
	var out []string
	var walk func(any)
	walk = func(v any) {
		switch t := v.(type) {
		case string:
			if isWikipedia(t) {
				out = appendUnique(out, strings.TrimSpace(t))
			}
		case []any:
			for _, e := range t {
				walk(e)
			}
		case map[string]any:
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(t[k])
			}
		}
	}
	walk(v)
	return out
}

func isWikipedia(s string) bool {
	s = strings.TrimSpace(s)
	if !validURL(s) {
		return false
	}
	u, _ := url.Parse(s)
	host := strings.ToLower(u.Hostname())
	return host == "wikipedia.org" || strings.HasSuffix(host, ".wikipedia.org")
}

func appendUnique(dst []string, vals ...string) []string {
	for _, v := range vals {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}
