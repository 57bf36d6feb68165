package lpc

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// The registry is loose about JSON types: numbers arrive as strings, ids as
// numbers, lists as objects. These helpers read decoded JSON (decoded with
// UseNumber) without trusting its shape.

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), true
		}
		if f, err := t.Float64(); err == nil && f == math.Trunc(f) {
			return int(f), true
		}
	case float64:
		if t == math.Trunc(t) {
			return int(t), true
		}
	case int:
		return t, true
	case int64:
		return int(t), true
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// entries returns the list carried by a payload: a bare array, or the
// "results" array of an object.
func entries(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case map[string]any:
		if list, ok := t["results"].([]any); ok {
			return list, true
		}
	}
	return nil, false
}

// maps keeps only the object entries of list.
func maps(list []any) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// stringField returns the first non-empty string among keys.
func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := asString(m[k]); ok && s != "" {
			return s
		}
	}
	return ""
}

func intField(m map[string]any, keys ...string) int {
	for _, k := range keys {
		if i, ok := asInt(m[k]); ok {
			return i
		}
	}
	return 0
}

// optionalString distinguishes "absent or blank" (nil) from a real value.
func optionalString(m map[string]any, keys ...string) *string {
	if s := stringField(m, keys...); s != "" {
		return &s
	}
	return nil
}

func pointField(m map[string]any, latKeys, lonKeys []string) *Point {
	var lat, lon float64
	var okLat, okLon bool
	for _, k := range latKeys {
		if lat, okLat = asFloat(m[k]); okLat {
			break
		}
	}
	for _, k := range lonKeys {
		if lon, okLon = asFloat(m[k]); okLon {
			break
		}
	}
	if !okLat || !okLon || (lat == 0 && lon == 0) {
		return nil
	}
	return &Point{Latitude: lat, Longitude: lon}
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
