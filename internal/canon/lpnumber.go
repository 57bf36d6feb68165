package canon

import (
	"regexp"
	"strings"
)

// LPPrefix is the registry's designation prefix ("LP-00001").
const LPPrefix = "LP-"

const lpDigits = 5

var (
	reLeadingDigits  = regexp.MustCompile(`^\d+`)
	reTrailingLetter = regexp.MustCompile(`[A-Za-z]+$`)
	reNonDigit       = regexp.MustCompile(`\D`)
)

// StandardizeLPNumber expands a loosely formatted landmark identifier into
// candidate LP numbers, most likely first. "9" becomes ["LP-00009"]; a value
// carrying a building letter ("00123A") also yields the padded-with-suffix and
// digits-only variants. Blank input yields no candidates.
func StandardizeLPNumber(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if len(raw) >= len(LPPrefix) && strings.EqualFold(raw[:len(LPPrefix)], LPPrefix) {
		raw = LPPrefix + raw[len(LPPrefix):]
	}

	base := raw
	if !strings.HasPrefix(raw, LPPrefix) {
		base = LPPrefix + zfill(strings.TrimLeft(raw, "0"), lpDigits)
	}
	candidates := []string{base}

	rest := strings.TrimPrefix(base, LPPrefix)
	if hasLetter(rest) {
		lead := reLeadingDigits.FindString(rest)
		trail := reTrailingLetter.FindString(rest)
		if lead != "" && trail != "" {
			candidates = append(candidates, LPPrefix+padNumber(lead)+trail)
		}
		if digits := reNonDigit.ReplaceAllString(rest, ""); digits != "" {
			candidates = append(candidates, LPPrefix+padNumber(digits))
		}
	}
	return dedupe(candidates)
}

// HasLPPrefix reports whether id already carries the registry prefix.
func HasLPPrefix(id string) bool {
	return strings.HasPrefix(id, LPPrefix)
}

// padNumber drops leading zeros and left-pads back to the registry width.
func padNumber(digits string) string {
	return zfill(strings.TrimLeft(digits, "0"), lpDigits)
}

func zfill(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			return true
		}
	}
	return false
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
