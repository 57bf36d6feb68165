package canon

import (
	"regexp"
	"strings"
)

var rePunct = regexp.MustCompile(`[^A-Za-z0-9\s]`)

var boroughNames = map[string]string{
	"MN": "Manhattan",
	"BK": "Brooklyn",
	"BX": "Bronx",
	"QN": "Queens",
	"SI": "Staten Island",
}

// Address joins house number and street fragments into a single display line.
func Address(parts ...string) string {
	return collapseSpaces(strings.Join(parts, " "))
}

// AddressKey computes a comparison key for a building address. It ignores
// punctuation, case and street-suffix spelling so "12 West 4th Street" and
// "12 WEST 4TH ST." share a key.
func AddressKey(line string) string {
	n := strings.ToUpper(strings.TrimSpace(line))
	n = rePunct.ReplaceAllString(n, " ")
	n = abbreviateSuffix(" " + n + " ")
	return strings.ToLower(collapseSpaces(n))
}

// Borough expands a two-letter borough code. Full names and unknown codes are
// returned trimmed but otherwise unchanged.
func Borough(code string) string {
	c := strings.TrimSpace(code)
	if name, ok := boroughNames[strings.ToUpper(c)]; ok {
		return name
	}
	return c
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func abbreviateSuffix(s string) string {
	repl := []struct{ long, short string }{
		{" STREET ", " ST "},
		{" AVENUE ", " AVE "},
		{" BOULEVARD ", " BLVD "},
		{" PLACE ", " PL "},
		{" ROAD ", " RD "},
		{" DRIVE ", " DR "},
		{" LANE ", " LN "},
		{" COURT ", " CT "},
		{" TERRACE ", " TER "},
		{" PARKWAY ", " PKWY "},
		{" HIGHWAY ", " HWY "},
		{" SQUARE ", " SQ "},
	}
	out := s
	for _, r := range repl {
		out = strings.ReplaceAll(out, r.long, r.short)
	}
	return out
}
