package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardizeLPNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "bare number is padded", raw: "9", want: []string{"LP-00009"}},
		{name: "leading zeros are normalised", raw: "000123", want: []string{"LP-00123"}},
		{name: "canonical id passes through", raw: "LP-01234", want: []string{"LP-01234"}},
		{name: "lowercase prefix is upper-cased", raw: "lp-01234", want: []string{"LP-01234"}},
		{name: "surrounding whitespace is ignored", raw: "  42 ", want: []string{"LP-00042"}},
		{name: "long numbers are not truncated", raw: "123456", want: []string{"LP-123456"}},
		{
			name: "building letter yields suffix and digit variants",
			raw:  "00123A",
			want: []string{"LP-0123A", "LP-00123A", "LP-00123"},
		},
		{
			name: "prefixed id with suffix still expands",
			raw:  "LP-0123A",
			want: []string{"LP-0123A", "LP-00123A", "LP-00123"},
		},
		{
			name: "duplicates are removed",
			raw:  "LP-00123A",
			want: []string{"LP-00123A", "LP-00123"},
		},
		{
			name: "letters without a leading digit run only add the digits variant",
			raw:  "A12",
			want: []string{"LP-00A12", "LP-00012"},
		},
		{name: "blank input yields nothing", raw: "   ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StandardizeLPNumber(tt.raw))
		})
	}
}

func TestHasLPPrefix(t *testing.T) {
	assert.True(t, HasLPPrefix("LP-00001"))
	assert.False(t, HasLPPrefix("00001"))
}
