package price

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Price
	}{
		{"100.50", 100_500_000},
		{"100.40", 100_400_000},
		{"0.000001", 1},
		{"0", 0},
		{"1234567.891234", 1234567_891234},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "Parse(%q)", c.in)
	}
}

func TestParseRejectsNegative(t *testing.T) {
	_, err := Parse("-1.00")
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not-a-number")
	assert.Error(t, err)
}

func TestFromFloatRoundTrip(t *testing.T) {
	p := FromFloat(100.50)
	assert.Equal(t, Price(100_500_000), p)
	assert.InDelta(t, 100.50, p.Float64(), 1e-9)
}

func TestStringTrimsTrailingZeros(t *testing.T) {
	p, err := Parse("99.00")
	require.NoError(t, err)
	assert.Equal(t, "99", p.String())
}

func TestValid(t *testing.T) {
	assert.True(t, Price(0).Valid())
	assert.True(t, Price(100).Valid())
	assert.False(t, Invalid.Valid())
}

func TestComparisonsAreIntegerComparisons(t *testing.T) {
	a, err := Parse("100.50")
	require.NoError(t, err)
	b, err := Parse("100.40")
	require.NoError(t, err)
	assert.True(t, a > b)
	assert.True(t, b < a)
}
