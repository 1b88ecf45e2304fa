// Package price implements the fixed-point monetary unit used across the
// order book and matching engine. All comparisons inside the core are plain
// int64 comparisons; float64 appears only in FromFloat and Float64, which
// the matching path never calls.
package price

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional decimal digits carried by a Price: six,
// i.e. one unit equals 10^-6 of the quote currency.
const Scale = 6

var scaleFactor = decimal.New(1, Scale)

// Price is a signed fixed-point monetary amount in units of 10^-6 of the
// quote currency. Negative values are reserved and never valid on the book.
type Price int64

// Invalid is a negative sentinel for "no price"; Valid reports it as
// invalid.
const Invalid Price = -1

// Parse converts a producer-supplied decimal string (e.g. "100.50") into a
// Price, rounding to Scale fractional digits. It runs once, at the
// boundary — every comparison downstream is an integer comparison.
// Tick-size enforcement is the producer's responsibility, not this
// package's; Parse only rejects negative and malformed input.
func Parse(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("price: invalid decimal %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("price: negative price %q not allowed", s)
	}
	scaled := d.Mul(scaleFactor).Round(0)
	return Price(scaled.IntPart()), nil
}

// FromFloat quantizes a float64 price into the fixed-point domain. Provided
// for callers (tests, benchmarks) that already hold float64 prices; the
// matching path itself never calls this.
func FromFloat(f float64) Price {
	return Price(decimal.NewFromFloat(f).Mul(scaleFactor).Round(0).IntPart())
}

// Valid reports whether p is a non-negative price.
func (p Price) Valid() bool {
	return p >= 0
}

// Float64 renders p back to a float64, for display/logging only.
func (p Price) Float64() float64 {
	return decimal.New(int64(p), -Scale).InexactFloat64()
}

// String implements fmt.Stringer.
func (p Price) String() string {
	return decimal.New(int64(p), -Scale).String()
}
