// Package idgen provides the engine's monotonic time source. Timestamps
// are advisory only — the matcher relies on arrival order, not on
// timestamp values, for priority (spec.md §6) — but the source must be
// injectable so tests can drive it deterministically (spec.md §9).
package idgen

import (
	"sync/atomic"
	"time"

	"github.com/abelkalavadakken/MatchX-HFT/pkg/orderbook"
)

// Clock produces monotonic nanosecond timestamps since some fixed epoch
// (conventionally engine start).
type Clock interface {
	Now() orderbook.Timestamp
}

// SystemClock is the production Clock, backed by time.Now()'s monotonic
// reading, rebased to zero at construction.
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a Clock whose Now() is nanoseconds since the
// moment of this call.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Now() orderbook.Timestamp {
	return orderbook.Timestamp(time.Since(c.start).Nanoseconds())
}

// FakeClock is a deterministic Clock for tests: Now() returns the current
// value and never advances on its own; Set pins it and Step moves it
// forward by a given delta, with no dependency on wall-clock time.
type FakeClock struct {
	nanos atomic.Int64
}

// NewFakeClock returns a FakeClock starting at nanos.
func NewFakeClock(nanos int64) *FakeClock {
	c := &FakeClock{}
	c.nanos.Store(nanos)
	return c
}

func (c *FakeClock) Now() orderbook.Timestamp {
	return orderbook.Timestamp(c.nanos.Load())
}

// Set pins the clock to an exact value.
func (c *FakeClock) Set(nanos int64) {
	c.nanos.Store(nanos)
}

// Step advances the clock by delta nanoseconds and returns the new value.
func (c *FakeClock) Step(delta int64) orderbook.Timestamp {
	return orderbook.Timestamp(c.nanos.Add(delta))
}
