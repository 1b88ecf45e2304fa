package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemClockIsMonotonicNonNegative(t *testing.T) {
	c := NewSystemClock()
	first := c.Now()
	second := c.Now()
	assert.GreaterOrEqual(t, int64(first), int64(0))
	assert.GreaterOrEqual(t, int64(second), int64(first))
}

func TestFakeClockHoldsSetValue(t *testing.T) {
	c := NewFakeClock(100)
	assert.Equal(t, int64(100), int64(c.Now()))
	assert.Equal(t, int64(100), int64(c.Now()), "Now must not advance on its own")

	c.Set(500)
	assert.Equal(t, int64(500), int64(c.Now()))
}

func TestFakeClockStepAdvancesAndReturnsNewValue(t *testing.T) {
	c := NewFakeClock(10)
	got := c.Step(5)
	assert.Equal(t, int64(15), int64(got))
	assert.Equal(t, int64(15), int64(c.Now()))
}

func TestFakeClockSatisfiesClockInterface(t *testing.T) {
	var c Clock = NewFakeClock(0)
	assert.Equal(t, int64(0), int64(c.Now()))
}
