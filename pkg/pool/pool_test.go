package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelkalavadakken/MatchX-HFT/pkg/orderbook"
)

func TestAllocateExhaustion(t *testing.T) {
	p := New(2)
	assert.Equal(t, 2, p.Capacity())
	assert.Equal(t, 2, p.AvailableCount())

	ref1, o1, ok := p.Allocate()
	require.True(t, ok)
	o1.ID = 1

	ref2, o2, ok := p.Allocate()
	require.True(t, ok)
	o2.ID = 2
	assert.NotEqual(t, ref1, ref2)

	_, _, ok = p.Allocate()
	assert.False(t, ok, "pool should be exhausted")
	assert.Equal(t, 0, p.AvailableCount())
}

func TestFreeAndReallocate(t *testing.T) {
	p := New(1)

	ref, o, ok := p.Allocate()
	require.True(t, ok)
	o.ID = 42
	o.RemainingQuantity = 100

	p.Free(ref)
	assert.Equal(t, 1, p.AvailableCount())

	ref2, o2, ok := p.Allocate()
	require.True(t, ok)
	assert.Equal(t, ref, ref2, "single-slot pool must reuse the same slot")
	assert.Equal(t, orderbook.OrderID(0), o2.ID, "reallocated order must be zeroed")
	assert.Equal(t, orderbook.Quantity(0), o2.RemainingQuantity)
}

func TestGetResolvesLiveOrder(t *testing.T) {
	p := New(4)
	ref, o, ok := p.Allocate()
	require.True(t, ok)
	o.ID = 7

	got := p.Get(ref)
	assert.Equal(t, orderbook.OrderID(7), got.ID)
	assert.Same(t, o, got)
}

func TestFreeListLIFOOrderIsReusable(t *testing.T) {
	p := New(8)
	var refs []orderbook.Ref
	for i := 0; i < 8; i++ {
		ref, o, ok := p.Allocate()
		require.True(t, ok)
		o.ID = orderbook.OrderID(i)
		refs = append(refs, ref)
	}
	_, _, ok := p.Allocate()
	require.False(t, ok)

	for _, ref := range refs {
		p.Free(ref)
	}
	assert.Equal(t, 8, p.AvailableCount())

	seen := make(map[orderbook.Ref]bool)
	for i := 0; i < 8; i++ {
		ref, _, ok := p.Allocate()
		require.True(t, ok)
		assert.False(t, seen[ref], "slot reused twice concurrently")
		seen[ref] = true
	}
}
