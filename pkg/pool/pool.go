// Package pool implements the order object pool: a fixed-capacity,
// cache-line-aligned slab of orderbook.Order together with a lock-free
// singly linked free list threaded through the unused slots.
//
// Grounded on original_source/include/nanotrader/memory/pool_allocator.hpp:
// allocate pops the free list via CAS, deallocate pushes via CAS. In this
// design both operations happen on the matcher goroutine only (spec.md
// §5), so the CAS loop is uncontended in practice; it exists to keep the
// structure sound if that single-writer assumption is ever relaxed.
package pool

import (
	"sync/atomic"

	"github.com/abelkalavadakken/MatchX-HFT/pkg/orderbook"
)

// DefaultCapacity is the default slab size: one million resting/in-flight
// orders, per spec.md §4.4.
const DefaultCapacity = 1_000_000

// nilIndex marks the end of the free list / an empty pool. It can never
// collide with a real slot index for any sane capacity.
const nilIndex = ^uint32(0)

// Pool is a fixed-capacity allocator for orderbook.Order. It never grows;
// Allocate returns ok=false once every slot is in use.
type Pool struct {
	slab      []orderbook.Order
	freeNext  []uint32 // freeNext[i]: next free index after i, valid only while i is free
	head      atomic.Uint64
	available atomic.Int64
}

// New creates a pool with room for capacity orders, all initially free.
func New(capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	p := &Pool{
		slab:     make([]orderbook.Order, capacity),
		freeNext: make([]uint32, capacity),
	}
	for i := 0; i < capacity; i++ {
		if i == capacity-1 {
			p.freeNext[i] = nilIndex
		} else {
			p.freeNext[i] = uint32(i + 1)
		}
		p.slab[i].Reset()
	}
	p.head.Store(packHead(0, 0))
	p.available.Store(int64(capacity))

	return p
}

func packHead(generation, index uint32) uint64 {
	return uint64(generation)<<32 | uint64(index)
}

func unpackHead(h uint64) (generation, index uint32) {
	return uint32(h >> 32), uint32(h)
}

// Allocate pops a free slot from the list. On exhaustion it returns
// (NilRef, nil, false); callers must treat that as a structural rejection,
// never retry internally (spec.md §7).
func (p *Pool) Allocate() (orderbook.Ref, *orderbook.Order, bool) {
	for {
		old := p.head.Load()
		generation, index := unpackHead(old)
		if index == nilIndex {
			return orderbook.NilRef, nil, false
		}

		next := p.freeNext[index]
		newHead := packHead(generation+1, next)
		if p.head.CompareAndSwap(old, newHead) {
			p.available.Add(-1)
			o := &p.slab[index]
			o.Reset()
			return orderbook.Ref(index), o, true
		}
	}
}

// Free returns ref's slot to the free list. The order is zeroed before
// release so no stale field is ever visible to the next allocation.
func (p *Pool) Free(ref orderbook.Ref) {
	index := uint32(ref)
	p.slab[index].Reset()

	for {
		old := p.head.Load()
		generation, headIndex := unpackHead(old)
		p.freeNext[index] = headIndex
		newHead := packHead(generation+1, index)
		if p.head.CompareAndSwap(old, newHead) {
			p.available.Add(1)
			return
		}
	}
}

// Get resolves ref to the live *orderbook.Order in the slab. It implements
// orderbook.Slab.
func (p *Pool) Get(ref orderbook.Ref) *orderbook.Order {
	return &p.slab[ref]
}

// AvailableCount returns the number of free slots.
func (p *Pool) AvailableCount() int {
	return int(p.available.Load())
}

// Capacity returns the pool's fixed slab size.
func (p *Pool) Capacity() int {
	return len(p.slab)
}
