// Package ring implements the bounded single-producer/single-consumer
// queue that decouples the front-end from the matcher while preserving
// ordering and bounded memory (spec.md §4.5).
//
// Grounded on original_source/include/nanotrader/memory/ring_buffer.hpp's
// SPSCRingBuffer<T, Size>: head and tail are raw indices kept within
// [0, Size) by masking on every advance (not unbounded monotonic
// counters), giving N-1 usable slots so head==tail is unambiguously
// "empty". Each side caches the other side's index so the common path
// never touches the opposite core's cache line unless it looks full or
// empty.
package ring

import (
	"fmt"
	"sync/atomic"
)

// cache-line padding: one atomic.Uint64 (8 bytes) plus one cached uint64
// (8 bytes) leaves 48 bytes to fill a typical 64-byte line.
type pad [48]byte

// Ring is a bounded, power-of-two-capacity SPSC queue of T. It is safe for
// exactly one producer goroutine calling TryPush concurrently with exactly
// one consumer goroutine calling TryPop/TryPopBatch; it is not safe for any
// other concurrency pattern.
type Ring[T any] struct {
	// Producer-owned cache line: tail is written only by the producer and
	// read by the consumer; cachedHead is the producer's local, possibly
	// stale copy of head, refreshed only when the ring looks full.
	tail       atomic.Uint64
	cachedHead uint64
	_          pad

	// Consumer-owned cache line: head is written only by the consumer and
	// read by the producer; cachedTail is the consumer's local copy of
	// tail, refreshed only when the ring looks empty.
	head       atomic.Uint64
	cachedTail uint64
	_          pad

	mask uint64
	buf  []T
}

// New creates a ring with the given power-of-two capacity. Usable capacity
// is capacity-1.
func New[T any](capacity uint64) *Ring[T] {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		panic(fmt.Sprintf("ring: capacity %d must be a power of two >= 2", capacity))
	}
	return &Ring[T]{
		mask: capacity - 1,
		buf:  make([]T, capacity),
	}
}

// TryPush publishes v. It never blocks or allocates, and returns false if
// the ring is full.
func (r *Ring[T]) TryPush(v T) bool {
	tail := r.tail.Load()
	next := (tail + 1) & r.mask

	if next == r.cachedHead {
		r.cachedHead = r.head.Load()
		if next == r.cachedHead {
			return false
		}
	}

	r.buf[tail] = v
	r.tail.Store(next)
	return true
}

// TryPop consumes one element into out. It never blocks or allocates, and
// returns false if the ring is empty.
func (r *Ring[T]) TryPop(out *T) bool {
	head := r.head.Load()

	if head == r.cachedTail {
		r.cachedTail = r.tail.Load()
		if head == r.cachedTail {
			return false
		}
	}

	*out = r.buf[head]
	var zero T
	r.buf[head] = zero // drop the reference so the consumed element's memory can be reclaimed
	r.head.Store((head + 1) & r.mask)
	return true
}

// TryPopBatch applies sink to up to max available items in one publication,
// preserving FIFO order between them. It returns the number of items
// consumed.
func (r *Ring[T]) TryPopBatch(sink func(T), max int) int {
	head := r.head.Load()

	if head == r.cachedTail {
		r.cachedTail = r.tail.Load()
		if head == r.cachedTail {
			return 0
		}
	}

	available := (r.cachedTail - head) & r.mask
	toPop := available
	if uint64(max) < toPop {
		toPop = uint64(max)
	}

	var zero T
	for i := uint64(0); i < toPop; i++ {
		idx := (head + i) & r.mask
		sink(r.buf[idx])
		r.buf[idx] = zero
	}

	r.head.Store((head + toPop) & r.mask)
	return int(toPop)
}

// Empty reports whether the ring currently holds no elements.
func (r *Ring[T]) Empty() bool {
	return r.head.Load() == r.tail.Load()
}

// Full reports whether the ring is at usable capacity.
func (r *Ring[T]) Full() bool {
	tail := r.tail.Load()
	head := r.head.Load()
	return (tail+1)&r.mask == head
}

// Len returns the number of currently queued elements.
func (r *Ring[T]) Len() int {
	tail := r.tail.Load()
	head := r.head.Load()
	return int((tail - head) & r.mask)
}

// Cap returns the usable capacity (power-of-two size minus one).
func (r *Ring[T]) Cap() int {
	return len(r.buf) - 1
}
