package orderbook

import "github.com/abelkalavadakken/MatchX-HFT/pkg/price"

// Slab resolves a Ref to the Order it names. pkg/pool is the production
// implementation; it is kept as an interface here so this package never
// imports pool (pool imports orderbook, not the other way around) and so
// tests can supply a bare slice-backed stub.
type Slab interface {
	Get(ref Ref) *Order
}

// priceLevel is the FIFO queue of orders resting at one price on one side.
// The chain is strictly arrival-ordered; it is never reordered after
// construction.
type priceLevel struct {
	price         price.Price
	head, tail    Ref
	count         int
	totalQuantity Quantity
}

func newPriceLevel(p price.Price) *priceLevel {
	return &priceLevel{price: p, head: NilRef, tail: NilRef}
}

// add appends ref to the tail of the chain, in O(1).
func (l *priceLevel) add(slab Slab, ref Ref) {
	o := slab.Get(ref)
	o.prev = l.tail
	o.next = NilRef

	if l.tail != NilRef {
		slab.Get(l.tail).next = ref
	} else {
		l.head = ref
	}
	l.tail = ref

	l.count++
	l.totalQuantity += o.RemainingQuantity
}

// remove unlinks ref from the chain, in O(1) given the ref.
func (l *priceLevel) remove(slab Slab, ref Ref) {
	o := slab.Get(ref)

	if o.prev != NilRef {
		slab.Get(o.prev).next = o.next
	} else {
		l.head = o.next
	}

	if o.next != NilRef {
		slab.Get(o.next).prev = o.prev
	} else {
		l.tail = o.prev
	}

	o.prev = NilRef
	o.next = NilRef

	l.count--
	l.totalQuantity -= o.RemainingQuantity
}

// updateQuantity adjusts the aggregate quantity by the delta between the
// order's previous and current remaining quantity, without touching the
// chain — the order keeps its queue position.
func (l *priceLevel) updateQuantity(oldRemaining, newRemaining Quantity) {
	l.totalQuantity = l.totalQuantity - oldRemaining + newRemaining
}

func (l *priceLevel) isEmpty() bool {
	return l.count == 0
}
