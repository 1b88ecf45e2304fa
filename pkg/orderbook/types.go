// Package orderbook implements the per-instrument limit order book: the
// price-level index and the time-ordered FIFO queues that must stay exact
// under arbitrary insert/cancel/partial-fill interleaving while allocating
// no memory on the hot path.
//
// Orders are never referenced by Go pointer inside this package. They live
// in a fixed-capacity slab owned by pkg/pool and are referenced everywhere
// by Ref, a slab index — the arena-index model spec.md's design notes
// call for in languages without raw intrusive pointers.
package orderbook

import "github.com/abelkalavadakken/MatchX-HFT/pkg/price"

// OrderID is the producer-assigned identifier, unique for the lifetime of
// an engine.
type OrderID uint64

// Symbol is an opaque instrument key assigned by the host; mapping to a
// human ticker happens outside the core.
type Symbol uint32

// Quantity is a base-asset amount.
type Quantity uint64

// Timestamp is monotonic nanoseconds since engine start. Priority is
// derived from arrival order, not from this value — see pkg/idgen.
type Timestamp int64

// Side is one side of the book.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// OrderType selects the order-type semantics the matching engine applies
// after the matching loop terminates (spec.md §4.3.2).
type OrderType uint8

const (
	Limit OrderType = iota
	Market
	ImmediateOrCancel
	FillOrKill
)

func (t OrderType) String() string {
	switch t {
	case Limit:
		return "limit"
	case Market:
		return "market"
	case ImmediateOrCancel:
		return "ioc"
	case FillOrKill:
		return "fok"
	default:
		return "unknown"
	}
}

// Ref is an index into a Slab's order storage. NilRef denotes "no order",
// the arena analogue of a null pointer.
type Ref int32

// NilRef is the sentinel for "no order". It is not Ref's zero value, which
// names slot 0.
const NilRef Ref = -1

// Order is a plain value living inside a pool-owned slab. prev/next are
// intrusive FIFO links within whichever priceLevel currently holds the
// order; they are meaningless while the order is not resting.
//
// Invariant: RemainingQuantity <= OriginalQuantity. RemainingQuantity == 0
// iff the order is filled and must not remain referenced by any level or
// id index.
type Order struct {
	ID                OrderID
	Symbol            Symbol
	Price             price.Price
	OriginalQuantity  Quantity
	RemainingQuantity Quantity
	Side              Side
	Type              OrderType
	Timestamp         Timestamp

	prev, next Ref
}

// Reset zeroes an order in place. Called by pkg/pool before an allocated
// slot is handed out, so stale data from a previous occupant never leaks.
func (o *Order) Reset() {
	*o = Order{prev: NilRef, next: NilRef}
}

func (o *Order) IsBuy() bool    { return o.Side == Buy }
func (o *Order) IsSell() bool   { return o.Side == Sell }
func (o *Order) IsMarket() bool { return o.Type == Market }
func (o *Order) IsLimit() bool  { return o.Type == Limit }
func (o *Order) IsIOC() bool    { return o.Type == ImmediateOrCancel }
func (o *Order) IsFOK() bool    { return o.Type == FillOrKill }

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool { return o.RemainingQuantity == 0 }

// Fill reduces the remaining quantity by qty. Callers must not pass a qty
// greater than RemainingQuantity.
func (o *Order) Fill(qty Quantity) {
	o.RemainingQuantity -= qty
}

