package engine

import (
	"time"

	"github.com/abelkalavadakken/MatchX-HFT/pkg/orderbook"
	"github.com/abelkalavadakken/MatchX-HFT/pkg/price"
)

// CommandKind selects which payload fields of an OrderCommand are live.
type CommandKind uint8

const (
	CommandAdd CommandKind = iota
	CommandCancel
	CommandModify
)

func (k CommandKind) String() string {
	switch k {
	case CommandAdd:
		return "add"
	case CommandCancel:
		return "cancel"
	case CommandModify:
		return "modify"
	default:
		return "unknown"
	}
}

// OrderCommand is the single value type carried by the input ring. It is
// a plain struct, not an interface, so pushing one onto pkg/ring never
// allocates (spec.md §4.5 requires the ring be usable with a POD payload).
type OrderCommand struct {
	Kind CommandKind

	// Add payload.
	OrderID  orderbook.OrderID
	Symbol   orderbook.Symbol
	Side     orderbook.Side
	Type     orderbook.OrderType
	Price    price.Price
	Quantity orderbook.Quantity

	// Cancel payload reuses OrderID and Symbol above.

	// Modify payload: OrderID and Symbol above identify the target;
	// NewQuantity replaces OriginalQuantity. Price changes are not
	// supported — a price change is a cancel/replace at the producer.
	NewQuantity orderbook.Quantity
}

// Status is the outcome of processing one OrderCommand.
type Status uint8

const (
	Added Status = iota
	Matched
	Cancelled
	Modified
	Rejected
)

func (s Status) String() string {
	switch s {
	case Added:
		return "added"
	case Matched:
		return "matched"
	case Cancelled:
		return "cancelled"
	case Modified:
		return "modified"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Trade is one maker/taker execution. Price is always the resting maker's
// price (spec.md §4.3.1 — the maker's price always wins).
type Trade struct {
	MakerOrderID orderbook.OrderID
	TakerOrderID orderbook.OrderID
	Symbol       orderbook.Symbol
	Price        price.Price
	Quantity     orderbook.Quantity
	Timestamp    orderbook.Timestamp
}

// MatchResult is the single value type carried by the output ring.
type MatchResult struct {
	Status  Status
	OrderID orderbook.OrderID
	Trades  []Trade
}

// Recorder receives the engine's observability events. It exists so the
// core can run with zero Prometheus dependency (the default Recorder is a
// no-op); pkg/metrics supplies the production implementation.
type Recorder interface {
	ObserveMatchLatency(d time.Duration)
	IncOrdersProcessed()
	IncTradesExecuted(n int)
	IncRejected(reason string)
	SetBookDepth(symbol orderbook.Symbol, side orderbook.Side, levels int, quantity orderbook.Quantity)
	SetRingOccupancy(name string, n int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveMatchLatency(time.Duration)                                     {}
func (noopRecorder) IncOrdersProcessed()                                                   {}
func (noopRecorder) IncTradesExecuted(int)                                                 {}
func (noopRecorder) IncRejected(string)                                                    {}
func (noopRecorder) SetBookDepth(orderbook.Symbol, orderbook.Side, int, orderbook.Quantity) {}
func (noopRecorder) SetRingOccupancy(string, int)                                          {}
