// Package engine implements the single-writer matching engine: the
// dispatcher that drains OrderCommands from an input ring, applies
// price-time priority matching against the right per-symbol order book,
// and publishes one MatchResult per command onto an output ring.
//
// Grounded on original_source/src/core/matching_engine.cpp's
// match_buy_order/match_sell_order/process_add_order/process_cancel_order/
// process_modify_order, adapted to the arena-index model of pkg/orderbook
// and pkg/pool, and to spec.md §4.3.3's stricter Fill-or-Kill precheck (see
// fokWouldFullyFill below — the original C++ only detects an unfillable FOK
// after partially matching it, which would leave maker fills applied to an
// order that is about to be rejected; this implementation never mutates
// the book for an FOK that cannot fill in full).
package engine

import (
	"fmt"
	"time"

	"github.com/luxfi/log"

	"github.com/abelkalavadakken/MatchX-HFT/pkg/idgen"
	"github.com/abelkalavadakken/MatchX-HFT/pkg/orderbook"
	"github.com/abelkalavadakken/MatchX-HFT/pkg/pool"
	"github.com/abelkalavadakken/MatchX-HFT/pkg/ring"
)

// fokPrecheckDepth is effectively unbounded for any book this engine will
// see in practice; the precheck is off the per-fill hot path (spec.md
// §4.3.3), so the allocate-and-sort cost of a depth query is acceptable
// here even though it is forbidden on the matching loop itself.
const fokPrecheckDepth = 1 << 20

// MatchingEngine is a single-writer matcher: exactly one goroutine may call
// Drain. Submit and PollResult are safe to call from one producer and one
// consumer goroutine respectively, per pkg/ring's SPSC contract.
type MatchingEngine struct {
	cfg Config

	clock    idgen.Clock
	logger   log.Logger
	recorder Recorder

	pool  *pool.Pool
	books map[orderbook.Symbol]*orderbook.OrderBook

	input  *ring.Ring[OrderCommand]
	output *ring.Ring[MatchResult]
}

// New constructs a MatchingEngine. Books are created lazily on first
// reference to a symbol (spec.md §3).
func New(cfg Config) *MatchingEngine {
	cfg = cfg.withDefaults()
	return &MatchingEngine{
		cfg:      cfg,
		clock:    cfg.Clock,
		logger:   cfg.Logger,
		recorder: cfg.Recorder,
		pool:     pool.New(cfg.PoolCapacity),
		books:    make(map[orderbook.Symbol]*orderbook.OrderBook),
		input:    ring.New[OrderCommand](cfg.InputRingCapacity),
		output:   ring.New[MatchResult](cfg.OutputRingCapacity),
	}
}

// Submit enqueues a command for the matcher to process. It never blocks;
// it returns false if the input ring is momentarily full.
func (e *MatchingEngine) Submit(cmd OrderCommand) bool {
	return e.input.TryPush(cmd)
}

// PollResult dequeues one MatchResult, if available. It never blocks.
func (e *MatchingEngine) PollResult(out *MatchResult) bool {
	return e.output.TryPop(out)
}

// Drain processes every command currently queued on the input ring,
// publishing one MatchResult per command, until the input ring is empty
// or the output ring saturates. When the output saturates, Drain stops
// consuming input rather than dropping a computed result — the matcher
// pauses until the result consumer catches up (spec.md §4.5's egress
// backpressure contract).
func (e *MatchingEngine) Drain() {
	for {
		if e.output.Full() {
			return
		}

		var cmd OrderCommand
		if !e.input.TryPop(&cmd) {
			return
		}

		start := e.clock.Now()
		result := e.dispatch(cmd)
		e.recorder.ObserveMatchLatency(time.Duration(e.clock.Now() - start))
		e.recorder.IncOrdersProcessed()

		if !e.output.TryPush(result) {
			// Unreachable under the single-consumer contract: we just
			// checked Full() and nothing else writes to this ring.
			e.invariant(false, "output ring rejected a push immediately after a Full() check passed")
		}
	}
}

func (e *MatchingEngine) dispatch(cmd OrderCommand) MatchResult {
	switch cmd.Kind {
	case CommandAdd:
		return e.processAdd(cmd)
	case CommandCancel:
		return e.processCancel(cmd)
	case CommandModify:
		return e.processModify(cmd)
	default:
		e.reject(cmd.OrderID, "unknown_command_kind")
		return MatchResult{Status: Rejected, OrderID: cmd.OrderID}
	}
}

func (e *MatchingEngine) getOrCreateBook(symbol orderbook.Symbol) *orderbook.OrderBook {
	b, ok := e.books[symbol]
	if !ok {
		b = orderbook.New(symbol, e.pool)
		e.books[symbol] = b
	}
	return b
}

// processAdd implements spec.md §4.3.1/§4.3.2/§4.3.5 for a new order.
func (e *MatchingEngine) processAdd(cmd OrderCommand) MatchResult {
	if cmd.Quantity == 0 {
		e.reject(cmd.OrderID, "zero_quantity")
		return MatchResult{Status: Rejected, OrderID: cmd.OrderID}
	}

	book := e.getOrCreateBook(cmd.Symbol)

	if _, exists := book.Get(cmd.OrderID); exists {
		e.reject(cmd.OrderID, "duplicate_id")
		return MatchResult{Status: Rejected, OrderID: cmd.OrderID}
	}

	if cmd.Type == orderbook.FillOrKill && !e.fokWouldFullyFill(book, cmd) {
		e.reject(cmd.OrderID, "fok_would_not_fully_fill")
		return MatchResult{Status: Rejected, OrderID: cmd.OrderID}
	}

	ref, o, ok := e.pool.Allocate()
	if !ok {
		e.reject(cmd.OrderID, "pool_exhausted")
		return MatchResult{Status: Rejected, OrderID: cmd.OrderID}
	}

	o.ID = cmd.OrderID
	o.Symbol = cmd.Symbol
	o.Price = cmd.Price
	o.OriginalQuantity = cmd.Quantity
	o.RemainingQuantity = cmd.Quantity
	o.Side = cmd.Side
	o.Type = cmd.Type
	o.Timestamp = e.clock.Now()

	trades := e.match(book, o)
	e.recordDepth(book)

	switch {
	case o.RemainingQuantity == 0:
		e.pool.Free(ref)
		e.recorder.IncTradesExecuted(len(trades))
		return MatchResult{Status: Matched, OrderID: cmd.OrderID, Trades: trades}

	case o.IsFOK():
		// The precheck above guarantees a full fill; reaching here means
		// the precheck and the matching loop disagree about the book.
		e.invariant(false, "fill-or-kill order rested after its precheck passed", "order_id", cmd.OrderID)
		return MatchResult{}

	case o.IsIOC() || o.IsMarket():
		e.pool.Free(ref)
		switch {
		case len(trades) > 0:
			e.recorder.IncTradesExecuted(len(trades))
			return MatchResult{Status: Matched, OrderID: cmd.OrderID, Trades: trades}
		case cmd.Type == orderbook.Market && e.cfg.RejectMarketWhenEmpty:
			e.reject(cmd.OrderID, "market_against_empty_side")
			return MatchResult{Status: Rejected, OrderID: cmd.OrderID}
		default:
			return MatchResult{Status: Cancelled, OrderID: cmd.OrderID}
		}

	default: // Limit, partially or wholly unfilled: rests on the book.
		if !book.Add(ref) {
			e.invariant(false, "book rejected Add for an id already checked absent", "order_id", cmd.OrderID)
		}
		e.recordDepth(book)
		status := Added
		if len(trades) > 0 {
			status = Matched
			e.recorder.IncTradesExecuted(len(trades))
		}
		return MatchResult{Status: status, OrderID: cmd.OrderID, Trades: trades}
	}
}

// match runs the price-time priority matching loop for an incoming order
// against the opposite side of book, mutating maker and taker remaining
// quantities and the book's level bookkeeping as it goes. It allocates
// only the returned trade slice (spec.md §5 — this is the one hot-path
// allocation the core does not eliminate, since trade count is unbounded
// and callers need the full list).
func (e *MatchingEngine) match(book *orderbook.OrderBook, incoming *orderbook.Order) []Trade {
	var trades []Trade

	for incoming.RemainingQuantity > 0 {
		var makerRef orderbook.Ref
		var ok bool

		if incoming.IsBuy() {
			if !book.HasBestAsk() {
				break
			}
			best := book.BestAsk()
			if !(incoming.IsMarket() || incoming.Price >= best) {
				break
			}
			makerRef, ok = book.BestAskHeadRef()
		} else {
			if !book.HasBestBid() {
				break
			}
			best := book.BestBid()
			if !(incoming.IsMarket() || incoming.Price <= best) {
				break
			}
			makerRef, ok = book.BestBidHeadRef()
		}

		if !ok {
			e.invariant(false, "best price cached but its level has no head order")
		}

		maker := e.pool.Get(makerRef)
		e.invariant(maker.ID != incoming.ID, "order crossed against itself", "order_id", incoming.ID)

		fill := min(incoming.RemainingQuantity, maker.RemainingQuantity)
		e.invariant(fill > 0, "matching loop computed a zero-quantity fill")

		tradePrice := maker.Price
		now := e.clock.Now()

		oldMakerRemaining := maker.RemainingQuantity
		maker.Fill(fill)
		incoming.Fill(fill)

		trades = append(trades, Trade{
			MakerOrderID: maker.ID,
			TakerOrderID: incoming.ID,
			Symbol:       book.Symbol(),
			Price:        tradePrice,
			Quantity:     fill,
			Timestamp:    now,
		})

		book.UpdateQuantityInPlace(maker.ID, oldMakerRemaining)
		if maker.IsFilled() {
			if _, removed := book.Remove(maker.ID); !removed {
				e.invariant(false, "matched maker was not found in its own book", "order_id", maker.ID)
			}
			e.pool.Free(makerRef)
		}
	}

	return trades
}

// fokWouldFullyFill is the non-mutating precheck spec.md §4.3.3 requires:
// it walks the opposite side, most aggressive price first, accumulating
// quantity at every level the order's price could legally trade against,
// and reports whether that sum reaches the order's full quantity — without
// touching a single order or level. Processing a FillOrKill command calls
// this before any allocation or mutation, so a FOK that cannot fully fill
// leaves the book exactly as it found it.
func (e *MatchingEngine) fokWouldFullyFill(book *orderbook.OrderBook, cmd OrderCommand) bool {
	var levels []orderbook.LevelInfo
	if cmd.Side == orderbook.Buy {
		levels = book.AskLevels(fokPrecheckDepth)
	} else {
		levels = book.BidLevels(fokPrecheckDepth)
	}

	var acc orderbook.Quantity
	for _, lvl := range levels {
		if cmd.Side == orderbook.Buy && lvl.Price > cmd.Price {
			break
		}
		if cmd.Side == orderbook.Sell && lvl.Price < cmd.Price {
			break
		}
		acc += lvl.TotalQuantity
		if acc >= cmd.Quantity {
			return true
		}
	}
	return false
}

// processCancel implements spec.md §4.3.4's Cancel operation.
func (e *MatchingEngine) processCancel(cmd OrderCommand) MatchResult {
	book := e.getOrCreateBook(cmd.Symbol)
	ref, ok := book.Remove(cmd.OrderID)
	if !ok {
		e.reject(cmd.OrderID, "unknown_order_id")
		return MatchResult{Status: Rejected, OrderID: cmd.OrderID}
	}
	e.pool.Free(ref)
	e.recordDepth(book)
	return MatchResult{Status: Cancelled, OrderID: cmd.OrderID}
}

// processModify implements spec.md §4.3.4's Modify operation: quantity-only
// changes, applied in place. A Modify to zero quantity, or to no more than
// the quantity already filled, is a cancel. A
// decrease always preserves FIFO priority; an increase forfeits priority
// only if Config.ModifyForfeitsPriorityOnIncrease is set.
func (e *MatchingEngine) processModify(cmd OrderCommand) MatchResult {
	book := e.getOrCreateBook(cmd.Symbol)
	ref, ok := book.Get(cmd.OrderID)
	if !ok {
		e.reject(cmd.OrderID, "unknown_order_id")
		return MatchResult{Status: Rejected, OrderID: cmd.OrderID}
	}
	o := e.pool.Get(ref)

	filledSoFar := o.OriginalQuantity - o.RemainingQuantity

	if cmd.NewQuantity == 0 || cmd.NewQuantity <= filledSoFar {
		book.Remove(cmd.OrderID)
		e.pool.Free(ref)
		e.recordDepth(book)
		return MatchResult{Status: Cancelled, OrderID: cmd.OrderID}
	}

	oldRemaining := o.RemainingQuantity
	newRemaining := cmd.NewQuantity - filledSoFar
	forfeit := e.cfg.ModifyForfeitsPriorityOnIncrease && newRemaining > oldRemaining

	if forfeit {
		if _, removed := book.Remove(cmd.OrderID); !removed {
			e.invariant(false, "modify could not remove order it just looked up", "order_id", cmd.OrderID)
		}
		o.OriginalQuantity = cmd.NewQuantity
		o.RemainingQuantity = newRemaining
		o.Timestamp = e.clock.Now()
		book.Add(ref)
	} else {
		o.OriginalQuantity = cmd.NewQuantity
		o.RemainingQuantity = newRemaining
		book.UpdateQuantityInPlace(cmd.OrderID, oldRemaining)
	}

	e.recordDepth(book)
	return MatchResult{Status: Modified, OrderID: cmd.OrderID}
}

func (e *MatchingEngine) reject(id orderbook.OrderID, reason string) {
	e.recorder.IncRejected(reason)
	e.logger.Debug("order rejected", "order_id", id, "reason", reason)
}

func (e *MatchingEngine) recordDepth(book *orderbook.OrderBook) {
	if bid, ok := book.Level(orderbook.Buy, book.BestBid()); ok {
		e.recorder.SetBookDepth(book.Symbol(), orderbook.Buy, 1, bid.TotalQuantity)
	}
	if ask, ok := book.Level(orderbook.Sell, book.BestAsk()); ok {
		e.recorder.SetBookDepth(book.Symbol(), orderbook.Sell, 1, ask.TotalQuantity)
	}
}

// invariant panics after logging at error level if cond is false. The
// matcher must stop loudly rather than continue against a book it no
// longer trusts (spec.md §7).
func (e *MatchingEngine) invariant(cond bool, msg string, kv ...any) {
	if cond {
		return
	}
	e.logger.Error(msg, kv...)
	panic(fmt.Sprintf("matchx-hft: invariant violated: %s %v", msg, kv))
}
