package orderbook

import (
	"sort"

	"github.com/abelkalavadakken/MatchX-HFT/pkg/price"
)

// defaultLevelBuckets and defaultOrderBuckets pre-size the book's maps so
// ordinary operation never triggers a rehash on the hot path (spec.md §5).
const (
	defaultLevelBuckets = 4096
	defaultOrderBuckets = 65536
)

// LevelInfo is a point-in-time snapshot of one price level, returned by the
// depth-query surface. It never aliases live priceLevel state.
type LevelInfo struct {
	Price         price.Price
	TotalQuantity Quantity
	OrderCount    int
}

// OrderBook is a single-writer, non-thread-safe per-symbol limit order
// book. Nothing in this package takes a lock; the matching engine
// guarantees exclusive access by construction (spec.md §5 — concurrency is
// expressed only through the SPSC rings, never inside a book).
type OrderBook struct {
	symbol Symbol
	slab   Slab

	buyLevels  map[price.Price]*priceLevel
	sellLevels map[price.Price]*priceLevel
	idIndex    map[OrderID]Ref

	bestBid    price.Price
	hasBestBid bool
	bestAsk    price.Price
	hasBestAsk bool
}

// New creates an empty order book for symbol, backed by slab for order
// storage. Books are constructed lazily on first reference to a symbol and
// live for the engine's lifetime (spec.md §3).
func New(symbol Symbol, slab Slab) *OrderBook {
	return &OrderBook{
		symbol:     symbol,
		slab:       slab,
		buyLevels:  make(map[price.Price]*priceLevel, defaultLevelBuckets),
		sellLevels: make(map[price.Price]*priceLevel, defaultLevelBuckets),
		idIndex:    make(map[OrderID]Ref, defaultOrderBuckets),
	}
}

func (b *OrderBook) Symbol() Symbol { return b.symbol }

func (b *OrderBook) levelsFor(side Side) map[price.Price]*priceLevel {
	if side == Buy {
		return b.buyLevels
	}
	return b.sellLevels
}

// Add inserts the order named by ref into the book. It returns false,
// rejecting the insert, if an order with the same ID already rests in this
// book (spec.md §4.2 — duplicate-id Add is a structural rejection).
func (b *OrderBook) Add(ref Ref) bool {
	o := b.slab.Get(ref)

	if _, exists := b.idIndex[o.ID]; exists {
		return false
	}

	levels := b.levelsFor(o.Side)
	lvl, ok := levels[o.Price]
	if !ok {
		lvl = newPriceLevel(o.Price)
		levels[o.Price] = lvl
	}
	lvl.add(b.slab, ref)
	b.idIndex[o.ID] = ref

	if o.Side == Buy {
		if !b.hasBestBid || o.Price > b.bestBid {
			b.bestBid = o.Price
			b.hasBestBid = true
		}
	} else {
		if !b.hasBestAsk || o.Price < b.bestAsk {
			b.bestAsk = o.Price
			b.hasBestAsk = true
		}
	}

	return true
}

// Remove unlinks the resting order with the given id and returns its Ref.
// It returns false if no such order rests in this book.
func (b *OrderBook) Remove(id OrderID) (Ref, bool) {
	ref, ok := b.idIndex[id]
	if !ok {
		return NilRef, false
	}

	o := b.slab.Get(ref)
	levels := b.levelsFor(o.Side)
	lvl := levels[o.Price]
	lvl.remove(b.slab, ref)
	delete(b.idIndex, id)

	if lvl.isEmpty() {
		delete(levels, o.Price)
		switch o.Side {
		case Buy:
			if b.hasBestBid && o.Price == b.bestBid {
				b.recomputeBestBid()
			}
		case Sell:
			if b.hasBestAsk && o.Price == b.bestAsk {
				b.recomputeBestAsk()
			}
		}
	}

	return ref, true
}

// recomputeBestBid rescans non-empty buy levels for the new maximum price.
// O(L) in the distinct price-level count on this side; only reached when
// the removed order priced the cached best (spec.md §4.2 allows this and
// notes an ordered structure could make it O(log L) without changing the
// public surface).
func (b *OrderBook) recomputeBestBid() {
	var best price.Price
	found := false
	for p, lvl := range b.buyLevels {
		if lvl.isEmpty() {
			continue
		}
		if !found || p > best {
			best = p
			found = true
		}
	}
	b.bestBid = best
	b.hasBestBid = found
}

func (b *OrderBook) recomputeBestAsk() {
	var best price.Price
	found := false
	for p, lvl := range b.sellLevels {
		if lvl.isEmpty() {
			continue
		}
		if !found || p < best {
			best = p
			found = true
		}
	}
	b.bestAsk = best
	b.hasBestAsk = found
}

// UpdateQuantityInPlace adjusts the book's aggregate bookkeeping after a
// resting order's RemainingQuantity has already been mutated by the caller
// (the matching engine, after a partial fill or a Modify). The order keeps
// its FIFO position.
func (b *OrderBook) UpdateQuantityInPlace(id OrderID, oldRemaining Quantity) bool {
	ref, ok := b.idIndex[id]
	if !ok {
		return false
	}
	o := b.slab.Get(ref)
	lvl := b.levelsFor(o.Side)[o.Price]
	if lvl == nil {
		return false
	}
	lvl.updateQuantity(oldRemaining, o.RemainingQuantity)
	return true
}

// Get returns the Ref for a resting order id.
func (b *OrderBook) Get(id OrderID) (Ref, bool) {
	ref, ok := b.idIndex[id]
	return ref, ok
}

func (b *OrderBook) BestBid() price.Price { return b.bestBid }
func (b *OrderBook) BestAsk() price.Price { return b.bestAsk }
func (b *OrderBook) HasBestBid() bool     { return b.hasBestBid }
func (b *OrderBook) HasBestAsk() bool     { return b.hasBestAsk }

// BestBidHeadRef returns the Ref of the oldest resting order at the best
// bid, i.e. the next maker a crossing sell would trade against.
func (b *OrderBook) BestBidHeadRef() (Ref, bool) {
	if !b.hasBestBid {
		return NilRef, false
	}
	lvl, ok := b.buyLevels[b.bestBid]
	if !ok || lvl.isEmpty() {
		return NilRef, false
	}
	return lvl.head, true
}

// BestAskHeadRef is the sell-side analogue of BestBidHeadRef.
func (b *OrderBook) BestAskHeadRef() (Ref, bool) {
	if !b.hasBestAsk {
		return NilRef, false
	}
	lvl, ok := b.sellLevels[b.bestAsk]
	if !ok || lvl.isEmpty() {
		return NilRef, false
	}
	return lvl.head, true
}

// Level returns a snapshot of the level at (side, p), if it exists and is
// non-empty.
func (b *OrderBook) Level(side Side, p price.Price) (LevelInfo, bool) {
	lvl, ok := b.levelsFor(side)[p]
	if !ok || lvl.isEmpty() {
		return LevelInfo{}, false
	}
	return LevelInfo{Price: lvl.price, TotalQuantity: lvl.totalQuantity, OrderCount: lvl.count}, true
}

// BidLevels returns up to depth non-empty buy levels, most aggressive
// (highest price) first. Not on the hot path — it allocates and sorts.
func (b *OrderBook) BidLevels(depth int) []LevelInfo {
	return collectLevels(b.buyLevels, depth, func(a, c price.Price) bool { return a > c })
}

// AskLevels returns up to depth non-empty sell levels, most aggressive
// (lowest price) first. Not on the hot path — it allocates and sorts.
func (b *OrderBook) AskLevels(depth int) []LevelInfo {
	return collectLevels(b.sellLevels, depth, func(a, c price.Price) bool { return a < c })
}

func collectLevels(levels map[price.Price]*priceLevel, depth int, more func(a, b price.Price) bool) []LevelInfo {
	out := make([]LevelInfo, 0, len(levels))
	for _, lvl := range levels {
		if lvl.isEmpty() {
			continue
		}
		out = append(out, LevelInfo{Price: lvl.price, TotalQuantity: lvl.totalQuantity, OrderCount: lvl.count})
	}
	sort.Slice(out, func(i, j int) bool { return more(out[i].Price, out[j].Price) })
	if len(out) > depth {
		out = out[:depth]
	}
	return out
}

// OrderCount returns the total number of resting orders across both sides.
func (b *OrderBook) OrderCount() int { return len(b.idIndex) }

// Clear empties the book's own bookkeeping. It does not return any
// resting order's slab slot to the pool — callers that want to release
// pool capacity must do so themselves before or after calling Clear.
func (b *OrderBook) Clear() {
	b.buyLevels = make(map[price.Price]*priceLevel, defaultLevelBuckets)
	b.sellLevels = make(map[price.Price]*priceLevel, defaultLevelBuckets)
	b.idIndex = make(map[OrderID]Ref, defaultOrderBuckets)
	b.hasBestBid = false
	b.hasBestAsk = false
}
