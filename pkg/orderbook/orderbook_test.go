package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelkalavadakken/MatchX-HFT/pkg/price"
)

// sliceSlab is a bare, non-pooled Slab for exercising OrderBook in
// isolation from pkg/pool.
type sliceSlab struct {
	orders []Order
}

func newSliceSlab(n int) *sliceSlab {
	s := &sliceSlab{orders: make([]Order, n)}
	for i := range s.orders {
		s.orders[i].Reset()
	}
	return s
}

func (s *sliceSlab) Get(ref Ref) *Order { return &s.orders[ref] }

func (s *sliceSlab) put(ref Ref, id OrderID, side Side, pr price.Price, qty Quantity) {
	o := s.Get(ref)
	o.ID = id
	o.Symbol = 1
	o.Side = side
	o.Price = pr
	o.OriginalQuantity = qty
	o.RemainingQuantity = qty
	o.Type = Limit
}

func px(t *testing.T, s string) price.Price {
	t.Helper()
	v, err := price.Parse(s)
	require.NoError(t, err)
	return v
}

func TestAddAndBestBidAsk(t *testing.T) {
	slab := newSliceSlab(4)
	book := New(1, slab)

	slab.put(0, 1, Buy, px(t, "100.00"), 10)
	require.True(t, book.Add(0))
	assert.True(t, book.HasBestBid())
	assert.Equal(t, px(t, "100.00"), book.BestBid())
	assert.False(t, book.HasBestAsk())

	slab.put(1, 2, Buy, px(t, "101.00"), 5)
	require.True(t, book.Add(1))
	assert.Equal(t, px(t, "101.00"), book.BestBid(), "higher buy price becomes new best bid")

	slab.put(2, 3, Sell, px(t, "105.00"), 5)
	require.True(t, book.Add(2))
	assert.Equal(t, px(t, "105.00"), book.BestAsk())

	slab.put(3, 4, Sell, px(t, "104.00"), 5)
	require.True(t, book.Add(3))
	assert.Equal(t, px(t, "104.00"), book.BestAsk(), "lower sell price becomes new best ask")
}

func TestAddRejectsDuplicateID(t *testing.T) {
	slab := newSliceSlab(2)
	book := New(1, slab)

	slab.put(0, 1, Buy, px(t, "100.00"), 10)
	require.True(t, book.Add(0))

	slab.put(1, 1, Buy, px(t, "99.00"), 5)
	assert.False(t, book.Add(1), "duplicate id must be rejected")
}

func TestRemoveRescansBestBidOnInvalidatingCancel(t *testing.T) {
	slab := newSliceSlab(3)
	book := New(1, slab)

	slab.put(0, 1, Buy, px(t, "99.00"), 10)
	book.Add(0)
	slab.put(1, 2, Buy, px(t, "100.00"), 10)
	book.Add(1)

	require.Equal(t, px(t, "100.00"), book.BestBid())

	_, ok := book.Remove(2)
	require.True(t, ok)

	assert.True(t, book.HasBestBid())
	assert.Equal(t, px(t, "99.00"), book.BestBid(), "removing the best bid must rescan to the next-best")
}

func TestRemoveLastOrderClearsBestSide(t *testing.T) {
	slab := newSliceSlab(1)
	book := New(1, slab)

	slab.put(0, 1, Sell, px(t, "100.00"), 10)
	book.Add(0)
	require.True(t, book.HasBestAsk())

	_, ok := book.Remove(1)
	require.True(t, ok)
	assert.False(t, book.HasBestAsk())
}

func TestRemoveUnknownIDFails(t *testing.T) {
	slab := newSliceSlab(1)
	book := New(1, slab)
	_, ok := book.Remove(999)
	assert.False(t, ok)
}

func TestFIFOWithinLevel(t *testing.T) {
	slab := newSliceSlab(3)
	book := New(1, slab)

	slab.put(0, 1, Buy, px(t, "100.00"), 10)
	book.Add(0)
	slab.put(1, 2, Buy, px(t, "100.00"), 10)
	book.Add(1)
	slab.put(2, 3, Buy, px(t, "100.00"), 10)
	book.Add(2)

	headRef, ok := book.BestBidHeadRef()
	require.True(t, ok)
	assert.Equal(t, OrderID(1), slab.Get(headRef).ID, "oldest order must be at the head")

	book.Remove(1)
	headRef, ok = book.BestBidHeadRef()
	require.True(t, ok)
	assert.Equal(t, OrderID(2), slab.Get(headRef).ID, "next-oldest order must become the new head")
}

func TestUpdateQuantityInPlacePreservesPosition(t *testing.T) {
	slab := newSliceSlab(2)
	book := New(1, slab)

	slab.put(0, 1, Buy, px(t, "100.00"), 10)
	book.Add(0)
	slab.put(1, 2, Buy, px(t, "100.00"), 10)
	book.Add(1)

	lvl, ok := book.Level(Buy, px(t, "100.00"))
	require.True(t, ok)
	require.Equal(t, Quantity(20), lvl.TotalQuantity)

	o := slab.Get(0)
	old := o.RemainingQuantity
	o.RemainingQuantity = 4
	require.True(t, book.UpdateQuantityInPlace(1, old))

	lvl, ok = book.Level(Buy, px(t, "100.00"))
	require.True(t, ok)
	assert.Equal(t, Quantity(14), lvl.TotalQuantity)

	headRef, ok := book.BestBidHeadRef()
	require.True(t, ok)
	assert.Equal(t, OrderID(1), slab.Get(headRef).ID, "quantity update must not move the order in its FIFO")
}

func TestBidAskLevelsSortedMostAggressiveFirst(t *testing.T) {
	slab := newSliceSlab(4)
	book := New(1, slab)

	slab.put(0, 1, Buy, px(t, "99.00"), 10)
	book.Add(0)
	slab.put(1, 2, Buy, px(t, "101.00"), 10)
	book.Add(1)
	slab.put(2, 3, Sell, px(t, "105.00"), 10)
	book.Add(2)
	slab.put(3, 4, Sell, px(t, "103.00"), 10)
	book.Add(3)

	bids := book.BidLevels(10)
	require.Len(t, bids, 2)
	assert.Equal(t, px(t, "101.00"), bids[0].Price)
	assert.Equal(t, px(t, "99.00"), bids[1].Price)

	asks := book.AskLevels(10)
	require.Len(t, asks, 2)
	assert.Equal(t, px(t, "103.00"), asks[0].Price)
	assert.Equal(t, px(t, "105.00"), asks[1].Price)
}

func TestBidAskLevelsRespectDepth(t *testing.T) {
	slab := newSliceSlab(3)
	book := New(1, slab)

	for i := 0; i < 3; i++ {
		slab.put(Ref(i), OrderID(i+1), Buy, px(t, "100.00")+price.Price(i), 10)
		book.Add(Ref(i))
	}

	levels := book.BidLevels(1)
	assert.Len(t, levels, 1)
}

// Round-trip law: adding N orders then cancelling each by id leaves the
// book equal, by all public queries, to its pre-add state.
func TestAddThenCancelAllIsRoundTrip(t *testing.T) {
	slab := newSliceSlab(5)
	book := New(1, slab)

	require.Equal(t, 0, book.OrderCount())
	require.False(t, book.HasBestBid())
	require.False(t, book.HasBestAsk())

	for i := 0; i < 5; i++ {
		side := Buy
		if i%2 == 0 {
			side = Sell
		}
		slab.put(Ref(i), OrderID(i+1), side, px(t, "100.00"), Quantity(10*(i+1)))
		require.True(t, book.Add(Ref(i)))
	}
	require.Equal(t, 5, book.OrderCount())

	for i := 0; i < 5; i++ {
		_, ok := book.Remove(OrderID(i + 1))
		require.True(t, ok)
	}

	assert.Equal(t, 0, book.OrderCount())
	assert.False(t, book.HasBestBid())
	assert.False(t, book.HasBestAsk())
}

func TestClearResetsAllBookkeeping(t *testing.T) {
	slab := newSliceSlab(2)
	book := New(1, slab)

	slab.put(0, 1, Buy, px(t, "100.00"), 10)
	book.Add(0)
	slab.put(1, 2, Sell, px(t, "101.00"), 10)
	book.Add(1)

	book.Clear()

	assert.Equal(t, 0, book.OrderCount())
	assert.False(t, book.HasBestBid())
	assert.False(t, book.HasBestAsk())
	_, ok := book.Get(1)
	assert.False(t, ok)
}
