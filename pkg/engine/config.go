package engine

import (
	"github.com/luxfi/log"

	"github.com/abelkalavadakken/MatchX-HFT/pkg/idgen"
	"github.com/abelkalavadakken/MatchX-HFT/pkg/pool"
)

// Config configures a MatchingEngine. The zero value may be passed to New,
// which fills every unset field with its documented default.
type Config struct {
	// InputRingCapacity and OutputRingCapacity must be powers of two; they
	// default to 65536 (usable capacity 65535).
	InputRingCapacity  uint64
	OutputRingCapacity uint64

	// PoolCapacity bounds the number of simultaneously live orders across
	// every symbol. Defaults to pool.DefaultCapacity.
	PoolCapacity int

	// Clock supplies Timestamp values for new orders and trades. Defaults
	// to idgen.NewSystemClock(). Tests should inject an *idgen.FakeClock.
	Clock idgen.Clock

	// Logger receives structural-rejection and invariant-violation
	// messages. Never called on the per-fill hot path. Defaults to
	// log.Root().New("module", "engine").
	Logger log.Logger

	// Recorder receives metrics events. Defaults to a no-op, so the core
	// carries zero Prometheus dependency unless a caller wires one in.
	Recorder Recorder

	// ModifyForfeitsPriorityOnIncrease resolves spec.md §10's open
	// question: when a Modify increases an order's remaining quantity,
	// should it keep its place in the FIFO or move to the tail of its
	// price level? false (the default) preserves priority, matching
	// original_source's update_order_quantity, which never reorders the
	// intrusive list. Set true to require requeue-on-increase.
	ModifyForfeitsPriorityOnIncrease bool

	// RejectMarketWhenEmpty resolves spec.md §10's other open question:
	// a market order that finds the opposite side empty either cancels
	// silently (false, the default, matching original_source's
	// match_buy_order/match_sell_order, which simply exit their loop) or
	// is reported as Rejected (true).
	RejectMarketWhenEmpty bool
}

const defaultRingCapacity = 65536

func (c Config) withDefaults() Config {
	if c.InputRingCapacity == 0 {
		c.InputRingCapacity = defaultRingCapacity
	}
	if c.OutputRingCapacity == 0 {
		c.OutputRingCapacity = defaultRingCapacity
	}
	if c.PoolCapacity == 0 {
		c.PoolCapacity = pool.DefaultCapacity
	}
	if c.Clock == nil {
		c.Clock = idgen.NewSystemClock()
	}
	if c.Logger == nil {
		c.Logger = log.Root().New("module", "engine")
	}
	if c.Recorder == nil {
		c.Recorder = noopRecorder{}
	}
	return c
}
