// matchcore-demo wires a MatchingEngine to the metrics stack and drives it
// with a handful of synthetic orders. It is a library-surface illustration
// — construct, submit, drain, poll — not the benchmark harness or
// network gateway that sit around the real matcher in production.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luxfi/log"

	"github.com/abelkalavadakken/MatchX-HFT/pkg/engine"
	"github.com/abelkalavadakken/MatchX-HFT/pkg/idgen"
	"github.com/abelkalavadakken/MatchX-HFT/pkg/metrics"
	"github.com/abelkalavadakken/MatchX-HFT/pkg/orderbook"
	"github.com/abelkalavadakken/MatchX-HFT/pkg/price"
)

const demoSymbol orderbook.Symbol = 1

func main() {
	metricsAddr := flag.String("metrics-addr", ":9464", "address to serve Prometheus metrics on")
	orderCount := flag.Int("orders", 20, "number of synthetic orders to submit")
	flag.Parse()

	logger := log.Root().New("module", "matchcore-demo")

	rec := metrics.New("matchcore_demo")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := rec.StartServer(ctx, *metricsAddr); err != nil {
			logger.Error("metrics server exited", "error", err)
		}
	}()

	eng := engine.New(engine.Config{
		Clock:    idgen.NewSystemClock(),
		Logger:   logger,
		Recorder: rec,
	})

	logger.Info("submitting synthetic orders", "count", *orderCount)
	submitSyntheticOrders(eng, *orderCount)

	eng.Drain()
	drainResults(logger, eng, *orderCount)

	logger.Info("demo run complete; metrics server still listening", "addr", *metricsAddr)
	<-ctx.Done()
	logger.Info("shutting down")
}

func submitSyntheticOrders(eng *engine.MatchingEngine, n int) {
	basePrice, _ := price.Parse("100.00")
	for i := 0; i < n; i++ {
		side := orderbook.Buy
		orderPrice := basePrice - price.Price(i)
		if i%2 == 1 {
			side = orderbook.Sell
			orderPrice = basePrice + price.Price(i)
		}

		cmd := engine.OrderCommand{
			Kind:     engine.CommandAdd,
			OrderID:  orderbook.OrderID(i + 1),
			Symbol:   demoSymbol,
			Side:     side,
			Type:     orderbook.Limit,
			Price:    orderPrice,
			Quantity: orderbook.Quantity(10 * (i + 1)),
		}
		for !eng.Submit(cmd) {
			time.Sleep(time.Microsecond)
		}
	}
}

func drainResults(logger log.Logger, eng *engine.MatchingEngine, n int) {
	for i := 0; i < n; i++ {
		var result engine.MatchResult
		for !eng.PollResult(&result) {
			eng.Drain()
		}
		logger.Info("order result",
			"order_id", result.OrderID,
			"status", result.Status.String(),
			"trades", len(result.Trades),
		)
	}
}
