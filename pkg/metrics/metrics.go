// Package metrics is the production engine.Recorder: Prometheus counters,
// gauges and a latency histogram exposed over HTTP via promhttp, logged
// through luxfi/log the way the rest of the ambient stack does.
//
// Grounded on pkg/metrics/lux_metrics.go's NewLXMetrics/StartServer shape:
// one struct wrapping a private *prometheus.Registry, constructed once,
// registered once, with Record*/Update* setter methods and a dedicated
// logger. The matching latency histogram's buckets are carried over
// verbatim from that file — they were already tuned for sub-microsecond
// matcher latencies, which is exactly this engine's target.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abelkalavadakken/MatchX-HFT/pkg/orderbook"
)

// Metrics is a MatchingEngine Recorder backed by a private Prometheus
// registry. Construct one per engine instance; StartServer exposes it over
// HTTP.
type Metrics struct {
	namespace string
	registry  *prometheus.Registry
	logger    log.Logger

	ordersProcessed prometheus.Counter
	tradesExecuted  prometheus.Counter
	rejected        *prometheus.CounterVec
	bookDepth       *prometheus.GaugeVec
	ringOccupancy   *prometheus.GaugeVec
	matchingLatency prometheus.Histogram
}

// New constructs and registers a Metrics instance under namespace.
func New(namespace string) *Metrics {
	logger := log.Root().New("module", "metrics")
	logger.Info("initializing matchcore metrics")

	registry := prometheus.NewRegistry()

	m := &Metrics{
		namespace: namespace,
		registry:  registry,
		logger:    logger,

		ordersProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_processed_total",
			Help:      "Total number of order commands processed by the matching engine",
		}),

		tradesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_executed_total",
			Help:      "Total number of trades executed",
		}),

		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Total number of structurally rejected order commands, by reason",
		}, []string{"reason"}),

		bookDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orderbook_depth_quantity",
			Help:      "Resting quantity at the top book level, by symbol and side",
		}, []string{"symbol", "side"}),

		ringOccupancy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ring_occupancy",
			Help:      "Number of queued elements in an SPSC ring, by ring name",
		}, []string{"ring"}),

		matchingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "matching_latency_nanoseconds",
			Help:      "Per-command matching latency in nanoseconds",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
	}

	registry.MustRegister(
		m.ordersProcessed,
		m.tradesExecuted,
		m.rejected,
		m.bookDepth,
		m.ringOccupancy,
		m.matchingLatency,
	)

	logger.Info("matchcore metrics initialized")
	return m
}

// ObserveMatchLatency implements engine.Recorder.
func (m *Metrics) ObserveMatchLatency(d time.Duration) {
	m.matchingLatency.Observe(float64(d.Nanoseconds()))
}

// IncOrdersProcessed implements engine.Recorder.
func (m *Metrics) IncOrdersProcessed() {
	m.ordersProcessed.Inc()
}

// IncTradesExecuted implements engine.Recorder.
func (m *Metrics) IncTradesExecuted(n int) {
	m.tradesExecuted.Add(float64(n))
}

// IncRejected implements engine.Recorder.
func (m *Metrics) IncRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

// SetBookDepth implements engine.Recorder.
func (m *Metrics) SetBookDepth(symbol orderbook.Symbol, side orderbook.Side, _ int, quantity orderbook.Quantity) {
	m.bookDepth.WithLabelValues(fmt.Sprintf("%d", symbol), side.String()).Set(float64(quantity))
}

// SetRingOccupancy implements engine.Recorder.
func (m *Metrics) SetRingOccupancy(name string, n int) {
	m.ringOccupancy.WithLabelValues(name).Set(float64(n))
}

// Handler returns the http.Handler that serves this instance's metrics in
// the Prometheus text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer serves /metrics on addr until ctx is cancelled.
func (m *Metrics) StartServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	m.logger.Info("metrics server listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
