package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CLMMMetrics holds all Prometheus metrics for the CLMM module
type CLMMMetrics struct {
	// Swap metrics
	SwapsTotal        *prometheus.CounterVec
	SwapVolume        *prometheus.CounterVec
	SwapFeesCollected *prometheus.CounterVec
	SwapSteps         prometheus.Histogram
	SwapLatency       prometheus.Histogram
	TicksCrossed      *prometheus.CounterVec

	// Liquidity metrics
	LiquidityOps   *prometheus.CounterVec
	PositionsTotal *prometheus.GaugeVec
	PoolsTotal     prometheus.Gauge

	// Settlement metrics
	SettlementFailures *prometheus.CounterVec
	RevertFailures     prometheus.Counter
	PoolBusyRejections *prometheus.CounterVec
}

var (
	clmmMetricsOnce sync.Once
	clmmMetrics     *CLMMMetrics
)

// NewCLMMMetrics creates and registers CLMM metrics (singleton pattern)
func NewCLMMMetrics() *CLMMMetrics {
	clmmMetricsOnce.Do(func() {
		clmmMetrics = &CLMMMetrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "clmm",
					Name:      "swaps_total",
					Help:      "Total number of swaps executed",
				},
				[]string{"pool_id", "direction", "mode", "status"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "clmm",
					Name:      "swap_volume_total",
					Help:      "Total swap input volume in base units",
				},
				[]string{"pool_id", "denom"},
			),
			SwapFeesCollected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "clmm",
					Name:      "swap_fees_collected_total",
					Help:      "Total swap fees charged",
				},
				[]string{"pool_id", "denom"},
			),
			SwapSteps: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "paw",
					Subsystem: "clmm",
					Name:      "swap_steps",
					Help:      "Price steps taken per swap",
					Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128},
				},
			),
			SwapLatency: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "paw",
					Subsystem: "clmm",
					Name:      "swap_latency_seconds",
					Help:      "Swap execution latency in seconds",
					Buckets:   prometheus.DefBuckets,
				},
			),
			TicksCrossed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "clmm",
					Name:      "ticks_crossed_total",
					Help:      "Total number of tick crossings",
				},
				[]string{"pool_id"},
			),
			LiquidityOps: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "clmm",
					Name:      "liquidity_operations_total",
					Help:      "Position operations by kind and outcome",
				},
				[]string{"pool_id", "operation", "status"},
			),
			PositionsTotal: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "paw",
					Subsystem: "clmm",
					Name:      "positions_open",
					Help:      "Positions opened minus positions closed",
				},
				[]string{"pool_id"},
			),
			PoolsTotal: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "paw",
					Subsystem: "clmm",
					Name:      "pools_total",
					Help:      "Total number of pools opened",
				},
			),
			SettlementFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "clmm",
					Name:      "settlement_failures_total",
					Help:      "Ledger transfers that failed during settlement",
				},
				[]string{"pool_id", "operation"},
			),
			RevertFailures: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "clmm",
					Name:      "settlement_revert_failures_total",
					Help:      "Compensating transfers that failed after a settlement failure",
				},
			),
			PoolBusyRejections: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "clmm",
					Name:      "pool_busy_rejections_total",
					Help:      "Invocations rejected because the pool had one in flight",
				},
				[]string{"pool_id"},
			),
		}
	})
	return clmmMetrics
}
