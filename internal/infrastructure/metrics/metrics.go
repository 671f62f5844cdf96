package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Ledger metrics
	TransactionsRecorded *prometheus.CounterVec
	TransactionAmount    prometheus.Histogram
	SettlementsPlanned   prometheus.Counter
	SettlementTransfers  prometheus.Histogram
	BalanceComputations  prometheus.Counter

	// Statistics cache metrics
	StatsCacheHits   *prometheus.CounterVec
	StatsCacheMisses *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TransactionsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_transactions_recorded_total",
				Help: "Total number of transactions recorded by type",
			},
			[]string{"type"},
		),
		TransactionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripledger_transaction_amount_minor_units",
			Help:    "Absolute transaction amounts in minor currency units",
			Buckets: []float64{100, 1000, 5000, 10000, 50000, 100000, 1000000},
		}),
		SettlementsPlanned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_settlements_planned_total",
			Help: "Total number of settlement plans computed",
		}),
		SettlementTransfers: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripledger_settlement_transfers",
			Help:    "Number of transfers per settlement plan",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		BalanceComputations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_balance_computations_total",
			Help: "Total number of balance folds over a trip ledger",
		}),

		StatsCacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_stats_cache_hits_total",
				Help: "Statistics cache hits by view",
			},
			[]string{"view"},
		),
		StatsCacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_stats_cache_misses_total",
				Help: "Statistics cache misses by view",
			},
			[]string{"view"},
		),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tripledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tripledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),
	}
}
