package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Balance metrics
	BalancesComputed       prometheus.Counter
	BalanceDuration        prometheus.Histogram
	UnattributableExpenses prometheus.Counter

	// Settlement metrics
	PlansCreated        *prometheus.CounterVec
	PlanTransfers       prometheus.Histogram
	SettlementsRecorded *prometheus.CounterVec
	SettlementsReplayed prometheus.Counter
	SettlementErrors    *prometheus.CounterVec
	LockWaitDuration    prometheus.Histogram

	// Notification metrics
	NotificationsEmitted prometheus.Counter
	OutboxRelayed        *prometheus.CounterVec

	// Expense metrics
	ExpensesCreated *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Database metrics
	DBErrors *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates all metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all metrics on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		// Balance metrics
		BalancesComputed: f.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_balances_computed_total",
			Help: "Total number of balance sheets computed",
		}),
		BalanceDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitledger_balance_duration_seconds",
			Help:    "Duration of balance computation including store reads",
			Buckets: prometheus.DefBuckets,
		}),
		UnattributableExpenses: f.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_unattributable_expenses_total",
			Help: "Expenses skipped because none of their participants are still members",
		}),

		// Settlement metrics
		PlansCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_plans_created_total",
				Help: "Total settlement plans computed by scope",
			},
			[]string{"scope"},
		),
		PlanTransfers: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitledger_plan_transfers",
			Help:    "Number of transfers per settlement plan",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		SettlementsRecorded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_settlements_recorded_total",
				Help: "Total settlements recorded by scope",
			},
			[]string{"scope"},
		),
		SettlementsReplayed: f.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_settlements_replayed_total",
			Help: "Settlement requests that matched an existing record",
		}),
		SettlementErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_settlement_errors_total",
				Help: "Total settlement errors by type",
			},
			[]string{"error_type"},
		),
		LockWaitDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitledger_settle_lock_wait_seconds",
			Help:    "Time spent acquiring the settlement lock",
			Buckets: prometheus.DefBuckets,
		}),

		// Notification metrics
		NotificationsEmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_notifications_emitted_total",
			Help: "Total payment-due notifications queued with recorded settlements",
		}),
		OutboxRelayed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_outbox_relayed_total",
				Help: "Outbox events relayed by status",
			},
			[]string{"status"},
		),

		// Expense metrics
		ExpensesCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_expenses_created_total",
				Help: "Total expenses recorded by split kind",
			},
			[]string{"split"},
		),

		// API metrics
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "splitledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "splitledger_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Database metrics
		DBErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
