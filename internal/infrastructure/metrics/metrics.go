package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Lead metrics
	LeadsSubmitted  prometheus.Counter
	LeadTransitions *prometheus.CounterVec

	// Withdrawal metrics
	WithdrawalsRequested  prometheus.Counter
	WithdrawalTransitions *prometheus.CounterVec

	// Application metrics
	ApplicationsSubmitted  *prometheus.CounterVec
	ApplicationTransitions *prometheus.CounterVec

	// Shared workflow metrics
	TransitionDuration  prometheus.Histogram
	CommissionsCredited prometheus.Counter

	// Bill payment metrics
	BillPayments *prometheus.CounterVec

	// Ledger metrics
	EntriesRecorded *prometheus.CounterVec
	AccountsCreated prometheus.Counter

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxFailures  prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		LeadsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "earnings_leads_submitted_total",
			Help: "Total number of leads submitted",
		}),
		LeadTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnings_lead_transitions_total",
				Help: "Total number of lead status transitions",
			},
			[]string{"status"},
		),
		WithdrawalsRequested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "earnings_withdrawals_requested_total",
			Help: "Total number of withdrawals requested",
		}),
		WithdrawalTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnings_withdrawal_transitions_total",
				Help: "Total number of withdrawal status transitions",
			},
			[]string{"status"},
		),
		ApplicationsSubmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnings_applications_submitted_total",
				Help: "Total number of applications submitted",
			},
			[]string{"product_kind"},
		),
		ApplicationTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnings_application_transitions_total",
				Help: "Total number of application status transitions",
			},
			[]string{"status"},
		),
		TransitionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "earnings_transition_duration_seconds",
			Help:    "Duration of workflow status transitions",
			Buckets: prometheus.DefBuckets,
		}),
		CommissionsCredited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "earnings_commissions_credited_total",
			Help: "Total number of commissions credited to wallets",
		}),
		BillPayments: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnings_bill_payments_total",
				Help: "Total number of bill payments by service type and outcome",
			},
			[]string{"service_type", "status"},
		),
		EntriesRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnings_ledger_entries_total",
				Help: "Total number of ledger entries recorded",
			},
			[]string{"type"},
		),
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "earnings_accounts_created_total",
			Help: "Total number of earnings accounts created",
		}),
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnings_db_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "earnings_db_duration_seconds",
				Help:    "Duration of database queries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "earnings_db_connections",
			Help: "Number of active database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnings_db_errors_total",
				Help: "Total number of database errors",
			},
			[]string{"operation"},
		),
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnings_redis_operations_total",
				Help: "Total number of Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnings_redis_errors_total",
				Help: "Total number of Redis errors",
			},
			[]string{"operation"},
		),
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "earnings_outbox_published_total",
			Help: "Total number of outbox events published",
		}),
		OutboxFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "earnings_outbox_failures_total",
			Help: "Total number of outbox publish failures",
		}),
	}
}
