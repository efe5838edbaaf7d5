package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Negotiation metrics
	NegotiationsCreated    prometheus.Counter
	NegotiationTransitions *prometheus.CounterVec
	WebhookCallbacks       *prometheus.CounterVec
	PaymentExpiries        prometheus.Counter

	// Escrow metrics
	HoldsCreated  prometheus.Counter
	HoldsReleased prometheus.Counter
	HoldsRefunded prometheus.Counter
	HoldAmount    prometheus.Histogram

	// Wallet metrics
	WalletDeposits      prometheus.Counter
	WalletWithdrawals   prometheus.Counter
	InsufficientBalance prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBErrors *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		NegotiationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "artelab_negotiations_created_total",
			Help: "Total number of bookings and project applications created",
		}),
		NegotiationTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "artelab_negotiation_transitions_total",
				Help: "Total number of negotiation transitions by action",
			},
			[]string{"action"},
		),
		WebhookCallbacks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "artelab_payment_webhooks_total",
				Help: "Total number of payment gateway callbacks by result",
			},
			[]string{"result"},
		),
		PaymentExpiries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "artelab_payment_expiries_total",
			Help: "Total number of expired in-flight payments swept",
		}),

		HoldsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "artelab_holds_created_total",
			Help: "Total number of escrow holds created",
		}),
		HoldsReleased: promauto.NewCounter(prometheus.CounterOpts{
			Name: "artelab_holds_released_total",
			Help: "Total number of escrow holds released to creators",
		}),
		HoldsRefunded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "artelab_holds_refunded_total",
			Help: "Total number of escrow holds refunded to clients",
		}),
		HoldAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "artelab_hold_amount",
			Help:    "Escrow hold amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
		}),

		WalletDeposits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "artelab_wallet_deposits_total",
			Help: "Total number of wallet deposits",
		}),
		WalletWithdrawals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "artelab_wallet_withdrawals_total",
			Help: "Total number of wallet withdrawals",
		}),
		InsufficientBalance: promauto.NewCounter(prometheus.CounterOpts{
			Name: "artelab_insufficient_balance_total",
			Help: "Total number of operations rejected for insufficient balance",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "artelab_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "artelab_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "artelab_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),
	}
}
