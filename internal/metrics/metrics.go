// Package metrics counts checkout pipeline outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "checkout"

type Metrics struct {
	PaymentsInitiated *prometheus.CounterVec
	Callbacks         *prometheus.CounterVec
	InventoryConsume  *prometheus.CounterVec
	OrderTransitions  *prometheus.CounterVec
	GatewayLatency    *prometheus.HistogramVec
}

// New registers the pipeline metrics with reg. A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PaymentsInitiated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_initiated_total",
			Help:      "Payment initiations by result.",
		}, []string{"result"}),
		Callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callbacks_total",
			Help:      "Gateway callbacks by outcome.",
		}, []string{"outcome"}),
		InventoryConsume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_consume_total",
			Help:      "Inventory consumption attempts during confirmation by result.",
		}, []string{"result"}),
		OrderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Order status transitions by target status.",
		}, []string{"to"}),
		GatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_request_duration_ms",
			Help:      "Payment gateway request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"operation", "status"}),
	}

	if reg != nil {
		reg.MustRegister(m.PaymentsInitiated, m.Callbacks, m.InventoryConsume, m.OrderTransitions, m.GatewayLatency)
	}

	return m
}

// Nop returns unregistered metrics for callers that do not export them.
func Nop() *Metrics {
	return New(nil)
}

const (
	ResultOK    = "ok"
	ResultError = "error"

	OutcomeConfirmed     = "confirmed"
	OutcomeReplay        = "replay"
	OutcomeManualReview  = "manual_review"
	OutcomeFailed        = "failed"
	OutcomeInvalidSig    = "invalid_signature"
	OutcomeUnknown       = "unknown_payment"
	OutcomeReconcileGap  = "reconciliation_gap"
	OutcomeError         = "error"
	ResultInsufficient   = "insufficient_stock"
	ResultAlreadyApplied = "already_applied"
)
