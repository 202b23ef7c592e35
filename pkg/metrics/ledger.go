package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics counts financial state transitions and settlements.
type LedgerMetrics struct {
	transitions *prometheus.CounterVec
	settlements *prometheus.CounterVec
}

// NewLedgerMetrics registers ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions applied, labeled by target status.",
	}, []string{"status"})
	settlements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlements_total",
		Help: "Settlement records written, labeled by kind.",
	}, []string{"kind"})
	reg.MustRegister(transitions, settlements)
	return &LedgerMetrics{
		transitions: transitions,
		settlements: settlements,
	}
}

// IncTransition counts one applied order status transition.
func (l *LedgerMetrics) IncTransition(status string) {
	if l == nil || l.transitions == nil {
		return
	}
	l.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncSettlement counts one written settlement of the given kind.
func (l *LedgerMetrics) IncSettlement(kind string) {
	if l == nil || l.settlements == nil {
		return
	}
	l.settlements.WithLabelValues(normalizeLabel(kind)).Inc()
}
