package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records order lifecycle and notification fan-out outcomes.
type OrderMetrics struct {
	transitions     *prometheus.CounterVec
	fanoutDelivered *prometheus.CounterVec
	fanoutFailed    *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions",
		Help: "Order status transitions by source and target status.",
	}, []string{"from", "to"})
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_fanout_delivered",
		Help: "Notifications successfully written during admin fan-out.",
	}, []string{"kind"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_fanout_failed",
		Help: "Notification writes that failed during admin fan-out.",
	}, []string{"kind"})
	reg.MustRegister(transitions, delivered, failed)
	return &OrderMetrics{
		transitions:     transitions,
		fanoutDelivered: delivered,
		fanoutFailed:    failed,
	}
}

// IncTransition increments the transition counter for the given status pair.
func (o *OrderMetrics) IncTransition(from, to string) {
	if o == nil || o.transitions == nil {
		return
	}
	o.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncFanoutDelivered increments the delivered counter for the notification kind.
func (o *OrderMetrics) IncFanoutDelivered(kind string) {
	if o == nil || o.fanoutDelivered == nil {
		return
	}
	o.fanoutDelivered.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncFanoutFailed increments the failure counter for the notification kind.
func (o *OrderMetrics) IncFanoutFailed(kind string) {
	if o == nil || o.fanoutFailed == nil {
		return
	}
	o.fanoutFailed.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
