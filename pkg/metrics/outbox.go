package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OutboxMetrics records outbox publisher throughput.
type OutboxMetrics struct {
	published *prometheus.CounterVec
	failures  *prometheus.CounterVec
	dlq       prometheus.Counter
}

// NewOutboxMetrics registers the outbox metrics on the provided registerer.
func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_published_total",
		Help: "Outbox events published, by event type.",
	}, []string{"event_type"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_publish_failures_total",
		Help: "Outbox publish attempts that failed, by event type.",
	}, []string{"event_type"})
	dlq := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_dlq_total",
		Help: "Outbox events moved to the dead letter table.",
	})
	reg.MustRegister(published, failures, dlq)
	return &OutboxMetrics{
		published: published,
		failures:  failures,
		dlq:       dlq,
	}
}

// IncPublished increments the published counter for the event type.
func (m *OutboxMetrics) IncPublished(eventType string) {
	if m == nil || m.published == nil {
		return
	}
	m.published.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncFailure increments the failure counter for the event type.
func (m *OutboxMetrics) IncFailure(eventType string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncDLQ increments the dead letter counter.
func (m *OutboxMetrics) IncDLQ() {
	if m == nil || m.dlq == nil {
		return
	}
	m.dlq.Inc()
}
