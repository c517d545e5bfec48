package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SettlementMetrics records order and withdraw settlement activity.
type SettlementMetrics struct {
	duration    *prometheus.HistogramVec
	settlements *prometheus.CounterVec
	walletFails *prometheus.CounterVec
}

// NewSettlementMetrics registers the settlement metrics on the provided registerer.
func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	if reg == nil {
		return &SettlementMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "settlement_duration_seconds",
		Help:    "Duration of settlement operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	settlements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlements_total",
		Help: "Settlement operations by operation and result.",
	}, []string{"operation", "result"})
	walletFails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_wallet_failures_total",
		Help: "Wallet mutations that failed during settlement, by step.",
	}, []string{"step"})
	reg.MustRegister(duration, settlements, walletFails)
	return &SettlementMetrics{
		duration:    duration,
		settlements: settlements,
		walletFails: walletFails,
	}
}

// ObserveDuration records the duration for the named settlement operation.
func (m *SettlementMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncSettlement increments the settlement counter for the operation/result pair.
func (m *SettlementMetrics) IncSettlement(operation, result string) {
	if m == nil || m.settlements == nil {
		return
	}
	m.settlements.WithLabelValues(normalizeLabel(operation), normalizeLabel(result)).Inc()
}

// IncWalletFailure increments the wallet failure counter for the named step.
func (m *SettlementMetrics) IncWalletFailure(step string) {
	if m == nil || m.walletFails == nil {
		return
	}
	m.walletFails.WithLabelValues(normalizeLabel(step)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
