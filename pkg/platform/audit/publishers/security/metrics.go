package security

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the security audit publisher.
type Metrics struct {
	Emitted         prometheus.Counter
	Dropped         prometheus.Counter
	PersistFailures prometheus.Counter
	Buffered        prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		Emitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatguard_audit_security_emitted_total",
			Help: "Total number of security audit events emitted",
		}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatguard_audit_security_dropped_total",
			Help: "Total number of security audit events evicted from a full buffer",
		}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatguard_audit_security_persist_failures_total",
			Help: "Total number of failed audit batch writes",
		}),
		Buffered: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "chatguard_audit_security_buffered",
			Help: "Security audit events waiting to be written",
		}),
	}
}

func (m *Metrics) IncEmitted() {
	m.Emitted.Inc()
}

func (m *Metrics) IncDropped() {
	m.Dropped.Inc()
}

func (m *Metrics) IncPersistFailures() {
	m.PersistFailures.Inc()
}

func (m *Metrics) SetBuffered(n int) {
	m.Buffered.Set(float64(n))
}
