package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Decisions        *prometheus.CounterVec
	ValidationErrors prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chatguard_permission_decisions_total",
			Help: "Total number of permission decisions by action and outcome",
		}, []string{"action", "outcome"}),
		ValidationErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatguard_permission_errors_total",
			Help: "Total number of permission checks denied because of an internal error",
		}),
	}
}

func (m *Metrics) IncrementDecision(action string, allowed bool) {
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	m.Decisions.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) IncrementValidationErrors() {
	m.ValidationErrors.Inc()
}
