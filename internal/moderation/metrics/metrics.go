package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Transitions        *prometheus.CounterVec
	Violations         *prometheus.CounterVec
	EventPublishErrors prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chatguard_moderation_transitions_total",
			Help: "Total number of moderation state transitions by action",
		}, []string{"action"}),
		Violations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chatguard_moderation_violations_total",
			Help: "Total number of recorded violations by type",
		}, []string{"type"}),
		EventPublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatguard_moderation_event_publish_errors_total",
			Help: "Total number of status events that failed to publish",
		}),
	}
}

func (m *Metrics) IncrementTransition(action string) {
	m.Transitions.WithLabelValues(action).Inc()
}

func (m *Metrics) IncrementViolation(violationType string) {
	m.Violations.WithLabelValues(violationType).Inc()
}

func (m *Metrics) IncrementEventPublishErrors() {
	m.EventPublishErrors.Inc()
}
