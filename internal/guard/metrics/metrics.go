package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Admissions *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Admissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chatguard_guard_admissions_total",
			Help: "Total number of admission decisions by rejecting stage",
		}, []string{"stage"}),
	}
}

// IncrementAdmission counts a decision. An empty stage means admitted.
func (m *Metrics) IncrementAdmission(stage string) {
	if stage == "" {
		stage = "admitted"
	}
	m.Admissions.WithLabelValues(stage).Inc()
}
