package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Classifications *prometheus.CounterVec
	PatternMatches  *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Classifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chatguard_sanitizer_classifications_total",
			Help: "Total number of classified messages by outcome",
		}, []string{"outcome"}),
		PatternMatches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chatguard_sanitizer_pattern_matches_total",
			Help: "Total number of sensitive pattern matches by pattern",
		}, []string{"pattern"}),
	}
}

func (m *Metrics) IncrementClassification(sensitive bool) {
	outcome := "clean"
	if sensitive {
		outcome = "sensitive"
	}
	m.Classifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementPattern(pattern string) {
	m.PatternMatches.WithLabelValues(pattern).Inc()
}
