package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	KeysCreated     prometheus.Counter
	KeysDeprecated  prometheus.Counter
	RotationFailure prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		KeysCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatguard_keys_created_total",
			Help: "Total number of encryption keys created",
		}),
		KeysDeprecated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatguard_keys_deprecated_total",
			Help: "Total number of encryption keys deprecated by rotation",
		}),
		RotationFailure: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatguard_keys_rotation_failures_total",
			Help: "Total number of failed key rotation runs",
		}),
	}
}

func (m *Metrics) IncrementKeysCreated() {
	m.KeysCreated.Inc()
}

func (m *Metrics) AddKeysDeprecated(n int) {
	m.KeysDeprecated.Add(float64(n))
}

func (m *Metrics) IncrementRotationFailures() {
	m.RotationFailure.Inc()
}
