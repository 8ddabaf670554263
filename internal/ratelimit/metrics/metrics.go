package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Decisions        *prometheus.CounterVec
	StoreErrors      prometheus.Counter
	FallbackChecks   prometheus.Counter
	BreakerOpen      prometheus.Gauge
	RecordsCompacted prometheus.Counter
	KeysScanned      prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chatguard_ratelimit_decisions_total",
			Help: "Total number of rate limit decisions by action and outcome",
		}, []string{"action", "outcome"}),
		StoreErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatguard_ratelimit_store_errors_total",
			Help: "Total number of record store errors seen on the check path",
		}),
		FallbackChecks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatguard_ratelimit_fallback_checks_total",
			Help: "Total number of checks served by the in-memory fallback",
		}),
		BreakerOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "chatguard_ratelimit_breaker_open",
			Help: "1 while the record store circuit breaker is open",
		}),
		RecordsCompacted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatguard_ratelimit_records_compacted_total",
			Help: "Total number of expired records removed by compaction",
		}),
		KeysScanned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatguard_ratelimit_compaction_keys_scanned_total",
			Help: "Total number of keys visited by compaction",
		}),
	}
}

func (m *Metrics) IncrementDecision(action, outcome string) {
	m.Decisions.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) IncrementStoreErrors() {
	m.StoreErrors.Inc()
}

func (m *Metrics) IncrementFallbackChecks() {
	m.FallbackChecks.Inc()
}

func (m *Metrics) SetBreakerOpen(open bool) {
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}

func (m *Metrics) AddCompaction(keys int, purged int64) {
	m.KeysScanned.Add(float64(keys))
	m.RecordsCompacted.Add(float64(purged))
}
