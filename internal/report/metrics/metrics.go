package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Reports        *prometheus.CounterVec
	ReportDuration prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Reports: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chatguard_audit_reports_total",
			Help: "Total number of audit report generations by outcome",
		}, []string{"outcome"}),
		ReportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chatguard_audit_report_duration_seconds",
			Help:    "Audit report generation latency",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) ObserveReport(err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Reports.WithLabelValues(outcome).Inc()
	m.ReportDuration.Observe(elapsed.Seconds())
}
