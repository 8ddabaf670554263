package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ChatsDeleted    prometheus.Counter
	MessagesDeleted prometheus.Counter
	CascadeFailures prometheus.Counter
	RunFailures     prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ChatsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatguard_retention_chats_deleted_total",
			Help: "Total number of chats soft-deleted for inactivity",
		}),
		MessagesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatguard_retention_messages_deleted_total",
			Help: "Total number of messages soft-deleted by the chat cascade",
		}),
		CascadeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatguard_retention_cascade_failures_total",
			Help: "Total number of message cascades that failed or stopped early",
		}),
		RunFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatguard_retention_run_failures_total",
			Help: "Total number of cleanup runs aborted by an error",
		}),
	}
}

func (m *Metrics) AddDeleted(chats, messages int) {
	m.ChatsDeleted.Add(float64(chats))
	m.MessagesDeleted.Add(float64(messages))
}

func (m *Metrics) IncrementCascadeFailures() {
	m.CascadeFailures.Inc()
}

func (m *Metrics) IncrementRunFailures() {
	m.RunFailures.Inc()
}
