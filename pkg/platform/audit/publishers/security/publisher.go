// Package security provides the asynchronous audit publisher for trust-and-safety
// events. Emit never blocks the hot path: events are buffered in memory and a
// background loop writes them to the configured sink in batches.
package security

import (
	"context"
	"log/slog"
	"sync"
	"time"

	audit "chatguard/pkg/platform/audit"
)

// Publisher buffers security events and flushes them to a sink.
type Publisher struct {
	sink          audit.Sink
	buffer        *RingBuffer
	logger        *slog.Logger
	metrics       *Metrics
	batchSize     int
	flushInterval time.Duration
	writeTimeout  time.Duration

	notify    chan struct{}
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func WithBufferSize(n int) Option {
	return func(p *Publisher) {
		p.buffer = NewRingBuffer(n)
	}
}

func WithBatchSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

func WithFlushInterval(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.flushInterval = d
		}
	}
}

// New creates a publisher and starts its flush loop. Call Close to drain.
func New(sink audit.Sink, opts ...Option) *Publisher {
	p := &Publisher{
		sink:          sink,
		buffer:        NewRingBuffer(0),
		logger:        slog.Default(),
		batchSize:     100,
		flushInterval: time.Second,
		writeTimeout:  5 * time.Second,
		notify:        make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.wg.Add(1)
	go p.run()
	return p
}

// Emit enqueues an event. Timestamp and category are filled in when unset.
func (p *Publisher) Emit(_ context.Context, event audit.SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if event.Severity == "" {
		event.Severity = audit.SeverityInfo
	}

	if p.buffer.Enqueue(event) && p.metrics != nil {
		p.metrics.IncDropped()
	}
	if p.metrics != nil {
		p.metrics.IncEmitted()
	}

	if p.buffer.Len() >= p.batchSize {
		select {
		case p.notify <- struct{}{}:
		default:
		}
	}
}

// Close stops the flush loop after writing everything still buffered.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
	})
}

func (p *Publisher) run() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			for p.buffer.Len() > 0 {
				if !p.flush() {
					return
				}
			}
			return
		case <-ticker.C:
			p.flush()
		case <-p.notify:
			p.flush()
		}
	}
}

// flush writes one batch and reports whether the write succeeded.
func (p *Publisher) flush() bool {
	batch := p.buffer.DequeueBatch(p.batchSize)
	if len(batch) == 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
	defer cancel()

	if err := p.sink.Write(ctx, batch); err != nil {
		p.logger.Error("failed to write security audit batch",
			"error", err,
			"batch_size", len(batch),
		)
		if p.metrics != nil {
			p.metrics.IncPersistFailures()
		}
		return false
	}
	if p.metrics != nil {
		p.metrics.SetBuffered(p.buffer.Len())
	}
	return true
}
