package security

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "chatguard/pkg/platform/audit"
	"chatguard/pkg/platform/audit/store/memory"
)

func TestPublisher_DrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := New(store, WithFlushInterval(time.Hour), WithBatchSize(1000))

	for range 10 {
		pub.Emit(context.Background(), audit.SecurityEvent{
			Action:  string(audit.EventUserBlocked),
			Subject: "user-1",
		})
	}
	pub.Close()

	events := store.ListAll()
	require.Len(t, events, 10, "all events should be drained on close")
}

func TestPublisher_FillsDefaults(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := New(store)

	pub.Emit(context.Background(), audit.SecurityEvent{Action: string(audit.EventUserSuspended)})
	pub.Close()

	events := store.ListAll()
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, audit.CategorySecurity, events[0].Category)
	assert.Equal(t, audit.SeverityInfo, events[0].Severity)
}

func TestPublisher_FlushesWhenBatchIsFull(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := New(store, WithFlushInterval(time.Hour), WithBatchSize(2))
	defer pub.Close()

	pub.Emit(context.Background(), audit.SecurityEvent{Action: "a"})
	pub.Emit(context.Background(), audit.SecurityEvent{Action: "b"})

	assert.Eventually(t, func() bool {
		return len(store.ListAll()) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestPublisher_ConcurrentEmit(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := New(store, WithBufferSize(1000))

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pub.Emit(context.Background(), audit.SecurityEvent{Action: string(audit.EventRateLimitExceeded)})
		}()
	}
	wg.Wait()
	pub.Close()

	assert.Len(t, store.ListAll(), 20)
}

type failingSink struct{}

func (failingSink) Write(context.Context, []audit.SecurityEvent) error {
	return errors.New("broker unavailable")
}

func TestPublisher_SinkFailureDoesNotBlockClose(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pub := New(failingSink{}, WithLogger(logger))
	pub.Emit(context.Background(), audit.SecurityEvent{Action: "x"})

	done := make(chan struct{})
	go func() {
		pub.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked on failing sink")
	}
}

func TestRingBuffer_EvictsOldest(t *testing.T) {
	b := NewRingBuffer(2)
	assert.False(t, b.Enqueue(audit.SecurityEvent{Action: "1"}))
	assert.False(t, b.Enqueue(audit.SecurityEvent{Action: "2"}))
	assert.True(t, b.Enqueue(audit.SecurityEvent{Action: "3"}))

	batch := b.DequeueBatch(10)
	require.Len(t, batch, 2)
	assert.Equal(t, "2", batch[0].Action)
	assert.Equal(t, "3", batch[1].Action)
	assert.Equal(t, int64(1), b.Dropped())
	assert.Zero(t, b.Len())
}
