package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatguard/internal/jobs/store/joblog"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/platform/audit"
	"chatguard/pkg/requestcontext"
)

type captureReporter struct {
	jobs []string
	errs []error
}

func (r *captureReporter) CaptureJobError(_ context.Context, job string, err error) {
	r.jobs = append(r.jobs, job)
	r.errs = append(r.errs, err)
}

type capturePublisher struct {
	events []audit.SecurityEvent
}

func (p *capturePublisher) Emit(_ context.Context, e audit.SecurityEvent) {
	p.events = append(p.events, e)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestFailureRecorder(t *testing.T) {
	now := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)
	store := joblog.NewInMemory()
	reporter := &captureReporter{}
	pub := &capturePublisher{}
	rec := NewFailureRecorder(store, reporter, pub, discard)

	ctx, cancel := context.WithCancel(requestcontext.WithTime(context.Background(), now))
	cancel()
	boom := errors.New("mongo: no reachable servers")
	rec.Record(ctx, "cleanup-inactive-chats", "query", boom)

	errs := store.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "cleanup-inactive-chats", errs[0].Job)
	assert.Equal(t, "query", errs[0].Type)
	assert.Equal(t, boom.Error(), errs[0].Message)
	assert.Equal(t, now, errs[0].Timestamp)
	assert.NotEmpty(t, errs[0].ID)

	assert.Equal(t, []string{"cleanup-inactive-chats"}, reporter.jobs)
	require.Len(t, pub.events, 1)
	assert.Equal(t, string(audit.EventCleanupFailed), pub.events[0].Action)
	assert.Equal(t, audit.SeverityCritical, pub.events[0].Severity)

	t.Run("nil error is ignored", func(t *testing.T) {
		rec.Record(context.Background(), "x", "y", nil)
		assert.Len(t, store.Errors(), 1)
	})
}

func TestRunner(t *testing.T) {
	r := NewRunner(discard)
	now := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)
	var seen time.Time
	r.Register("b-job", func(ctx context.Context) (any, error) {
		seen = requestcontext.Now(ctx)
		return map[string]int{"done": 1}, nil
	})
	r.Register("a-job", func(context.Context) (any, error) {
		return nil, dErrors.New(dErrors.CodeInternal, "failed")
	})

	assert.Equal(t, []string{"a-job", "b-job"}, r.Names())

	out, err := r.Run(requestcontext.WithTime(context.Background(), now), "b-job")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"done": 1}, out)
	assert.Equal(t, now, seen)

	_, err = r.Run(context.Background(), "a-job")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	_, err = r.Run(context.Background(), "missing")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
