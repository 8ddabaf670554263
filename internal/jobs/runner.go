package jobs

import (
	"context"
	"log/slog"
	"sort"
	"time"

	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/requestcontext"
)

// Func runs one job and returns its JSON-serialisable report.
type Func func(ctx context.Context) (any, error)

// Runner maps job names to their implementations.
type Runner struct {
	jobs   map[string]Func
	logger *slog.Logger
}

func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{jobs: make(map[string]Func), logger: logger}
}

// Register adds or replaces the job called name.
func (r *Runner) Register(name string, fn Func) {
	r.jobs[name] = fn
}

// Names lists registered jobs in sorted order.
func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.jobs))
	for name := range r.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the named job. The job clock is pinned at start so every
// cutoff inside one run is computed from the same instant.
func (r *Runner) Run(ctx context.Context, name string) (any, error) {
	fn, ok := r.jobs[name]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "unknown job: "+name)
	}
	start := requestcontext.Now(ctx)
	ctx = requestcontext.WithTime(ctx, start)

	r.logger.InfoContext(ctx, "job started", "job", name)
	out, err := fn(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "job failed",
			"job", name,
			"duration", time.Since(start),
			"error", err,
		)
		return nil, err
	}
	r.logger.InfoContext(ctx, "job finished", "job", name, "duration", time.Since(start))
	return out, nil
}
