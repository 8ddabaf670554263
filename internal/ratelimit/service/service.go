package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"chatguard/internal/ratelimit/config"
	"chatguard/internal/ratelimit/metrics"
	"chatguard/internal/ratelimit/models"
	"chatguard/internal/ratelimit/ports"
	"chatguard/internal/ratelimit/store/record"
	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/platform/audit"
	"chatguard/pkg/platform/audit/auditlog"
	"chatguard/pkg/platform/circuit"
	"chatguard/pkg/requestcontext"
)

// retryAfterOnDeny is reported when a degraded check denies and the store
// cannot tell when the window resets.
const retryAfterOnDeny = 60

type AuditPublisher = auditlog.Publisher

type Service struct {
	store          ports.Store
	fallback       ports.RecordStore
	breaker        *circuit.Breaker
	config         *config.Config
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithFallback replaces the in-memory store used while the breaker is open.
func WithFallback(store ports.RecordStore) Option {
	return func(s *Service) {
		s.fallback = store
	}
}

// CheckOption adjusts a single Check call.
type CheckOption func(*checkOptions)

type checkOptions struct {
	policy models.ErrorPolicy
}

// WithErrorPolicy overrides the service default for one call site.
func WithErrorPolicy(policy models.ErrorPolicy) CheckOption {
	return func(o *checkOptions) {
		o.policy = policy
	}
}

func New(store ports.Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("rate limit record store is required")
	}

	svc := &Service{
		store:  store,
		config: config.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}

	if svc.config.FallbackEnabled && svc.fallback == nil {
		svc.fallback = record.NewInMemory()
	}
	if !svc.config.FallbackEnabled {
		svc.fallback = nil
	}
	svc.breaker = circuit.New("ratelimit_records", circuit.WithFailureThreshold(svc.config.BreakerThreshold))
	return svc, nil
}

// Check applies the sliding window for (userID, action). Store failures are
// never returned: the result comes from the fallback store while the breaker
// is open, and from the error policy otherwise.
func (s *Service) Check(ctx context.Context, userID id.UserID, action models.Action, opts ...CheckOption) (*models.RateLimitResult, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "user id is required")
	}
	limit, ok := s.config.LimitFor(action)
	if !action.IsValid() || !ok {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown rate limit action: "+string(action))
	}

	o := checkOptions{policy: s.config.OnError}
	for _, opt := range opts {
		opt(&o)
	}

	now := requestcontext.Now(ctx)
	key := models.NewRecordKey(userID.String(), action)

	result, err := evaluate(ctx, s.store, key, limit, now)
	if err == nil {
		usePrimary := s.recordPrimarySuccess(ctx)
		s.purgeExpired(ctx, key, now.Add(-limit.Window))
		if !usePrimary {
			if fallbackResult, ok := s.evaluateFallback(ctx, key, limit, now); ok {
				s.observe(ctx, userID, action, limit, fallbackResult)
				return fallbackResult, nil
			}
		}
		s.observe(ctx, userID, action, limit, result)
		return result, nil
	}

	s.logger.ErrorContext(ctx, "rate limit store error",
		"user_id", userID,
		"action", action,
		"error", err,
	)
	if s.metrics != nil {
		s.metrics.IncrementStoreErrors()
	}

	if s.recordPrimaryFailure(ctx) {
		if fallbackResult, ok := s.evaluateFallback(ctx, key, limit, now); ok {
			s.observe(ctx, userID, action, limit, fallbackResult)
			return fallbackResult, nil
		}
	}

	result = policyResult(o.policy, limit, now)
	auditlog.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventRateLimitDegraded, audit.SeverityWarning,
		"user_id", userID.String(),
		"action", string(action),
		"policy", string(o.policy),
		"reason", err.Error(),
	)
	if s.metrics != nil {
		s.metrics.IncrementDecision(string(action), outcome(result))
	}
	return result, nil
}

// CountByAction counts stored records per action within [from, to].
func (s *Service) CountByAction(ctx context.Context, from, to time.Time) (map[models.Action]int, error) {
	counts, err := s.store.CountByAction(ctx, from, to)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count rate limit records")
	}
	return counts, nil
}

// ListRecent returns up to limit records within [from, to], newest first.
func (s *Service) ListRecent(ctx context.Context, from, to time.Time, limit int) ([]*models.Record, error) {
	records, err := s.store.ListRecent(ctx, from, to, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list rate limit records")
	}
	return records, nil
}

// BreakerOpen reports whether checks are currently falling back.
func (s *Service) BreakerOpen() bool {
	return s.breaker.IsOpen()
}

func evaluate(ctx context.Context, store ports.RecordStore, key models.RecordKey, limit config.Limit, now time.Time) (*models.RateLimitResult, error) {
	count, oldest, err := store.Window(ctx, key, now.Add(-limit.Window))
	if err != nil {
		return nil, err
	}

	if count >= limit.Max {
		resetAt := oldest.Add(limit.Window)
		if resetAt.Before(now) {
			resetAt = now
		}
		return &models.RateLimitResult{
			Allowed:    false,
			Limit:      limit.Max,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfterSeconds(resetAt.Sub(now)),
		}, nil
	}

	if err := store.Append(ctx, key, now, limit.Window); err != nil {
		return nil, err
	}
	resetAt := now.Add(limit.Window)
	if count > 0 {
		resetAt = oldest.Add(limit.Window)
	}
	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit.Max,
		Remaining: limit.Max - count - 1,
		ResetAt:   resetAt,
	}, nil
}

func policyResult(policy models.ErrorPolicy, limit config.Limit, now time.Time) *models.RateLimitResult {
	if policy == models.FailClosed {
		return &models.RateLimitResult{
			Allowed:    false,
			Limit:      limit.Max,
			Remaining:  0,
			ResetAt:    now.Add(retryAfterOnDeny * time.Second),
			RetryAfter: retryAfterOnDeny,
			Degraded:   true,
		}
	}
	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit.Max,
		Remaining: limit.Max - 1,
		ResetAt:   now.Add(limit.Window),
		Degraded:  true,
	}
}

func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// purgeExpired trims a bounded batch of expired records for key. Failures
// only cost disk space, so they are logged and ignored.
func (s *Service) purgeExpired(ctx context.Context, key models.RecordKey, before time.Time) {
	if s.config.HotPathPurgeBatch <= 0 {
		return
	}
	if _, err := s.store.PurgeExpired(ctx, key, before, s.config.HotPathPurgeBatch); err != nil {
		s.logger.WarnContext(ctx, "hot path purge failed", "key", key.String(), "error", err)
	}
}

// recordPrimarySuccess reports whether the primary result should serve this
// call. While the breaker is still open the fallback keeps answering until
// enough consecutive successes close it.
func (s *Service) recordPrimarySuccess(ctx context.Context) bool {
	usePrimary, change := s.breaker.RecordSuccess()
	if change.Closed {
		s.logger.InfoContext(ctx, "rate limit record store recovered, circuit closed")
		if s.metrics != nil {
			s.metrics.SetBreakerOpen(false)
		}
	}
	return usePrimary
}

func (s *Service) evaluateFallback(ctx context.Context, key models.RecordKey, limit config.Limit, now time.Time) (*models.RateLimitResult, bool) {
	if s.fallback == nil {
		return nil, false
	}
	result, err := evaluate(ctx, s.fallback, key, limit, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "rate limit fallback store error", "error", err)
		return nil, false
	}
	result.Degraded = true
	if s.metrics != nil {
		s.metrics.IncrementFallbackChecks()
	}
	return result, true
}

// recordPrimaryFailure reports whether the fallback should serve this call.
func (s *Service) recordPrimaryFailure(ctx context.Context) bool {
	useFallback, change := s.breaker.RecordFailure()
	if change.Opened {
		s.logger.WarnContext(ctx, "rate limit record store unhealthy, circuit opened")
		if s.metrics != nil {
			s.metrics.SetBreakerOpen(true)
		}
	}
	return useFallback
}

func (s *Service) observe(ctx context.Context, userID id.UserID, action models.Action, limit config.Limit, result *models.RateLimitResult) {
	if s.metrics != nil {
		s.metrics.IncrementDecision(string(action), outcome(result))
	}
	if result.Allowed {
		return
	}
	auditlog.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventRateLimitExceeded, audit.SeverityWarning,
		"user_id", userID.String(),
		"action", string(action),
		"limit", limit.Max,
		"window_seconds", int(limit.Window.Seconds()),
		"retry_after", result.RetryAfter,
	)
}

func outcome(result *models.RateLimitResult) string {
	if result.Allowed {
		return "allowed"
	}
	return "denied"
}
