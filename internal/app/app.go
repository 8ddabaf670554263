// Package app builds the service graph shared by the server and jobs
// binaries. Every backend is optional: an unconfigured store falls back to
// its in-memory implementation.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"chatguard/internal/chat/store/chat"
	"chatguard/internal/chat/store/deletionlog"
	"chatguard/internal/chat/store/message"
	guardhandler "chatguard/internal/guard/handler"
	guardmetrics "chatguard/internal/guard/metrics"
	guardservice "chatguard/internal/guard/service"
	"chatguard/internal/jobs"
	jobshandler "chatguard/internal/jobs/handler"
	jobmodels "chatguard/internal/jobs/models"
	"chatguard/internal/jobs/store/joblog"
	keymetrics "chatguard/internal/keys/metrics"
	keyservice "chatguard/internal/keys/service"
	"chatguard/internal/keys/store/key"
	"chatguard/internal/moderation/events"
	modhandler "chatguard/internal/moderation/handler"
	modmetrics "chatguard/internal/moderation/metrics"
	modservice "chatguard/internal/moderation/service"
	"chatguard/internal/moderation/store/actionlog"
	"chatguard/internal/moderation/store/status"
	"chatguard/internal/moderation/store/violation"
	permhandler "chatguard/internal/permission/handler"
	permmetrics "chatguard/internal/permission/metrics"
	permservice "chatguard/internal/permission/service"
	"chatguard/internal/platform/config"
	platformkafka "chatguard/internal/platform/kafka"
	platformmetrics "chatguard/internal/platform/metrics"
	platformmongo "chatguard/internal/platform/mongo"
	platformnats "chatguard/internal/platform/nats"
	"chatguard/internal/platform/postgres"
	platformredis "chatguard/internal/platform/redis"
	"chatguard/internal/platform/sentry"
	"chatguard/internal/ratelimit/compaction"
	rlconfig "chatguard/internal/ratelimit/config"
	rlhandler "chatguard/internal/ratelimit/handler"
	rlmetrics "chatguard/internal/ratelimit/metrics"
	rlmodels "chatguard/internal/ratelimit/models"
	"chatguard/internal/ratelimit/ports"
	rlservice "chatguard/internal/ratelimit/service"
	"chatguard/internal/ratelimit/store/record"
	reporthandler "chatguard/internal/report/handler"
	reportmetrics "chatguard/internal/report/metrics"
	reportservice "chatguard/internal/report/service"
	retentionconfig "chatguard/internal/retention/config"
	retentionmetrics "chatguard/internal/retention/metrics"
	retentionservice "chatguard/internal/retention/service"
	sanhandler "chatguard/internal/sanitizer/handler"
	sanmetrics "chatguard/internal/sanitizer/metrics"
	sanservice "chatguard/internal/sanitizer/service"
	httptransport "chatguard/internal/transport/http"
	"chatguard/pkg/platform/audit"
	"chatguard/pkg/platform/audit/publishers/security"
	kafkasink "chatguard/pkg/platform/audit/store/kafka"
	auditmemory "chatguard/pkg/platform/audit/store/memory"
	authmw "chatguard/pkg/platform/middleware/auth"
	"chatguard/pkg/platform/tx"
)

// App holds the wired services and the resources that need closing.
type App struct {
	Logger *slog.Logger

	Moderation *modservice.Service
	RateLimit  *rlservice.Service
	Compaction *compaction.Worker
	Keys       *keyservice.Service
	Sanitizer  *sanservice.Service
	Permission *permservice.Service
	Retention  *retentionservice.Service
	Report     *reportservice.Service
	Guard      *guardservice.Service
	Jobs       *jobs.Runner

	HealthChecks map[string]httptransport.HealthCheck

	publisher *security.Publisher
	closers   []func(ctx context.Context) error
}

// Several stores back more than one consumer; these name the combined views.
type (
	violationStore interface {
		modservice.ViolationStore
		reportservice.ViolationSource
	}
	actionStore interface {
		modservice.ActionLogStore
		reportservice.ActionSource
	}
	chatStore interface {
		retentionservice.ChatStore
		permservice.ChatStore
	}
	deletionStore interface {
		retentionservice.DeletionLogStore
		reportservice.DeletionSource
	}
	jobLogStore interface {
		jobs.ErrorStore
		keyservice.ReportStore
	}
)

type backends struct {
	db    *sql.DB
	redis *platformredis.Client
	mongo *platformmongo.Client
	nats  *platformnats.Client
	kafka *kgo.Client
}

// Build connects the configured backends and wires every module. On error
// the resources opened so far are closed.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (_ *App, err error) {
	a := &App{
		Logger:       logger,
		HealthChecks: make(map[string]httptransport.HealthCheck),
	}
	defer func() {
		if err != nil {
			_ = a.Close(context.WithoutCancel(ctx))
		}
	}()

	b, err := a.connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := a.buildAudit(ctx, cfg, b.kafka); err != nil {
		return nil, err
	}

	// Moderation state lives in Postgres.
	var (
		statuses   modservice.StatusStore = status.NewInMemoryStore()
		violations violationStore         = violation.NewInMemoryStore()
		actions    actionStore            = actionlog.NewInMemoryStore()
	)
	modOpts := []modservice.Option{
		modservice.WithLogger(logger),
		modservice.WithAuditPublisher(a.publisher),
		modservice.WithMetrics(modmetrics.New()),
		modservice.WithSuspendAfter(cfg.Moderation.SuspendAfter),
	}
	if b.db != nil {
		statuses = status.NewPostgres(b.db)
		violations = violation.NewPostgres(b.db)
		actions = actionlog.NewPostgres(b.db)
		modOpts = append(modOpts, modservice.WithTransactor(tx.NewRunner(b.db)))
	}
	if b.nats != nil {
		modOpts = append(modOpts, modservice.WithEventPublisher(events.NewNATSPublisher(b.nats, cfg.NATS.Subject)))
	}
	if a.Moderation, err = modservice.New(statuses, violations, actions, modOpts...); err != nil {
		return nil, err
	}

	// Rate-limit records live in Redis.
	var records ports.Store = record.NewInMemory()
	if b.redis != nil {
		records = record.NewRedis(b.redis.Client)
	}
	rlCfg, err := rateLimitConfig(cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	rlm := rlmetrics.New()
	if a.RateLimit, err = rlservice.New(records,
		rlservice.WithLogger(logger),
		rlservice.WithAuditPublisher(a.publisher),
		rlservice.WithConfig(rlCfg),
		rlservice.WithMetrics(rlm),
	); err != nil {
		return nil, err
	}
	if a.Compaction, err = compaction.New(records,
		compaction.WithLogger(logger),
		compaction.WithConfig(rlCfg),
		compaction.WithMetrics(rlm),
		compaction.WithAuditPublisher(a.publisher),
	); err != nil {
		return nil, err
	}

	// Chats, messages, keys and job logs live in MongoDB.
	var (
		chats     chatStore                     = chat.NewInMemory()
		messages  retentionservice.MessageStore = message.NewInMemory()
		deletions deletionStore                 = deletionlog.NewInMemory()
		keyStore  keyservice.KeyStore           = key.NewInMemory()
		jobLog    jobLogStore                   = joblog.NewInMemory()
	)
	if b.mongo != nil {
		mongoChats := chat.NewMongo(b.mongo.DB())
		mongoMessages := message.NewMongo(b.mongo.DB())
		mongoKeys := key.NewMongo(b.mongo.DB())
		for _, ensure := range []func(context.Context) error{mongoChats.EnsureIndexes, mongoMessages.EnsureIndexes, mongoKeys.EnsureIndexes} {
			if err := ensure(ctx); err != nil {
				return nil, err
			}
		}
		chats, messages, keyStore = mongoChats, mongoMessages, mongoKeys
		deletions = deletionlog.NewMongo(b.mongo.DB())
		jobLog = joblog.NewMongo(b.mongo.DB())
	}
	failures := jobs.NewFailureRecorder(jobLog, sentry.HubReporter{}, a.publisher, logger)

	if a.Keys, err = keyservice.New(keyStore,
		keyservice.WithLogger(logger),
		keyservice.WithAuditPublisher(a.publisher),
		keyservice.WithMetrics(keymetrics.New()),
		keyservice.WithReportStore(jobLog),
		keyservice.WithFailureRecorder(failures),
		keyservice.WithRotationDays(cfg.Keys.RotationDays),
	); err != nil {
		return nil, err
	}
	if _, created, err := a.Keys.EnsureActiveKey(ctx); err != nil {
		return nil, fmt.Errorf("bootstrap encryption key: %w", err)
	} else if created {
		logger.InfoContext(ctx, "bootstrapped first encryption key")
	}

	if a.Sanitizer, err = sanservice.New(a.Keys,
		sanservice.WithLogger(logger),
		sanservice.WithAuditPublisher(a.publisher),
		sanservice.WithMetrics(sanmetrics.New()),
	); err != nil {
		return nil, err
	}
	if a.Permission, err = permservice.New(chats, a.Moderation,
		permservice.WithLogger(logger),
		permservice.WithAuditPublisher(a.publisher),
		permservice.WithMetrics(permmetrics.New()),
	); err != nil {
		return nil, err
	}
	if a.Retention, err = retentionservice.New(chats, messages, deletions,
		retentionservice.WithLogger(logger),
		retentionservice.WithAuditPublisher(a.publisher),
		retentionservice.WithMetrics(retentionmetrics.New()),
		retentionservice.WithConfig(retentionConfig(cfg.Retention)),
		retentionservice.WithReportStore(jobLog),
		retentionservice.WithFailureRecorder(failures),
	); err != nil {
		return nil, err
	}
	if a.Report, err = reportservice.New(violations, actions, a.RateLimit, deletions,
		reportservice.WithLogger(logger),
		reportservice.WithAuditPublisher(a.publisher),
		reportservice.WithMetrics(reportmetrics.New()),
	); err != nil {
		return nil, err
	}
	if a.Guard, err = guardservice.New(a.Permission, a.RateLimit, a.Sanitizer,
		guardservice.WithLogger(logger),
		guardservice.WithMetrics(guardmetrics.New()),
	); err != nil {
		return nil, err
	}

	a.Jobs = jobs.NewRunner(logger)
	a.Jobs.Register(jobmodels.JobCleanupInactiveChats, func(ctx context.Context) (any, error) {
		return a.Retention.CleanupInactiveChats(ctx)
	})
	a.Jobs.Register(jobmodels.JobRotateEncryptionKeys, func(ctx context.Context) (any, error) {
		return a.Keys.RotateEncryptionKeys(ctx)
	})
	a.Jobs.Register(jobmodels.JobCompactRateLimits, func(ctx context.Context) (any, error) {
		res, err := a.Compaction.Run(ctx)
		if err != nil {
			failures.Record(ctx, jobmodels.JobCompactRateLimits, "compaction", err)
		}
		return res, err
	})
	return a, nil
}

func (a *App) connect(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}
	var err error

	if b.db, err = postgres.Open(ctx, cfg.Postgres); err != nil {
		return nil, err
	}
	if b.db != nil {
		a.HealthChecks["postgres"] = b.db.PingContext
		a.closers = append(a.closers, func(context.Context) error { return b.db.Close() })
	} else {
		a.Logger.WarnContext(ctx, "postgres not configured, moderation state is in memory")
	}

	if b.redis, err = platformredis.New(ctx, cfg.Redis); err != nil {
		return nil, err
	}
	if b.redis != nil {
		a.HealthChecks["redis"] = b.redis.Health
		a.closers = append(a.closers, func(context.Context) error { return b.redis.Close() })
	} else {
		a.Logger.WarnContext(ctx, "redis not configured, rate-limit records are in memory")
	}

	if b.mongo, err = platformmongo.New(ctx, cfg.Mongo); err != nil {
		return nil, err
	}
	if b.mongo != nil {
		a.HealthChecks["mongo"] = b.mongo.Health
		a.closers = append(a.closers, b.mongo.Close)
	} else {
		a.Logger.WarnContext(ctx, "mongodb not configured, chats and keys are in memory")
	}

	if b.nats, err = platformnats.New(cfg.NATS, a.Logger); err != nil {
		return nil, err
	}
	if b.nats != nil {
		a.closers = append(a.closers, func(context.Context) error { return b.nats.Close() })
	}

	if b.kafka, err = platformkafka.NewClient(cfg.Kafka); err != nil {
		return nil, err
	}
	if b.kafka != nil {
		a.closers = append(a.closers, func(context.Context) error { b.kafka.Close(); return nil })
	}
	return b, nil
}

// buildAudit starts the async audit publisher over Kafka, or over an
// in-memory sink when no brokers are configured.
func (a *App) buildAudit(ctx context.Context, cfg config.Config, client *kgo.Client) error {
	var sink audit.Sink = auditmemory.NewInMemoryStore()
	if client != nil {
		ks := kafkasink.New(client,
			kafkasink.WithTopic(audit.CategorySecurity, cfg.Kafka.SecurityTopic),
			kafkasink.WithTopic(audit.CategoryOperations, cfg.Kafka.OperationsTopic),
		)
		if err := platformkafka.EnsureTopics(ctx, client, cfg.Kafka, ks.Topics()...); err != nil {
			return err
		}
		sink = ks
	}
	a.publisher = security.New(sink,
		security.WithLogger(a.Logger),
		security.WithMetrics(security.NewMetrics()),
	)
	return nil
}

// Routes returns the router deps for the server binary.
func (a *App) Routes(cfg config.Config, validator authmw.JWTValidator) httptransport.Deps {
	return httptransport.Deps{
		Logger:       a.Logger,
		JWTValidator: validator,
		AdminToken:   cfg.Jobs.AdminToken,
		HTTPMetrics:  platformmetrics.New(),
		HealthChecks: a.HealthChecks,
		Permission:   permhandler.New(a.Permission, a.Logger),
		RateLimit:    rlhandler.New(a.RateLimit, a.Logger),
		Sanitizer:    sanhandler.New(a.Sanitizer, a.Logger),
		Guard:        guardhandler.New(a.Guard, a.Logger),
		Moderation:   modhandler.New(a.Moderation, a.Logger),
		Report:       reporthandler.New(a.Report, a.Logger),
		Jobs:         jobshandler.New(a.Jobs, a.Logger),
	}
}

// Close drains the audit publisher, then releases backends in reverse order.
func (a *App) Close(ctx context.Context) error {
	if a.publisher != nil {
		a.publisher.Close()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func rateLimitConfig(c config.RateLimitConfig) (*rlconfig.Config, error) {
	cfg := rlconfig.DefaultConfig()
	if c.OnError != "" {
		policy, err := rlmodels.ParseErrorPolicy(c.OnError)
		if err != nil {
			return nil, err
		}
		cfg.OnError = policy
	}
	cfg.FallbackEnabled = c.FallbackEnabled
	if c.HotPathPurgeBatch > 0 {
		cfg.HotPathPurgeBatch = c.HotPathPurgeBatch
	}
	if c.BreakerThreshold > 0 {
		cfg.BreakerThreshold = c.BreakerThreshold
	}
	if c.CompactionPageSize > 0 {
		cfg.Compaction.PageSize = c.CompactionPageSize
	}
	if c.CompactionMaxPages > 0 {
		cfg.Compaction.MaxPages = c.CompactionMaxPages
	}
	return cfg, nil
}

func retentionConfig(c config.RetentionConfig) *retentionconfig.Config {
	cfg := retentionconfig.DefaultConfig()
	if c.InactivityDays > 0 {
		cfg.InactivityDays = c.InactivityDays
	}
	if c.PageSize > 0 {
		cfg.PageSize = c.PageSize
	}
	if c.MessageBatchSize > 0 {
		cfg.MessageBatchSize = c.MessageBatchSize
	}
	if c.MaxMessageIterations > 0 {
		cfg.MaxMessageIterations = c.MaxMessageIterations
	}
	return cfg
}
