package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	strutil "chatguard/pkg/platform/strings"
)

// Config is the full runtime configuration for the server and job binaries.
type Config struct {
	Server     Server
	Postgres   PostgresConfig
	Redis      RedisConfig
	Mongo      MongoConfig
	NATS       NATSConfig
	Kafka      KafkaConfig
	Sentry     SentryConfig
	Log        LogConfig
	Moderation ModerationConfig
	RateLimit  RateLimitConfig
	Retention  RetentionConfig
	Keys       KeysConfig
	Jobs       JobsConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	JWTSigningKey   string
	JWTIssuer       string
	JWTAudience     string
	ShutdownTimeout time.Duration
}

// PostgresConfig holds moderation store connection settings.
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	MigrateOnRun bool
}

// RedisConfig holds rate-limit store connection settings.
// An empty URL keeps the rate limiter on the in-memory store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// MongoConfig holds chat, message and key store settings.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// NATSConfig configures the moderation status event stream.
type NATSConfig struct {
	URL     string
	Subject string
}

// KafkaConfig configures the audit event sink.
type KafkaConfig struct {
	Brokers           []string
	SecurityTopic     string
	OperationsTopic   string
	Partitions        int32
	ReplicationFactor int16
}

// SentryConfig configures job error reporting. An empty DSN disables it.
type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Format string
	Level  string
}

// ModerationConfig tunes violation escalation.
type ModerationConfig struct {
	SuspendAfter int
}

// RateLimitConfig tunes the rate limiter.
type RateLimitConfig struct {
	OnError            string
	HotPathPurgeBatch  int
	FallbackEnabled    bool
	BreakerThreshold   int
	CompactionPageSize int64
	CompactionMaxPages int
}

// RetentionConfig tunes the inactive-chat cleanup job.
type RetentionConfig struct {
	InactivityDays       int
	PageSize             int
	MessageBatchSize     int
	MaxMessageIterations int
}

// KeysConfig tunes encryption-key rotation.
type KeysConfig struct {
	RotationDays int
}

// JobsConfig guards the admin job endpoints.
type JobsConfig struct {
	AdminToken string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var errs []string
	intVar := func(key string, def int) int {
		v, err := getInt(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	durVar := func(key string, def time.Duration) time.Duration {
		v, err := getDuration(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}

	cfg := Config{
		Server: Server{
			Addr: getEnv("CHATGUARD_ADDR", ":8080"),
			// Use a default for development - should be overridden in production
			JWTSigningKey:   getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:       getEnv("JWT_ISSUER", "marketplace-auth"),
			JWTAudience:     getEnv("JWT_AUDIENCE", "chatguard"),
			ShutdownTimeout: durVar("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: PostgresConfig{
			DSN:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: intVar("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns: intVar("DATABASE_MAX_IDLE_CONNS", 5),
			MigrateOnRun: getEnv("DATABASE_MIGRATE", "true") == "true",
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intVar("REDIS_POOL_SIZE", 10),
			MinIdleConns: intVar("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durVar("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durVar("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durVar("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGODB_URI"),
			Database: getEnv("MONGODB_DATABASE", "chatguard"),
			Timeout:  durVar("MONGODB_TIMEOUT", 10*time.Second),
		},
		NATS: NATSConfig{
			URL:     os.Getenv("NATS_URL"),
			Subject: getEnv("NATS_MODERATION_SUBJECT", "moderation.status"),
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(os.Getenv("KAFKA_BROKERS")),
			SecurityTopic:     getEnv("KAFKA_AUDIT_SECURITY_TOPIC", "chatguard.audit.security"),
			OperationsTopic:   getEnv("KAFKA_AUDIT_OPERATIONS_TOPIC", "chatguard.audit.operations"),
			Partitions:        int32(intVar("KAFKA_AUDIT_PARTITIONS", 3)),
			ReplicationFactor: int16(intVar("KAFKA_AUDIT_REPLICATION", 1)),
		},
		Sentry: SentryConfig{
			DSN:         os.Getenv("SENTRY_DSN"),
			Environment: getEnv("SENTRY_ENVIRONMENT", "development"),
			Release:     os.Getenv("SENTRY_RELEASE"),
		},
		Log: LogConfig{
			Format: getEnv("LOG_FORMAT", "json"),
			Level:  getEnv("LOG_LEVEL", "info"),
		},
		Moderation: ModerationConfig{
			SuspendAfter: intVar("SUSPEND_AFTER", 5),
		},
		RateLimit: RateLimitConfig{
			OnError:            getEnv("RATELIMIT_ON_ERROR", "allow"),
			HotPathPurgeBatch:  intVar("RATELIMIT_PURGE_BATCH", 10),
			FallbackEnabled:    getEnv("RATELIMIT_FALLBACK", "true") == "true",
			BreakerThreshold:   intVar("RATELIMIT_BREAKER_THRESHOLD", 5),
			CompactionPageSize: int64(intVar("RATELIMIT_COMPACTION_PAGE_SIZE", 100)),
			CompactionMaxPages: intVar("RATELIMIT_COMPACTION_MAX_PAGES", 1000),
		},
		Retention: RetentionConfig{
			InactivityDays:       intVar("INACTIVITY_DAYS", 90),
			PageSize:             intVar("RETENTION_PAGE_SIZE", 50),
			MessageBatchSize:     intVar("RETENTION_MESSAGE_BATCH", 100),
			MaxMessageIterations: intVar("RETENTION_MAX_MESSAGE_ITERATIONS", 50),
		},
		Keys: KeysConfig{
			RotationDays: intVar("ROTATION_DAYS", 30),
		},
		Jobs: JobsConfig{
			AdminToken: os.Getenv("ADMIN_API_TOKEN"),
		},
	}

	if cfg.RateLimit.OnError != "allow" && cfg.RateLimit.OnError != "deny" {
		errs = append(errs, fmt.Sprintf("RATELIMIT_ON_ERROR must be allow or deny, got %q", cfg.RateLimit.OnError))
	}
	if cfg.Retention.InactivityDays <= 0 {
		errs = append(errs, "INACTIVITY_DAYS must be positive")
	}
	if cfg.Moderation.SuspendAfter <= 0 {
		errs = append(errs, "SUSPEND_AFTER must be positive")
	}
	if cfg.Keys.RotationDays <= 0 {
		errs = append(errs, "ROTATION_DAYS must be positive")
	}
	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return strutil.DedupeAndTrim(strings.Split(raw, ","))
}
