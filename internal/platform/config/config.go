package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr      string
	LogLevel  string
	LogFormat string

	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig

	OutboxSchedule string

	JWTSigningKey string
	JWTIssuer     string
	ReviewerRole  string

	StrictCompleteness bool
	ReviewLockTTL      time.Duration

	// RateLimitWrites caps mutating requests per actor per minute. Zero
	// disables the limiter.
	RateLimitWrites   int
	RateLimitDisabled bool
}

// RedisConfig configures the review lock backend. An empty URL selects the
// in-process locker.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures outbox publication. No brokers disables the relay.
type KafkaConfig struct {
	Brokers     []string
	ReviewTopic string
	ClientID    string
}

const devSigningKey = "dev-secret-key-change-in-production"

// Load reads an optional .env file and then the environment. Values already
// set in the environment win over the file.
func Load(envFiles ...string) (Server, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Server{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var errs []error
	cfg := Server{
		Addr:           getString("CERTHUB_ADDR", ":8080"),
		LogLevel:       getString("LOG_LEVEL", "info"),
		LogFormat:      getString("LOG_FORMAT", "json"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		OutboxSchedule: getString("OUTBOX_SCHEDULE", "@every 5s"),
		JWTSigningKey:  getString("JWT_SIGNING_KEY", devSigningKey),
		JWTIssuer:      getString("JWT_ISSUER", "certhub"),
		ReviewerRole:   getString("REVIEWER_ROLE", "reviewer"),
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(os.Getenv("KAFKA_BROKERS")),
			ReviewTopic: getString("KAFKA_REVIEW_TOPIC", "certificate-reviews"),
			ClientID:    getString("KAFKA_CLIENT_ID", "certhub"),
		},
	}

	cfg.StrictCompleteness = getBool("STRICT_COMPLETENESS", false, &errs)
	cfg.ReviewLockTTL = getDuration("REVIEW_LOCK_TTL", 30*time.Second, &errs)
	cfg.RateLimitWrites = getInt("RATE_LIMIT_WRITES_PER_MINUTE", 120, &errs)
	cfg.RateLimitDisabled = getBool("RATE_LIMIT_DISABLED", false, &errs)
	cfg.Redis.PoolSize = getInt("REDIS_POOL_SIZE", 10, &errs)
	cfg.Redis.MinIdleConns = getInt("REDIS_MIN_IDLE_CONNS", 2, &errs)
	cfg.Redis.DialTimeout = getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second, &errs)
	cfg.Redis.ReadTimeout = getDuration("REDIS_READ_TIMEOUT", 3*time.Second, &errs)
	cfg.Redis.WriteTimeout = getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second, &errs)

	if err := errors.Join(errs...); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// UsesDevSigningKey reports whether the built-in development key is active.
func (s Server) UsesDevSigningKey() bool {
	return s.JWTSigningKey == devSigningKey
}

// RelayEnabled reports whether the outbox relay has both a database and
// brokers to work with.
func (s Server) RelayEnabled() bool {
	return s.DatabaseURL != "" && len(s.Kafka.Brokers) > 0
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool, errs *[]error) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

func getInt(key string, fallback int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
