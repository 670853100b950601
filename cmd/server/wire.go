package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/twmb/franz-go/pkg/kgo"

	"certhub/internal/certificate/handler"
	certmetrics "certhub/internal/certificate/metrics"
	"certhub/internal/certificate/outbox"
	"certhub/internal/certificate/service"
	certstore "certhub/internal/certificate/store/certificate"
	"certhub/internal/certificate/store/lock"
	reviewstore "certhub/internal/certificate/store/review"
	"certhub/internal/platform/config"
	"certhub/internal/platform/kafka"
	"certhub/internal/platform/kafka/producer"
	"certhub/internal/platform/metrics"
	"certhub/internal/platform/postgres"
	"certhub/internal/platform/ratelimit"
	"certhub/internal/platform/redis"
	"certhub/migrations"
	"certhub/pkg/platform/audit"
	"certhub/pkg/platform/audit/publishers/compliance"
	"certhub/pkg/platform/audit/publishers/ops"
	auditmemory "certhub/pkg/platform/audit/store/memory"
	auditpostgres "certhub/pkg/platform/audit/store/postgres"
	"certhub/pkg/platform/audit/worker"
	"certhub/pkg/platform/httputil"
	"certhub/pkg/platform/middleware/auth"
	"certhub/pkg/platform/middleware/metadata"
	"certhub/pkg/platform/middleware/request"
	"certhub/pkg/platform/middleware/requesttime"
	"certhub/pkg/platform/tx"
)

const auditBufferSize = 1024

type application struct {
	router      http.Handler
	auditWorker *worker.Worker
	relay       *outbox.Relay

	db       *sqlx.DB
	redis    *redis.Client
	kafka    *kgo.Client
	producer *producer.Producer
}

// build assembles stores, the certificate service and the HTTP router.
// Without DATABASE_URL everything runs in memory; without REDIS_URL the review
// lock is process-local; without KAFKA_BROKERS outbox rows accumulate unsent.
func build(ctx context.Context, cfg config.Server, log *slog.Logger) (*application, error) {
	app := &application{}

	var (
		certificates service.CertificateStore
		reviews      service.ReviewStore
		auditStore   audit.Store
		opts         []service.Option
	)

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.DefaultOptions())
		if err != nil {
			return nil, err
		}
		app.db = db
		applied, err := migrations.Apply(ctx, db)
		if err != nil {
			app.close(log)
			return nil, err
		}
		if len(applied) > 0 {
			log.Info("applied database migrations", "migrations", applied)
		}
		certificates = certstore.NewPostgres(db)
		reviews = reviewstore.NewPostgres(db)
		auditStore = auditpostgres.New(db)
		opts = append(opts, service.WithTx(tx.NewPostgresRunner(db)))
	} else {
		log.Warn("DATABASE_URL not set; certificates are held in memory")
		certificates = certstore.NewInMemory()
		reviews = reviewstore.NewInMemory()
		auditStore = auditmemory.NewInMemoryStore()
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		app.close(log)
		return nil, err
	}
	if redisClient != nil {
		app.redis = redisClient
		opts = append(opts, service.WithReviewLocker(lock.NewRedis(redisClient.Client, lock.WithTTL(cfg.ReviewLockTTL))))
	}

	app.auditWorker = worker.NewWorker(auditStore, auditBufferSize, log)
	opts = append(opts,
		service.WithLogger(log),
		service.WithMetrics(certmetrics.New()),
		service.WithStrictSubmission(cfg.StrictCompleteness),
		service.WithReviewAuthorizer(service.RoleAuthorizer(cfg.ReviewerRole)),
		service.WithComplianceAuditor(compliance.New(auditStore,
			compliance.WithLogger(log),
			compliance.WithMetrics(compliance.NewMetrics()),
		)),
		service.WithOpsTracker(ops.NewTracker(app.auditWorker,
			ops.WithLogger(log),
			ops.WithMetrics(ops.NewMetrics()),
		)),
	)
	svc := service.New(certificates, reviews, opts...)

	if cfg.RelayEnabled() {
		if err := app.startKafka(ctx, cfg, log); err != nil {
			app.close(log)
			return nil, err
		}
	} else if len(cfg.Kafka.Brokers) > 0 {
		log.Warn("KAFKA_BROKERS set without DATABASE_URL; outbox relay disabled")
	}

	var limitStore ratelimit.Store = ratelimit.NewInMemoryStore()
	if app.redis != nil {
		limitStore = ratelimit.NewRedisStore(app.redis.Client)
	}
	limiter := ratelimit.New(limitStore, cfg.RateLimitWrites, log, ratelimit.WithDisabled(cfg.RateLimitDisabled))

	app.router = newRouter(cfg, log, handler.New(svc, log), limiter, app.health)
	return app, nil
}

func (a *application) startKafka(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	client, err := kafka.NewClient(kafka.Config{Brokers: cfg.Kafka.Brokers, ClientID: cfg.Kafka.ClientID})
	if err != nil {
		return err
	}
	a.kafka = client
	if err := kafka.EnsureTopic(ctx, client, cfg.Kafka.ReviewTopic, 3, 1); err != nil {
		return fmt.Errorf("ensure review topic: %w", err)
	}
	a.producer = producer.New(client)
	a.relay = outbox.New(a.db, a.producer, cfg.Kafka.ReviewTopic,
		outbox.WithLogger(log),
		outbox.WithMetrics(outbox.NewMetrics()),
	)
	return nil
}

func newRouter(cfg config.Server, log *slog.Logger, certificates *handler.Handler, limiter *ratelimit.Middleware, health http.HandlerFunc) http.Handler {
	httpMetrics := metrics.New()
	validator := auth.NewHS256Validator(cfg.JWTSigningKey, cfg.JWTIssuer)

	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(request.Logger(log))
	r.Use(httpMetrics.Instrument)

	r.Get("/healthz", health)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(requesttime.Middleware)
		r.Use(metadata.ClientMetadata)
		r.Use(auth.RequireAuth(validator, log))
		r.Use(limiter.Writes)
		certificates.Register(r)
	})
	return r
}

// health reports the state of each configured backing service.
func (a *application) health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checks := map[string]string{}
	status := http.StatusOK
	record := func(name string, err error) {
		if err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			return
		}
		checks[name] = "ok"
	}
	if a.db != nil {
		record("postgres", a.db.PingContext(ctx))
	}
	if a.redis != nil {
		record("redis", a.redis.Health(ctx))
	}
	if a.kafka != nil {
		record("kafka", a.kafka.Ping(ctx))
	}
	httputil.WriteJSON(w, status, map[string]any{
		"checks":        checks,
		"audit_pending": a.auditWorker.Pending(),
	})
}

func (a *application) close(log *slog.Logger) {
	if a.producer != nil {
		if err := a.producer.Close(context.Background()); err != nil {
			log.Warn("failed to flush kafka producer", "error", err)
		}
	} else if a.kafka != nil {
		a.kafka.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn("failed to close redis", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Warn("failed to close database", "error", err)
		}
	}
}
