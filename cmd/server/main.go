package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	licensecache "licensehub/internal/license/cache"
	licensehandler "licensehub/internal/license/handler"
	licensemetrics "licensehub/internal/license/metrics"
	licenseservice "licensehub/internal/license/service"
	licensestore "licensehub/internal/license/store/license"
	seatstore "licensehub/internal/license/store/seat"
	"licensehub/internal/platform/config"
	"licensehub/internal/platform/httpserver"
	"licensehub/internal/platform/logger"
	"licensehub/internal/platform/metrics"
	"licensehub/internal/platform/middleware"
	"licensehub/internal/platform/postgres"
	"licensehub/internal/platform/redis"
	"licensehub/internal/ratelimit"
	audit "licensehub/pkg/platform/audit"
	"licensehub/pkg/platform/audit/kafka"
	"licensehub/pkg/platform/audit/publishers/compliance"
	auditmemory "licensehub/pkg/platform/audit/store/memory"
	auditpg "licensehub/pkg/platform/audit/store/postgres"
	"licensehub/pkg/platform/audit/worker"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("licensehub stopped", "error", err)
		os.Exit(1)
	}
}

// storage bundles the backend chosen by configuration.
type storage struct {
	licenses licenseservice.LicenseStore
	seats    licenseservice.SeatStore
	audit    audit.Store
	trail    licenseservice.AuditTrail
	outbox   audit.Outbox
	tx       licenseservice.LicenseTx
	db       *sql.DB
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.New(reg)
	licenseMetrics := licensemetrics.New(reg)
	auditMetrics := compliance.NewMetrics(reg)

	store, err := openStorage(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	if store.db != nil {
		defer store.db.Close()
	}

	opts := []licenseservice.Option{
		licenseservice.WithLogger(log),
		licenseservice.WithMetrics(licenseMetrics),
		licenseservice.WithAuditPublisher(compliance.New(store.audit,
			compliance.WithLogger(log),
			compliance.WithMetrics(auditMetrics),
		)),
	}
	if store.trail != nil {
		opts = append(opts, licenseservice.WithAuditTrail(store.trail))
	}
	if store.tx != nil {
		opts = append(opts, licenseservice.WithTx(store.tx))
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, licenseservice.WithCache(licensecache.New(redisClient.Client, cfg.Redis.ViewTTL,
			licensecache.WithLogger(log),
			licensecache.WithRecorder(licenseMetrics),
		)))
		log.Info("license view cache enabled", "ttl", cfg.Redis.ViewTTL)
	}

	svc := licenseservice.New(store.licenses, store.seats, opts...)

	var limitStore ratelimit.Store = ratelimit.NewInMemory()
	if redisClient != nil {
		limitStore = ratelimit.NewRedis(redisClient.Client)
	}
	limiter := ratelimit.New(limitStore, cfg.RateLimit.Writes, cfg.RateLimit.Window, log,
		ratelimit.WithDisabled(cfg.RateLimit.Disabled),
	)
	validator := middleware.NewTokenValidator(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(httpMetrics))
	r.Handle("/metrics", metrics.Handler(reg))
	r.Get("/health", healthHandler(store.db, redisClient))
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
		r.Use(middleware.ContentTypeJSON)
		licensehandler.New(svc, log, validator).Register(r, limiter.LimitWrites)
	})

	var relay *worker.Worker
	if store.outbox != nil {
		sink, closeSink, err := openSink(ctx, cfg.Kafka, log)
		if err != nil {
			return err
		}
		defer closeSink()
		relay = worker.NewWorker(store.outbox, sink, worker.WithLogger(log))
	}

	srv := httpserver.New(cfg.Server, r, log)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting licensehub", "addr", cfg.Server.Addr, "postgres", store.db != nil)
		return srv.Run(gctx)
	})

	if relay != nil {
		g.Go(func() error {
			if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

func openStorage(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (storage, error) {
	if cfg.URL == "" {
		log.Warn("no database configured, using in-memory stores")
		auditStore := auditmemory.NewInMemoryStore()
		return storage{
			licenses: licensestore.NewInMemory(),
			seats:    seatstore.NewInMemory(),
			audit:    auditStore,
			trail:    auditStore,
		}, nil
	}

	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		return storage{}, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return storage{}, err
	}
	auditStore := auditpg.New(db)
	return storage{
		licenses: licensestore.NewPostgres(db),
		seats:    seatstore.NewPostgres(db),
		audit:    auditStore,
		trail:    auditStore,
		outbox:   auditStore,
		tx:       newLicensePostgresTx(postgres.NewTxRunner(db, cfg.TxTimeout)),
		db:       db,
	}, nil
}

// openSink picks Kafka when brokers are configured and a log sink otherwise.
func openSink(ctx context.Context, cfg config.KafkaConfig, log *slog.Logger) (audit.Sink, func(), error) {
	if len(cfg.Brokers) == 0 {
		log.Info("no kafka brokers configured, audit events are relayed to the log")
		return audit.LogSink{Logger: log}, func() {}, nil
	}
	publisher, err := kafka.NewPublisher(cfg.Brokers, cfg.Topic)
	if err != nil {
		return nil, nil, err
	}
	if err := publisher.EnsureTopic(ctx, 3, 1); err != nil {
		publisher.Close()
		return nil, nil, err
	}
	log.Info("relaying audit events to kafka", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return publisher, publisher.Close, nil
}

func healthHandler(db *sql.DB, cache *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		status := http.StatusOK
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				status = http.StatusServiceUnavailable
			}
		}
		// A cache outage degrades reads but does not make the service unhealthy.
		if cache != nil {
			if err := cache.Health(ctx); err != nil {
				w.Header().Set("X-Cache-Status", "unavailable")
			}
		}
		w.WriteHeader(status)
	}
}
