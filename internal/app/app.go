package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/api"
	"github.com/ayo6706/brokerage-admin/internal/api/handler"
	"github.com/ayo6706/brokerage-admin/internal/api/middleware"
	"github.com/ayo6706/brokerage-admin/internal/config"
	"github.com/ayo6706/brokerage-admin/internal/db"
	"github.com/ayo6706/brokerage-admin/internal/idempotency"
	"github.com/ayo6706/brokerage-admin/internal/latency"
	"github.com/ayo6706/brokerage-admin/internal/mockdata"
	"github.com/ayo6706/brokerage-admin/internal/observability"
	"github.com/ayo6706/brokerage-admin/internal/repository"
	"github.com/ayo6706/brokerage-admin/internal/service"
	"github.com/ayo6706/brokerage-admin/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Run bootstraps the HTTP server and background workers, blocking until
// shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := map[string]handler.Check{}
	store, closeStore, err := openStore(ctx, cfg, logger, checks)
	if err != nil {
		return err
	}
	defer closeStore()

	var idemStore *idempotency.Store
	if cfg.RedisURL != "" {
		redisClient, err := newRedisClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close()
		idemStore = idempotency.NewStore(redisClient, cfg.IdempotencyTTL)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		idemStore = idempotency.NewMemoryStore(cfg.IdempotencyTTL)
	}
	logger.Info("idempotency store ready", zap.String("backend", idemStore.Backend()))

	services := service.New(store, service.Options{
		Latency: latency.NewRandom(cfg.LatencyMin, cfg.LatencyMax, cfg.LatencyFailureRate, 0),
		Logger:  logger,
	})

	queueWorker := worker.NewQueueWorker(services.Stats, logger).WithPollInterval(cfg.StatsInterval)
	stopQueues := queueWorker.Run(ctx)
	referenceWorker := worker.NewReferenceWorker(services.References, logger).WithInterval(cfg.ReferenceCheckInterval)
	stopReferences := referenceWorker.Run(ctx)
	logger.Info("workers started",
		zap.Duration("stats_interval", cfg.StatsInterval),
		zap.Duration("reference_interval", cfg.ReferenceCheckInterval))

	auth := middleware.NewAuthenticator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	router := api.NewRouter(cfg, logger, services, auth, idemStore, checks)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("port", cfg.HTTPPort), zap.Bool("postgres", cfg.UsesPostgres()))
		serverErr <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("stopping workers")
	stopQueues()
	stopReferences()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}

// openStore builds the record store. Without DATABASE_URL the records live
// in memory and are regenerated on every start; with it they are seeded
// into Postgres once.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, checks map[string]handler.Check) (*repository.Store, func(), error) {
	dataset, err := GenerateDataset(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if !cfg.UsesPostgres() {
		logger.Info("using in-memory records",
			zap.Int("users", len(dataset.Users)),
			zap.Int("transactions", len(dataset.Transactions)),
			zap.Int("kyc_requests", len(dataset.KycRequests)),
			zap.Int("tickets", len(dataset.Tickets)))
		return repository.NewMemoryStore(dataset), func() {}, nil
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	store, err := preparePostgres(ctx, pool, dataset, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	checks["database"] = pool.Ping
	return store, pool.Close, nil
}

func preparePostgres(ctx context.Context, pool *pgxpool.Pool, dataset mockdata.Dataset, logger *zap.Logger) (*repository.Store, error) {
	if err := repository.EnsureSchema(ctx, pool); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	store := repository.NewPostgresStore(pool)
	seeded, err := store.Seed(ctx, dataset)
	if err != nil {
		return nil, fmt.Errorf("seed records: %w", err)
	}
	logger.Info("postgres record store ready", zap.Bool("seeded", seeded))
	return store, nil
}

// GenerateDataset synthesizes the mock records described by cfg. A zero
// MOCK_SEED draws a fresh seed from the clock.
func GenerateDataset(ctx context.Context, cfg *config.Config) (mockdata.Dataset, error) {
	var opts []mockdata.Option
	if cfg.MockSeed != 0 {
		opts = append(opts, mockdata.WithSeed(cfg.MockSeed))
	}
	dataset, err := mockdata.New(opts...).Dataset(ctx, mockdata.Counts{
		Users:        cfg.MockUsers,
		Transactions: cfg.MockTransactions,
		KycRequests:  cfg.MockKycRequests,
		Tickets:      cfg.MockTickets,
	})
	if err != nil {
		return mockdata.Dataset{}, fmt.Errorf("generate mock records: %w", err)
	}
	return dataset, nil
}

// NewLogger builds the production zap logger at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info", "":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return cfg.Build()
}

func newRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
