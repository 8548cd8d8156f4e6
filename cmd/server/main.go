package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/splitledger/internal/adapter/http"
	"github.com/iho/splitledger/internal/adapter/http/handler"
	"github.com/iho/splitledger/internal/adapter/http/middleware"
	"github.com/iho/splitledger/internal/adapter/lock"
	postgresRepo "github.com/iho/splitledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/splitledger/internal/adapter/repository/redis"
	"github.com/iho/splitledger/internal/engine"
	"github.com/iho/splitledger/internal/infrastructure/config"
	"github.com/iho/splitledger/internal/infrastructure/eventpublisher"
	"github.com/iho/splitledger/internal/infrastructure/logger"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
	"github.com/iho/splitledger/internal/infrastructure/postgres"
	"github.com/iho/splitledger/internal/infrastructure/redis"
	"github.com/iho/splitledger/internal/usecase"
)

// housekeepingInterval is how often rate limiters and delivered outbox rows
// are pruned.
const housekeepingInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.MigrationsAuto {
		if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, redis.Options{URL: cfg.RedisURL, PoolSize: cfg.RedisPoolSize})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()
	clock := engine.ClockFunc(time.Now)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize repositories
	groupRepo := postgresRepo.NewGroupRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool, idGen, clock)
	settlementRepo := postgresRepo.NewSettlementRepository(pool, outboxRepo, postgresRepo.NewRetrier(postgresRepo.DefaultRetryPolicy(), log))
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	groupUC := usecase.NewGroupUseCase(groupRepo, idGen, clock, log)
	expenseUC := usecase.NewExpenseUseCase(groupRepo, expenseRepo, idGen, clock, m, log)
	balanceUC := usecase.NewBalanceUseCase(groupRepo, expenseRepo, m, log)
	settlementUC := usecase.NewSettlementUseCase(usecase.SettlementDeps{
		Balances: balanceUC,
		Groups:   groupRepo,
		Store:    settlementRepo,
		Locker:   newLocker(cfg, redisClient, log),
		Planner:  engine.NewPlanner(cfg.Epsilon()),
		IDGen:    idGen,
		Clock:    clock,
		Metrics:  m,
		Logger:   log,
	})

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		GroupHandler:      handler.NewGroupHandler(groupUC),
		ExpenseHandler:    handler.NewExpenseHandler(expenseUC),
		BalanceHandler:    handler.NewBalanceHandler(balanceUC),
		SettlementHandler: handler.NewSettlementHandler(settlementUC),
		HealthHandler:     handler.NewHealthHandler(pool, handler.RedisPinger(redisClient)),
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		RateLimiter:       rateLimiter,
		Metrics:           m,
		MetricsHandler:    promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}),
		Logger:            log,
	})

	relay := eventpublisher.NewEventPublisher(eventpublisher.Config{
		Outbox:    outboxRepo,
		Publisher: newPublisher(cfg, redisClient, log),
		Metrics:   m,
		Logger:    log,
		BatchSize: cfg.OutboxBatchSize,
		Interval:  cfg.OutboxInterval,
	})

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	go func() {
		if err := relay.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("outbox relay stopped")
		}
	}()
	go housekeeping(workerCtx, rateLimiter, outboxRepo, log)

	server := &http.Server{
		Addr:         serverAddr(cfg),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

// newLocker picks the settlement lock backend. The local backend only
// serializes settlements within this process.
func newLocker(cfg *config.Config, client goredis.UniversalClient, log zerolog.Logger) usecase.Locker {
	if cfg.LockBackend == config.LockBackendLocal {
		log.Warn().Msg("using in-process settlement locks; run a single instance")
		return lock.NewLocal()
	}

	opts := redisRepo.DefaultLockOptions()
	if cfg.LockExpiry > 0 {
		opts.Expiry = cfg.LockExpiry
	}
	return redisRepo.NewLocker(client, opts, log)
}

// newPublisher picks where the outbox relay delivers notifications.
func newPublisher(cfg *config.Config, client goredis.UniversalClient, log zerolog.Logger) eventpublisher.Publisher {
	if cfg.NotificationPublisher == config.PublisherLog {
		return eventpublisher.NewLogPublisher(log)
	}
	return redisRepo.NewPublisher(client, cfg.NotificationChannel)
}

func serverAddr(cfg *config.Config) string {
	return fmt.Sprintf(":%s", cfg.HTTPPort)
}

type outboxPruner interface {
	DeletePublished(ctx context.Context, before time.Time) error
}

func housekeeping(ctx context.Context, rl *middleware.RateLimiter, outbox outboxPruner, log zerolog.Logger) {
	ticker := time.NewTicker(housekeepingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.CleanupLimiters()
			if err := outbox.DeletePublished(ctx, now.Add(-24*time.Hour)); err != nil {
				log.Error().Err(err).Msg("failed to prune outbox")
			}
		}
	}
}
