package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/PabloUrbano2000/little-lemon-api/configs"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/idempotency"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/logging"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/outbox"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/shutdown"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/throttle"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/tracing"
	"github.com/PabloUrbano2000/little-lemon-api/repository"
	"github.com/PabloUrbano2000/little-lemon-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const serviceName = "little-lemon-api"

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *configs.Config, logger *slog.Logger) error {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	stopTracing, err := tracing.Init(ctx, serviceName, cfg.TracingExporter, cfg.OTLPEndpoint, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		if err := stopTracing(sctx); err != nil {
			logger.Warn("tracing shutdown", "err", err)
		}
	}()

	// DB
	db, err := configs.ConnectionDB(cfg)
	if err != nil {
		return err
	}
	if err := configs.SetupDatabase(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := configs.Seed(db, cfg, logger); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	deps := routes.Deps{DB: db, Config: cfg, Log: logger}

	// Redis backs throttling and idempotency keys; without it throttling is
	// per process and Idempotency-Key is ignored.
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		deps.Limiter = throttle.NewRedisLimiter(rdb, time.Minute)
		deps.Idempotency = idempotency.NewStore(rdb, cfg.IdempotencyTTL)
		logger.Info("redis connected", "addr", cfg.RedisAddr)
	} else {
		deps.Limiter = throttle.NewMemoryLimiter(time.Minute)
	}

	// Order events go through the outbox only when there is a broker to
	// relay them to.
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		outboxRepo := repository.NewOutboxRepository(db)
		deps.Events = outboxRepo

		writer := outbox.NewKafkaWriter(brokers)
		defer writer.Close()
		relay := outbox.NewRelay(logger, outboxRepo, outbox.NewDispatcher(logger, writer, cfg.KafkaTopic))
		go func() {
			if err := relay.Run(ctx); err != nil {
				logger.Error("outbox relay stopped", "err", err)
			}
		}()
		logger.Info("outbox relay started", "brokers", brokers, "topic", cfg.KafkaTopic)
	}

	// HTTP
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer scancel()
	return srv.Shutdown(sctx)
}
