package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/saam/backend/internal/api"
	"github.com/saam/backend/internal/api/handler"
	"github.com/saam/backend/internal/core/ports"
	"github.com/saam/backend/internal/core/service"
	"github.com/saam/backend/internal/infrastructure/config"
	"github.com/saam/backend/internal/infrastructure/db/memory"
	"github.com/saam/backend/internal/infrastructure/db/mongo"
	"github.com/saam/backend/internal/infrastructure/db/redis"
	"github.com/saam/backend/internal/infrastructure/password"
	"github.com/saam/backend/internal/infrastructure/queue"
	"github.com/saam/backend/internal/infrastructure/token"
	"github.com/saam/backend/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "identity",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	checks := make(map[string]handler.DependencyCheck)

	// --- Credential store ---
	var (
		accounts ports.AccountRepository
		events   ports.AuthEventRepository
	)
	switch cfg.StoreDriver {
	case "memory":
		log.Warn().Msg("using in-memory account store; data is lost on restart")
		accounts = memory.NewAccountRepository()
	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "identity",
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := mongo.Disconnect(client, shutdownTimeout); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}()

		accountRepo := mongo.NewAccountRepository(db)
		if err := accountRepo.EnsureIndexes(ctx); err != nil {
			return err
		}
		eventRepo := mongo.NewAuthEventRepository(db)
		if err := eventRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("auth_events index creation failed")
		}

		accounts, events = accountRepo, eventRepo
		checks["mongodb"] = handler.MongoCheck(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
	}

	// --- Security primitives ---
	hasher, err := password.New(cfg.Password.Algorithm, cfg.Password.BcryptCost, password.Argon2idParams{
		MemoryKiB:   cfg.Password.Argon2MemoryKB,
		Iterations:  cfg.Password.Argon2Time,
		Parallelism: cfg.Password.Argon2Threads,
	})
	if err != nil {
		return err
	}
	tokens := token.NewJWTService(cfg.JWT.Secret, cfg.JWT.TTL, token.WithIssuer(cfg.JWT.Issuer))

	opts := []service.Option{service.WithGenericLoginErrors(cfg.Login.GenericErrors)}

	// --- Login throttling (optional) ---
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func(c *goredis.Client) { _ = c.Close() }(rdb)

		opts = append(opts, service.WithLoginLimiter(
			redis.NewLoginLimiter(rdb, cfg.Login.MaxFailures, cfg.Login.FailureWindow),
		))
		checks["redis"] = handler.RedisCheck(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login throttling enabled")
	}

	// --- Audit trail (mongo only) ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	var dispatcher *queue.Dispatcher
	if cfg.Audit.Enabled && events != nil {
		dispatcher = queue.NewDispatcher(cfg.Audit.Workers, events, log)
		dispatcher.Start(workerCtx)
		opts = append(opts, service.WithAuditRecorder(dispatcher))
	}
	defer func() {
		cancelWorkers()
		if dispatcher != nil {
			dispatcher.Wait()
		}
	}()

	authService := service.NewAuthService(accounts, hasher, tokens, log, opts...)

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		Authorizer:  service.NewAuthorizer(tokens),
		Checks:      checks,
		Log:         log,
		Metrics:     true,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
