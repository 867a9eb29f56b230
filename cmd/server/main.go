package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/identra/identity-service/internal/api"
	"github.com/identra/identity-service/internal/core/ports"
	"github.com/identra/identity-service/internal/core/service"
	"github.com/identra/identity-service/internal/infrastructure/config"
	"github.com/identra/identity-service/internal/infrastructure/db/memory"
	"github.com/identra/identity-service/internal/infrastructure/db/mongo"
	"github.com/identra/identity-service/internal/infrastructure/db/redis"
	"github.com/identra/identity-service/internal/pkg/hash"
	"github.com/identra/identity-service/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	var (
		users   ports.UserRepository
		mongoDB *gomongo.Database
	)
	switch cfg.UserStore {
	case "mongo":
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		repo := mongo.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		users = repo
		mongoDB = db
	default:
		users = memory.NewUserRepository()
	}

	var (
		sessionStore ports.SessionStore
		redisClient  *goredis.Client
	)
	switch cfg.SessionStore {
	case "redis":
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		sessionStore = redis.NewSessionStore(client)
		redisClient = client
	default:
		store := memory.NewSessionStore()
		store.Sweep(ctx, cfg.SweepInterval)
		sessionStore = store
	}

	hasher := hash.NewBcrypt(0)
	authService := service.NewAuthService(users, hasher)
	registrationService := service.NewRegistrationService(users, hasher)
	sessionService := service.NewSessionService(sessionStore, users, cfg.SessionTTL, cfg.RememberMeTTL)

	e := api.NewRouter(api.Dependencies{
		Auth:          authService,
		Registrations: registrationService,
		Sessions:      sessionService,
		Mongo:         mongoDB,
		Redis:         redisClient,
		Log:           log,
		RememberMeTTL: cfg.RememberMeTTL,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("user_store", cfg.UserStore).
			Str("session_store", cfg.SessionStore).
			Msg("starting identity service")
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("shutting down")
	return e.Shutdown(shutdownCtx)
}
