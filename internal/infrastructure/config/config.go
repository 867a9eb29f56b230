package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// UserStore selects the credential store backend: memory or mongo.
	UserStore string `env:"USER_STORE,    default=memory"`
	// SessionStore selects the session backend: memory or redis.
	SessionStore string `env:"SESSION_STORE, default=memory"`

	// SessionTTL bounds a plain (non remember-me) session.
	SessionTTL time.Duration `env:"SESSION_TTL,      default=30m"`
	// RememberMeTTL bounds a persistent remember-me session. The demo
	// default is deliberately short; production deployments raise it.
	RememberMeTTL time.Duration `env:"REMEMBER_ME_TTL,  default=120s"`
	// SweepInterval drives the in-memory session store's expiry sweep.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL,   default=1m"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
