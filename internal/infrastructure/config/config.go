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

	JWT      JWTConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Seed     SeedConfig
}

type JWTConfig struct {
	Secret   string        `env:"JWT_SECRET"`
	TokenTTL time.Duration `env:"JWT_TOKEN_TTL, default=24h"`
}

type PostgresConfig struct {
	DSN          string `env:"POSTGRES_DSN, default=postgres://localhost:5432/user_portal?sslmode=disable"`
	MaxOpenConns int    `env:"POSTGRES_MAX_OPEN_CONNS, default=10"`
	MaxIdleConns int    `env:"POSTGRES_MAX_IDLE_CONNS, default=5"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// SeedConfig holds the raw default-account passwords hashed into the
// credential cache at startup. The defaults mirror the seed accounts.
type SeedConfig struct {
	AdminPassword string `env:"SEED_ADMIN_PASSWORD, default=admin"`
	UserPassword  string `env:"SEED_USER_PASSWORD,  default=user"`
	TestPassword  string `env:"SEED_TEST_PASSWORD,  default=test"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
