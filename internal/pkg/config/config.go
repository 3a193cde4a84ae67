package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backend names accepted by STORAGE_BACKEND.
const (
	BackendAuto     = "auto"
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	Storage  StorageConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
}

type StorageConfig struct {
	// Backend is auto, memory, mongo or postgres. auto picks the first
	// external store whose URL is set, else memory.
	Backend   string `env:"STORAGE_BACKEND,   default=auto"`
	Selection string `env:"STORAGE_SELECTION, default=pinned"`
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URL"`
	Database string `env:"MONGO_DB, default=campus_portal"`
}

type PostgresConfig struct {
	DSN string `env:"DATABASE_URL"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ResolveBackend turns the configured backend into a concrete one, applying
// the auto rule.
func (c *Config) ResolveBackend() string {
	switch c.Storage.Backend {
	case BackendMemory, BackendMongo, BackendPostgres:
		return c.Storage.Backend
	}
	switch {
	case c.Mongo.URI != "":
		return BackendMongo
	case c.Postgres.DSN != "":
		return BackendPostgres
	default:
		return BackendMemory
	}
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendAuto, BackendMemory:
	case BackendMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("STORAGE_BACKEND=mongo requires MONGODB_URL")
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("STORAGE_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for process entry points.
func MustLoad(ctx context.Context) *Config {
	cfg, err := Load(ctx)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
