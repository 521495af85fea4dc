// Package config loads runtime settings from the environment and an optional
// .env file
package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/KirkDiggler/ultima-end/internal/errors"
	"github.com/KirkDiggler/ultima-end/internal/game"
	redisclient "github.com/KirkDiggler/ultima-end/internal/redis"
)

// Storage backends for save slots
const (
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// DefaultDotenv is the .env file read when present
const DefaultDotenv = ".env"

// Config is the full runtime configuration. Command-line flags are applied on
// top of it by the CLI.
type Config struct {
	Debug      bool    `env:"ULTIMA_DEBUG"`
	Storage    string  `env:"ULTIMA_STORAGE"     envDefault:"file"`
	SaveDir    string  `env:"ULTIMA_SAVE_DIR"    envDefault:"."`
	SaveSlot   string  `env:"ULTIMA_SAVE_SLOT"   envDefault:"savegame"`
	RedisAddr  string  `env:"ULTIMA_REDIS_ADDR"  envDefault:"localhost:6379"`
	SQLitePath string  `env:"ULTIMA_SQLITE_PATH" envDefault:"ultima.db"`
	AssetsDir  string  `env:"ULTIMA_ASSETS_DIR"  envDefault:"assets"`
	SpawnLimit int     `env:"ULTIMA_SPAWN_LIMIT" envDefault:"10"`
	DropRate   float64 `env:"ULTIMA_DROP_RATE"   envDefault:"0.5"`

	// Redis client tuning. RedisTimeout bounds dialing and each read and write.
	RedisDB         int           `env:"ULTIMA_REDIS_DB"          envDefault:"0"`
	RedisPoolSize   int           `env:"ULTIMA_REDIS_POOL_SIZE"   envDefault:"4"`
	RedisMaxRetries int           `env:"ULTIMA_REDIS_MAX_RETRIES" envDefault:"3"`
	RedisTimeout    time.Duration `env:"ULTIMA_REDIS_TIMEOUT"     envDefault:"5s"`
}

// Load reads dotenv (when the file exists) into the process environment
// without overriding variables that are already set, then parses Config from
// the environment. An empty dotenv path skips the file.
func Load(dotenv string) (*Config, error) {
	if dotenv != "" {
		if _, err := os.Stat(dotenv); err == nil {
			if err := godotenv.Load(dotenv); err != nil {
				return nil, errors.Wrapf(err, "failed to load %s", dotenv)
			}
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}

	return &cfg, nil
}

// Validate checks the settings that do not depend on the chosen backend, plus
// the connection setting of the one that is
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("Storage", c.Storage, []string{StorageFile, StorageRedis, StorageSQLite}, vb)
	errors.ValidateRequired("SaveSlot", c.SaveSlot, vb)
	errors.ValidateRequired("AssetsDir", c.AssetsDir, vb)

	switch c.Storage {
	case StorageFile:
		errors.ValidateRequired("SaveDir", c.SaveDir, vb)
	case StorageRedis:
		errors.ValidateRequired("RedisAddr", c.RedisAddr, vb)
		if c.RedisDB < 0 {
			vb.Fieldf("RedisDB", "must not be negative, got %d", c.RedisDB)
		}
		if c.RedisPoolSize < 1 {
			vb.Fieldf("RedisPoolSize", "must be at least 1, got %d", c.RedisPoolSize)
		}
		if c.RedisTimeout <= 0 {
			vb.Fieldf("RedisTimeout", "must be positive, got %s", c.RedisTimeout)
		}
	case StorageSQLite:
		errors.ValidateRequired("SQLitePath", c.SQLitePath, vb)
	}

	if c.SpawnLimit < 1 {
		vb.Fieldf("SpawnLimit", "must be at least 1, got %d", c.SpawnLimit)
	}
	if c.DropRate < 0 || c.DropRate > 1 {
		vb.Fieldf("DropRate", "must be between 0 and 1, got %g", c.DropRate)
	}

	return vb.Build()
}

// Game returns the runtime settings for game states
func (c *Config) Game() *game.Config {
	return &game.Config{
		SpawnLimit: c.SpawnLimit,
		DropRate:   c.DropRate,
	}
}

// RedisOptions returns the client options for the redis backend
func (c *Config) RedisOptions() *redisclient.Options {
	return &redisclient.Options{
		DB:           c.RedisDB,
		PoolSize:     c.RedisPoolSize,
		MaxRetries:   c.RedisMaxRetries,
		DialTimeout:  c.RedisTimeout,
		ReadTimeout:  c.RedisTimeout,
		WriteTimeout: c.RedisTimeout,
	}
}
