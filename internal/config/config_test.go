package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/ultima-end/internal/config"
	"github.com/KirkDiggler/ultima-end/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

// unset clears key for the rest of the test and restores it afterwards
func (s *ConfigTestSuite) unset(key string) {
	s.T().Setenv(key, "")
	s.Require().NoError(os.Unsetenv(key))
}

func (s *ConfigTestSuite) SetupTest() {
	for _, key := range []string{
		"ULTIMA_DEBUG", "ULTIMA_STORAGE", "ULTIMA_SAVE_DIR", "ULTIMA_SAVE_SLOT",
		"ULTIMA_REDIS_ADDR", "ULTIMA_SQLITE_PATH", "ULTIMA_ASSETS_DIR",
		"ULTIMA_SPAWN_LIMIT", "ULTIMA_DROP_RATE", "ULTIMA_REDIS_DB",
		"ULTIMA_REDIS_POOL_SIZE", "ULTIMA_REDIS_MAX_RETRIES", "ULTIMA_REDIS_TIMEOUT",
	} {
		s.unset(key)
	}
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := config.Load("")
	s.Require().NoError(err)

	s.Equal(config.Config{
		Storage:    config.StorageFile,
		SaveDir:    ".",
		SaveSlot:   "savegame",
		RedisAddr:  "localhost:6379",
		SQLitePath: "ultima.db",
		AssetsDir:  "assets",
		SpawnLimit: 10,
		DropRate:   0.5,

		RedisPoolSize:   4,
		RedisMaxRetries: 3,
		RedisTimeout:    5 * time.Second,
	}, *cfg)
	s.NoError(cfg.Validate())

	gameCfg := cfg.Game()
	s.Equal(10, gameCfg.SpawnLimit)
	s.Equal(0.5, gameCfg.DropRate)
}

func (s *ConfigTestSuite) TestEnvironment() {
	s.T().Setenv("ULTIMA_DEBUG", "true")
	s.T().Setenv("ULTIMA_STORAGE", "redis")
	s.T().Setenv("ULTIMA_REDIS_ADDR", "cache:6380")
	s.T().Setenv("ULTIMA_SPAWN_LIMIT", "4")
	s.T().Setenv("ULTIMA_DROP_RATE", "0.25")
	s.T().Setenv("ULTIMA_REDIS_DB", "2")
	s.T().Setenv("ULTIMA_REDIS_POOL_SIZE", "8")
	s.T().Setenv("ULTIMA_REDIS_TIMEOUT", "750ms")

	cfg, err := config.Load("")
	s.Require().NoError(err)

	s.True(cfg.Debug)
	s.Equal(config.StorageRedis, cfg.Storage)
	s.Equal("cache:6380", cfg.RedisAddr)
	s.Equal(4, cfg.SpawnLimit)
	s.Equal(0.25, cfg.DropRate)

	opts := cfg.RedisOptions()
	s.Equal(2, opts.DB)
	s.Equal(8, opts.PoolSize)
	s.Equal(3, opts.MaxRetries)
	s.Equal(750*time.Millisecond, opts.DialTimeout)
	s.Equal(750*time.Millisecond, opts.ReadTimeout)
	s.Equal(750*time.Millisecond, opts.WriteTimeout)
}

func (s *ConfigTestSuite) TestDotenvDoesNotOverrideEnvironment() {
	path := filepath.Join(s.T().TempDir(), ".env")
	s.Require().NoError(os.WriteFile(path, []byte(
		"ULTIMA_SAVE_SLOT=from_file\nULTIMA_STORAGE=sqlite\n",
	), 0o600))
	s.T().Setenv("ULTIMA_STORAGE", "file")

	cfg, err := config.Load(path)
	s.Require().NoError(err)

	s.Equal("from_file", cfg.SaveSlot)
	s.Equal(config.StorageFile, cfg.Storage)
}

func (s *ConfigTestSuite) TestMissingDotenvIsIgnored() {
	cfg, err := config.Load(filepath.Join(s.T().TempDir(), "missing.env"))
	s.Require().NoError(err)
	s.Equal("savegame", cfg.SaveSlot)
}

func (s *ConfigTestSuite) TestMalformedEnvironment() {
	s.T().Setenv("ULTIMA_SPAWN_LIMIT", "lots")

	_, err := config.Load("")
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ConfigTestSuite) TestValidate() {
	valid := func() *config.Config {
		cfg, err := config.Load("")
		s.Require().NoError(err)
		return cfg
	}

	testCases := []struct {
		name   string
		modify func(*config.Config)
		field  string
	}{
		{"unknown storage", func(c *config.Config) { c.Storage = "postgres" }, "Storage"},
		{"blank slot", func(c *config.Config) { c.SaveSlot = " " }, "SaveSlot"},
		{"redis without address", func(c *config.Config) {
			c.Storage = config.StorageRedis
			c.RedisAddr = ""
		}, "RedisAddr"},
		{"sqlite without path", func(c *config.Config) {
			c.Storage = config.StorageSQLite
			c.SQLitePath = ""
		}, "SQLitePath"},
		{"zero spawn limit", func(c *config.Config) { c.SpawnLimit = 0 }, "SpawnLimit"},
		{"drop rate above one", func(c *config.Config) { c.DropRate = 1.5 }, "DropRate"},
		{"redis negative db", func(c *config.Config) {
			c.Storage = config.StorageRedis
			c.RedisDB = -1
		}, "RedisDB"},
		{"redis zero timeout", func(c *config.Config) {
			c.Storage = config.StorageRedis
			c.RedisTimeout = 0
		}, "RedisTimeout"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			cfg := valid()
			tc.modify(cfg)

			err := cfg.Validate()
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
			s.Contains(err.Error(), tc.field)
		})
	}

	// the unused backend's settings are not checked
	cfg := valid()
	cfg.RedisAddr = ""
	cfg.SQLitePath = ""
	s.NoError(cfg.Validate())
}
