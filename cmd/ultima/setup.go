package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/ultima-end/internal/config"
	"github.com/KirkDiggler/ultima-end/internal/errors"
	"github.com/KirkDiggler/ultima-end/internal/handlers/console"
	"github.com/KirkDiggler/ultima-end/internal/narration"
	"github.com/KirkDiggler/ultima-end/internal/orchestrators/command"
	"github.com/KirkDiggler/ultima-end/internal/pkg/clock"
	"github.com/KirkDiggler/ultima-end/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/ultima-end/internal/redis"
	"github.com/KirkDiggler/ultima-end/internal/repositories/gamestate"
)

var (
	flagDebug      bool
	flagStorage    string
	flagSaveDir    string
	flagSlot       string
	flagRedisAddr  string
	flagSQLitePath string
	flagAssetsDir  string
	flagDotenv     string
)

// loadConfig reads the dotenv file and the environment, then applies any
// flags given on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagDotenv)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = flagDebug
	}
	if flags.Changed("storage") {
		cfg.Storage = flagStorage
	}
	if flags.Changed("save-dir") {
		cfg.SaveDir = flagSaveDir
	}
	if flags.Changed("slot") {
		cfg.SaveSlot = flagSlot
	}
	if flags.Changed("redis-addr") {
		cfg.RedisAddr = flagRedisAddr
	}
	if flags.Changed("sqlite-path") {
		cfg.SQLitePath = flagSQLitePath
	}
	if flags.Changed("assets") {
		cfg.AssetsDir = flagAssetsDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// setupLogging sends structured logs to stderr so they stay out of the game text
func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// openRepository builds the configured save backend. The returned func
// releases its connections.
func openRepository(ctx context.Context, cfg *config.Config) (gamestate.Repository, func(), error) {
	clk := clock.New()

	switch cfg.Storage {
	case config.StorageRedis:
		client, err := redisclient.NewClient(cfg.RedisAddr, cfg.RedisOptions())
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to create redis client")
		}
		repo, err := gamestate.NewRedisRepository(&gamestate.RedisConfig{
			Client: client,
			Clock:  clk,
		})
		if err != nil {
			_ = client.Close() // nolint:errcheck
			return nil, nil, err
		}
		return repo, func() { _ = client.Close() }, nil

	case config.StorageSQLite:
		repo, err := gamestate.NewSQLiteRepository(ctx, &gamestate.SQLiteConfig{
			Path:  cfg.SQLitePath,
			Clock: clk,
		})
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil

	default:
		repo, err := gamestate.NewFileRepository(&gamestate.FileConfig{
			Dir:   cfg.SaveDir,
			Clock: clk,
		})
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}
}

// newHandler wires a console handler on stdin and stdout
func newHandler(cfg *config.Config, repo gamestate.Repository) (*console.Handler, error) {
	terminal := console.NewTerminal(os.Stdin, os.Stdout)
	narrator := narration.NewWriter(os.Stdout)

	bus := events.NewBus()
	narration.Subscribe(bus, narrator)

	commands, err := command.NewOrchestrator(&command.Config{
		Roller:   dice.DefaultRoller,
		EventBus: bus,
		Prompter: terminal,
		Narrator: narrator,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create command orchestrator")
	}

	return console.NewHandler(&console.Config{
		Terminal:    terminal,
		Narrator:    narrator,
		Commands:    commands,
		Repository:  repo,
		Roller:      dice.DefaultRoller,
		IDGenerator: idgen.NewUUID("session"),
		Slot:        cfg.SaveSlot,
		AssetsDir:   cfg.AssetsDir,
		Settings:    cfg.Game(),
	})
}
