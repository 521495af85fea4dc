package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a session on the console",
	Long:  `Load the save slot, or start a fresh game from the assets catalog, and open the main menu.`,
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	handler, err := newHandler(cfg, repo)
	if err != nil {
		return err
	}

	slog.Debug("Starting session",
		"storage", cfg.Storage,
		"slot", cfg.SaveSlot,
		"assets_dir", cfg.AssetsDir)

	return handler.Run(ctx)
}
