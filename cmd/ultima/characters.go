package main

import (
	"context"

	"github.com/spf13/cobra"
)

var charactersCmd = &cobra.Command{
	Use:   "characters",
	Short: "List the characters in the save slot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		setupLogging(cfg)

		ctx := context.Background()
		repo, closeRepo, err := openRepository(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeRepo()

		handler, err := newHandler(cfg, repo)
		if err != nil {
			return err
		}

		handler.ShowCharacters(ctx)
		return nil
	},
}
