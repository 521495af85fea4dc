// Package main is the entry point for the Ultima End console game
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/ultima-end/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "ultima",
	Short: "Ultima End text combat game",
	Long: `Ultima End is a turn-based text combat game. Pick or create a character,
then fight a rotating roster of enemies from the console. Progress is saved
after every command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&flagDebug, "debug", "d", false, "enable debug logging")
	flags.StringVar(&flagStorage, "storage", "", "save backend: file, redis or sqlite")
	flags.StringVar(&flagSaveDir, "save-dir", "", "directory for file saves")
	flags.StringVar(&flagSlot, "slot", "", "save slot name")
	flags.StringVar(&flagRedisAddr, "redis-addr", "", "redis address for the redis backend")
	flags.StringVar(&flagSQLitePath, "sqlite-path", "", "database path for the sqlite backend")
	flags.StringVar(&flagAssetsDir, "assets", "", "directory holding entities.json, items.json and skills.json")
	flags.StringVar(&flagDotenv, "env-file", config.DefaultDotenv, "dotenv file read before the environment")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(charactersCmd)

	// bare "ultima" plays
	rootCmd.RunE = runPlay
}
