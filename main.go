package main

import (
	"log/slog"
	"os"

	"github.com/listr-birding/listr/cmd"
	"github.com/listr-birding/listr/internal/conf"
	"github.com/listr-birding/listr/internal/logging"
)

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		logging.Fatal("Error loading settings", "error", err)
	}

	if settings.Debug {
		logging.SetLevel(slog.LevelDebug)
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
