package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/observability"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show index and storage state",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(_ *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx := context.Background()
	e, cleanup, err := openEngine(ctx, settings)
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := e.Stats(ctx)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintEngineStats(stats)
	return nil
}
