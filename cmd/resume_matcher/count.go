package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of live resumes in the corpus",
	RunE:  runCount,
}

func init() {
	rootCmd.AddCommand(countCmd)
}

func runCount(_ *cobra.Command, _ []string) error {
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

	count, err := e.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%d\n", count)
	return nil
}
