package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a resume from the corpus",
	Long:  "Tombstones the resume's metadata record and invalidates its vector so it never appears in future matches.",
	RunE:  runDelete,
}

var deleteResumeID string

func init() {
	deleteCmd.Flags().StringVar(&deleteResumeID, "id", "", "Resume ID to delete (required)")

	if err := deleteCmd.MarkFlagRequired("id"); err != nil {
		panic(fmt.Sprintf("failed to mark id flag as required: %v", err))
	}

	rootCmd.AddCommand(deleteCmd)
}

func runDelete(_ *cobra.Command, _ []string) error {
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

	if err := e.Delete(ctx, deleteResumeID); err != nil {
		return err
	}
	if err := e.Persist(ctx); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Deleted resume %s\n", deleteResumeID)
	return nil
}
