package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest extracted resume text into the index",
	Long:  "Reads a record draft JSON file (or an array of drafts with --batch), embeds the resume text and commits vector plus metadata as one unit.",
	RunE:  runIngest,
}

var (
	ingestInputFile string
	ingestBatch     bool
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestInputFile, "in", "i", "", "Path to record draft JSON file (required)")
	ingestCmd.Flags().BoolVar(&ingestBatch, "batch", false, "Treat the input file as a JSON array of drafts")

	if err := ingestCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(ingestInputFile)
	if err != nil {
		return fmt.Errorf("failed to read draft file: %w", err)
	}

	drafts, err := decodeDrafts(data, ingestBatch)
	if err != nil {
		return err
	}

	ctx := context.Background()
	e, cleanup, err := openEngine(ctx, settings)
	if err != nil {
		return err
	}
	defer cleanup()

	ids, err := e.IngestBatch(ctx, drafts)
	if len(ids) > 0 {
		// Committed records stay committed even when a later draft fails.
		if persistErr := e.Persist(ctx); persistErr != nil {
			return persistErr
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Successfully ingested %d resume(s)\n", len(ids))
	for i, id := range ids {
		fmt.Fprintf(os.Stdout, "  %s -> %s\n", drafts[i].Filename, id)
	}
	return nil
}

// decodeDrafts parses the input file and validates each draft against the
// record draft schema when it can be located.
func decodeDrafts(data []byte, batch bool) ([]*types.RecordDraft, error) {
	var raws []json.RawMessage
	if batch {
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("failed to parse draft array: %w", err)
		}
	} else {
		raws = []json.RawMessage{json.RawMessage(data)}
	}

	schemaPath := schemas.ResolveSchemaPath(filepath.Join("schemas", "record_draft.schema.json"))
	var schemaContent string
	if schemaPath != "" {
		content, err := os.ReadFile(schemaPath)
		if err == nil {
			schemaContent = string(content)
		}
	}

	drafts := make([]*types.RecordDraft, 0, len(raws))
	for i, raw := range raws {
		if schemaContent != "" {
			if err := schemas.ValidateJSONString(schemaContent, string(raw)); err != nil {
				return nil, fmt.Errorf("draft %d failed schema validation: %w", i, err)
			}
		}

		var draft types.RecordDraft
		if err := json.Unmarshal(raw, &draft); err != nil {
			return nil, fmt.Errorf("failed to parse draft %d: %w", i, err)
		}
		drafts = append(drafts, &draft)
	}
	return drafts, nil
}
