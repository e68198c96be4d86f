package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank the resume corpus against a job description",
	Long:  "Builds a match query from a request JSON file or from flags, searches the vector index and prints the ranked matches with optional explanations.",
	RunE:  runMatch,
}

var (
	matchRequestFile string
	matchTitle       string
	matchDescription string
	matchSkills      []string
	matchTopK        int
	matchThreshold   float64
	matchNoExplain   bool
	matchJSONOutput  bool
)

func init() {
	matchCmd.Flags().StringVarP(&matchRequestFile, "request", "r", "", "Path to match request JSON file")
	matchCmd.Flags().StringVar(&matchTitle, "title", "", "Job title")
	matchCmd.Flags().StringVar(&matchDescription, "description", "", "Job description text")
	matchCmd.Flags().StringSliceVar(&matchSkills, "skills", nil, "Required skills (comma separated)")
	matchCmd.Flags().IntVarP(&matchTopK, "top-k", "k", 0, "Maximum number of matches to return")
	matchCmd.Flags().Float64VarP(&matchThreshold, "threshold", "t", -2, "Minimum cosine similarity in [-1, 1]")
	matchCmd.Flags().BoolVar(&matchNoExplain, "no-explanations", false, "Skip AI-generated match explanations")
	matchCmd.Flags().BoolVar(&matchJSONOutput, "json", false, "Print the full response as JSON")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(_ *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	req, err := buildMatchRequest(settings.TopK, *settings.SimilarityThreshold)
	if err != nil {
		return err
	}

	ctx := context.Background()
	e, cleanup, err := openEngine(ctx, settings)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := e.Match(ctx, req)
	if err != nil {
		return err
	}

	if matchJSONOutput {
		encoded, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(encoded))
		return nil
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintMatchResponse(resp)
	if !req.SkipExplanations {
		printer.PrintExplanations(resp.Matches)
	}
	if settings.Verbose {
		stats, err := e.Stats(ctx)
		if err != nil {
			return err
		}
		printer.PrintEngineStats(stats)
	}
	return nil
}

// buildMatchRequest assembles the request from the request file or from
// flags, then layers flag overrides and configured defaults on top.
func buildMatchRequest(defaultTopK int, defaultThreshold float64) (*types.MatchRequest, error) {
	req := &types.MatchRequest{}
	thresholdSet := false

	if matchRequestFile != "" {
		data, err := os.ReadFile(matchRequestFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read request file: %w", err)
		}

		schemaPath := schemas.ResolveSchemaPath(filepath.Join("schemas", "match_request.schema.json"))
		if schemaPath != "" {
			if content, err := os.ReadFile(schemaPath); err == nil {
				if err := schemas.ValidateJSONString(string(content), string(data)); err != nil {
					return nil, fmt.Errorf("request failed schema validation: %w", err)
				}
			}
		}

		if err := json.Unmarshal(data, req); err != nil {
			return nil, fmt.Errorf("failed to parse request file: %w", err)
		}

		// An explicit threshold in the file must survive even when it is 0,
		// so detect key presence separately from the decoded value.
		var presence struct {
			SimilarityThreshold *float64 `json:"similarity_threshold"`
		}
		if err := json.Unmarshal(data, &presence); err == nil && presence.SimilarityThreshold != nil {
			thresholdSet = true
		}
	} else {
		if matchTitle == "" || matchDescription == "" {
			return nil, fmt.Errorf("either --request or both --title and --description must be provided")
		}
		req.Job = types.JobDescription{
			Title:          matchTitle,
			Description:    matchDescription,
			SkillsRequired: matchSkills,
		}
	}

	if matchTopK > 0 {
		req.TopK = matchTopK
	}
	if req.TopK == 0 {
		req.TopK = defaultTopK
	}

	// -2 marks the threshold flag as unset; any value in [-1, 1] overrides.
	if matchThreshold >= -1 {
		req.SimilarityThreshold = matchThreshold
	} else if !thresholdSet {
		req.SimilarityThreshold = defaultThreshold
	}

	if matchNoExplain {
		req.SkipExplanations = true
	}

	return req, nil
}
