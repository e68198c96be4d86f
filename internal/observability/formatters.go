// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxMatchesToShow is the default number of matches to display in lists
	maxMatchesToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMatchResponse outputs a human-readable summary of a match run.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMatchResponse(resp *types.MatchResponse) {
	if resp == nil {
		return
	}

	if len(resp.Matches) == 0 {
		border := strings.Repeat("─", boxWidth-2)
		fmt.Fprintf(p.out, "┌%s┐\n", border)
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO MATCHES FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", border)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:      %s\n", resp.JobTitle))
	sb.WriteString(fmt.Sprintf("Corpus:   %d resumes, %d matched\n", resp.TotalResumes, resp.MatchesFound))
	sb.WriteString(fmt.Sprintf("Took:     %.2fs\n\n", resp.ProcessingTime))

	count := min(len(resp.Matches), maxMatchesToShow)
	for i := 0; i < count; i++ {
		match := resp.Matches[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", match.RankPosition, match.Filename))
		sb.WriteString(fmt.Sprintf("    Score: %.4f\n", match.SimilarityScore))
		if len(match.MatchingSkills) > 0 {
			skills := strings.Join(match.MatchingSkills, ", ")
			if len(skills) > 40 {
				skills = skills[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", skills))
		}
		if match.ExperienceMatch != "" {
			sb.WriteString(fmt.Sprintf("    Experience: %s\n", match.ExperienceMatch))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(resp.Matches) > maxMatchesToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more matches", len(resp.Matches)-maxMatchesToShow))
	}

	p.printBox("RANKED MATCHES", sb.String())
}

// PrintExplanations outputs each match's explanation text in full.
func (p *Printer) PrintExplanations(matches []types.MatchResult) {
	withText := make([]types.MatchResult, 0, len(matches))
	for _, match := range matches {
		if match.Explanation != "" {
			withText = append(withText, match)
		}
	}
	if len(withText) == 0 {
		return
	}

	var sb strings.Builder
	for i, match := range withText {
		sb.WriteString(fmt.Sprintf("#%d  %s\n", match.RankPosition, match.Filename))
		// Wrap explanation text to the box interior width
		for _, line := range wrap(match.Explanation, boxWidth-8) {
			sb.WriteString(fmt.Sprintf("    %s\n", line))
		}
		if i < len(withText)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("MATCH EXPLANATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEngineStats outputs the engine's index and storage state.
func (p *Printer) PrintEngineStats(stats *types.EngineStats) {
	if stats == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Live resumes:    %d\n", stats.LiveRecords))
	sb.WriteString(fmt.Sprintf("Total vectors:   %d\n", stats.TotalVectors))
	sb.WriteString(fmt.Sprintf("Dimension:       %d\n", stats.Dimension))
	if stats.EmbeddingModel != "" {
		sb.WriteString(fmt.Sprintf("Embedding model: %s\n", stats.EmbeddingModel))
	}
	if stats.ExplainModel != "" {
		sb.WriteString(fmt.Sprintf("Explain model:   %s\n", stats.ExplainModel))
	}
	if stats.IndexPath != "" {
		sb.WriteString(fmt.Sprintf("Index:           %s\n", stats.IndexPath))
	}
	if stats.MetadataPath != "" {
		sb.WriteString(fmt.Sprintf("Metadata:        %s\n", stats.MetadataPath))
	}

	p.printBox("ENGINE STATS", strings.TrimSuffix(sb.String(), "\n"))
}

// wrap splits text into lines no longer than width, breaking on spaces.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}
