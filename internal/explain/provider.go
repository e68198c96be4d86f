// Package explain generates natural-language explanations for resume matches.
package explain

import (
	"context"
	"fmt"
	"strings"
)

// Request carries the inputs for one explanation call.
type Request struct {
	JobText         string
	ResumeContent   string
	SimilarityScore float64
	MatchingSkills  []string
}

// Provider produces a short explanation of why a resume matches a job.
// Implementations may fail or time out; callers degrade to Fallback.
type Provider interface {
	Explain(ctx context.Context, req Request) (string, error)
}

// Fallback builds the placeholder explanation used when the provider fails
// or times out. It is assembled locally from the score and matching skills.
func Fallback(similarityScore float64, matchingSkills []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "This candidate shows a %.1f%% match", similarityScore*100)

	if len(matchingSkills) > 0 {
		preview := matchingSkills
		if len(preview) > 3 {
			preview = preview[:3]
		}
		fmt.Fprintf(&sb, " with relevant skills including %s", strings.Join(preview, ", "))
		if extra := len(matchingSkills) - 3; extra > 0 {
			fmt.Fprintf(&sb, " and %d others", extra)
		}
	} else {
		sb.WriteString(" based on overall profile alignment")
	}

	sb.WriteString(". Review full resume for detailed qualifications.")
	return sb.String()
}
