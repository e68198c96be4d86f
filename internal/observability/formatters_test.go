package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-matcher/internal/types"
)

func TestPrintMatchResponse(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resp := &types.MatchResponse{
		JobTitle:       "Senior Go Engineer",
		TotalResumes:   12,
		MatchesFound:   2,
		ProcessingTime: 0.42,
		Matches: []types.MatchResult{
			{
				MatchCandidate:  types.MatchCandidate{ResumeID: "r1", SimilarityScore: 0.9132, RankPosition: 1},
				Filename:        "ada.pdf",
				MatchingSkills:  []string{"go", "kubernetes"},
				ExperienceMatch: "7",
			},
			{
				MatchCandidate: types.MatchCandidate{ResumeID: "r2", SimilarityScore: 0.7421, RankPosition: 2},
				Filename:       "bob.pdf",
			},
		},
	}

	p.PrintMatchResponse(resp)
	output := buf.String()

	assert.Contains(t, output, "RANKED MATCHES")
	assert.Contains(t, output, "Senior Go Engineer")
	assert.Contains(t, output, "12 resumes, 2 matched")
	assert.Contains(t, output, "ada.pdf")
	assert.Contains(t, output, "0.9132")
	assert.Contains(t, output, "go, kubernetes")
	assert.Contains(t, output, "Experience: 7")
}

func TestPrintMatchResponse_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatchResponse(nil)

	assert.Empty(t, buf.String())
}

func TestPrintMatchResponse_NoMatches(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatchResponse(&types.MatchResponse{JobTitle: "Anything"})
	output := buf.String()

	assert.Contains(t, output, "NO MATCHES FOUND")
}

func TestPrintMatchResponse_TruncatesLongLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resp := &types.MatchResponse{JobTitle: "Engineer", TotalResumes: 10, MatchesFound: 7}
	for i := 0; i < 7; i++ {
		resp.Matches = append(resp.Matches, types.MatchResult{
			MatchCandidate: types.MatchCandidate{RankPosition: i + 1},
			Filename:       "resume.pdf",
		})
	}

	p.PrintMatchResponse(resp)
	output := buf.String()

	assert.Contains(t, output, "... and 2 more matches")
}

func TestPrintExplanations(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	matches := []types.MatchResult{
		{
			MatchCandidate: types.MatchCandidate{RankPosition: 1},
			Filename:       "ada.pdf",
			Explanation:    "Strong overlap on Go and distributed systems experience across two prior roles.",
		},
		{
			MatchCandidate: types.MatchCandidate{RankPosition: 2},
			Filename:       "bob.pdf",
		},
	}

	p.PrintExplanations(matches)
	output := buf.String()

	assert.Contains(t, output, "MATCH EXPLANATIONS")
	assert.Contains(t, output, "ada.pdf")
	assert.Contains(t, output, "Strong overlap on Go")
	// Entries without an explanation are skipped
	assert.NotContains(t, output, "bob.pdf")
}

func TestPrintExplanations_AllEmpty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExplanations([]types.MatchResult{{Filename: "a.pdf"}})

	assert.Empty(t, buf.String())
}

func TestPrintEngineStats(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	stats := &types.EngineStats{
		TotalVectors:   20,
		LiveRecords:    18,
		Dimension:      768,
		EmbeddingModel: "text-embedding-004",
		IndexPath:      "data/resume_index.json",
	}

	p.PrintEngineStats(stats)
	output := buf.String()

	assert.Contains(t, output, "ENGINE STATS")
	assert.Contains(t, output, "18")
	assert.Contains(t, output, "768")
	assert.Contains(t, output, "text-embedding-004")
	assert.Contains(t, output, "data/resume_index.json")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resp := &types.MatchResponse{
		JobTitle:     "Senior Staff Principal Distinguished Engineer Level 99 With An Even Longer Title",
		TotalResumes: 1,
		MatchesFound: 1,
		Matches: []types.MatchResult{{
			MatchCandidate: types.MatchCandidate{RankPosition: 1},
			Filename:       "a.pdf",
		}},
	}

	p.PrintMatchResponse(resp)
	output := buf.String()

	// Should contain box characters
	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.True(t, strings.Contains(output, "│"))
}

func TestWrap(t *testing.T) {
	lines := wrap("one two three four five", 9)

	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 9)
	}
	assert.Equal(t, "one two three four five", strings.Join(lines, " "))
}
