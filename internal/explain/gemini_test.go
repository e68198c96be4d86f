package explain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate_ShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "brief", truncate("brief", 100))
}

func TestTruncate_CapsAtMax(t *testing.T) {
	got := truncate(strings.Repeat("a", 200), 50)
	assert.Len(t, got, 50)
}

func TestTruncate_BacksOffToRuneBoundary(t *testing.T) {
	// "日" is 3 bytes in UTF-8, so a limit of 10 lands inside a rune.
	text := strings.Repeat("日", 20)

	got := truncate(text, 10)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("日", 3), got)
}

func TestBuildPrompt_IncludesSkillsLine(t *testing.T) {
	prompt := buildPrompt(Request{
		JobText:         "Senior Go engineer",
		ResumeContent:   "Seven years of Go",
		SimilarityScore: 0.91,
		MatchingSkills:  []string{"go", "kafka"},
	})

	assert.Contains(t, prompt, "Senior Go engineer")
	assert.Contains(t, prompt, "Seven years of Go")
	assert.Contains(t, prompt, "0.91")
	assert.Contains(t, prompt, "Matching Skills Found: go, kafka")
}

func TestBuildPrompt_NoSkillsOmitsLine(t *testing.T) {
	prompt := buildPrompt(Request{JobText: "job", ResumeContent: "resume"})
	assert.NotContains(t, prompt, "Matching Skills Found")
}
