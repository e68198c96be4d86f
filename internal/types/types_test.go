package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDraft_Validate(t *testing.T) {
	draft := &RecordDraft{Filename: "ada.pdf", RawText: "python developer"}
	assert.NoError(t, draft.Validate())

	assert.Error(t, (&RecordDraft{RawText: "text"}).Validate())
	assert.Error(t, (&RecordDraft{Filename: "a.pdf"}).Validate())

	negative := -1
	draft = &RecordDraft{Filename: "a.pdf", RawText: "text", ExperienceYears: &negative}
	assert.Error(t, draft.Validate())
}

func TestMatchRequest_Validate(t *testing.T) {
	valid := &MatchRequest{
		Job:  JobDescription{Title: "Engineer", Description: "Role"},
		TopK: 5,
	}
	assert.NoError(t, valid.Validate())

	noTopK := &MatchRequest{Job: valid.Job}
	assert.Error(t, noTopK.Validate())

	badThreshold := &MatchRequest{Job: valid.Job, TopK: 5, SimilarityThreshold: 1.2}
	assert.Error(t, badThreshold.Validate())

	noTitle := &MatchRequest{Job: JobDescription{Description: "Role"}, TopK: 5}
	assert.Error(t, noTitle.Validate())
}

func TestJobDescription_Text(t *testing.T) {
	job := &JobDescription{Title: "Engineer", Description: "Backend role"}
	assert.Equal(t, "Engineer\nBackend role", job.Text())

	job.Requirements = "5 years of Go"
	assert.Equal(t, "Engineer\nBackend role\n5 years of Go", job.Text())
}

func TestResumeRecord_ResumeContent(t *testing.T) {
	record := &ResumeRecord{RawText: "raw text"}
	assert.Equal(t, "raw text", record.ResumeContent())

	record.Sections = map[string]string{
		"experience": "built APIs",
		"education":  "BSc CS",
	}

	// Sections are joined in sorted name order for stable output.
	first := record.ResumeContent()
	require.Equal(t, "BSc CS built APIs", first)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, record.ResumeContent())
	}
}

func TestResumeRecord_Tombstoned(t *testing.T) {
	record := &ResumeRecord{}
	assert.False(t, record.Tombstoned())

	now := time.Now()
	record.DeletedAt = &now
	assert.True(t, record.Tombstoned())
}
