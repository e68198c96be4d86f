package types

import (
	"github.com/go-playground/validator/v10"
)

// JobDescription is the free-text job input a match query is built from.
type JobDescription struct {
	Title           string   `json:"title" validate:"required"`
	Description     string   `json:"description" validate:"required"`
	Requirements    string   `json:"requirements,omitempty"`
	Location        string   `json:"location,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	SkillsRequired  []string `json:"skills_required,omitempty"`
}

// Text assembles the job text that gets embedded: title, description and
// requirements joined by newlines.
func (j *JobDescription) Text() string {
	text := j.Title + "\n" + j.Description
	if j.Requirements != "" {
		text += "\n" + j.Requirements
	}
	return text
}

// MatchRequest describes one matching query against the resume corpus.
type MatchRequest struct {
	Job                 JobDescription `json:"job_description" validate:"required"`
	TopK                int            `json:"top_k" validate:"required,gt=0"`
	SimilarityThreshold float64        `json:"similarity_threshold" validate:"gte=-1,lte=1"`
	SkipExplanations    bool           `json:"skip_explanations,omitempty"`
}

// Validate validates the MatchRequest using the validator.
func (r *MatchRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	if err := validate.Struct(&r.Job); err != nil {
		return err
	}
	return nil
}

// MatchCandidate is the result of a single index lookup before it is joined
// with its record: id, normalized similarity score and a dense 1-based rank.
type MatchCandidate struct {
	ResumeID        string  `json:"resume_id"`
	SimilarityScore float64 `json:"similarity_score"`
	RankPosition    int     `json:"rank_position"`
}

// MatchResult is a MatchCandidate joined with its record projection and the
// optional explanation produced for it.
type MatchResult struct {
	MatchCandidate
	Filename        string   `json:"filename"`
	MatchingSkills  []string `json:"matching_skills"`
	Explanation     string   `json:"match_explanation,omitempty"`
	ExperienceMatch string   `json:"experience_match,omitempty"`
}

// MatchResponse is the aggregate returned by a match call.
type MatchResponse struct {
	JobTitle       string        `json:"job_title"`
	TotalResumes   int           `json:"total_resumes"`
	MatchesFound   int           `json:"matches_found"`
	Matches        []MatchResult `json:"matches"`
	ProcessingTime float64       `json:"processing_time"`
}

// EngineStats summarizes the engine's index and store state.
type EngineStats struct {
	TotalVectors   int    `json:"total_vectors"`
	LiveRecords    int    `json:"live_records"`
	Dimension      int    `json:"dimension"`
	EmbeddingModel string `json:"embedding_model,omitempty"`
	ExplainModel   string `json:"explain_model,omitempty"`
	IndexPath      string `json:"index_path,omitempty"`
	MetadataPath   string `json:"metadata_path,omitempty"`
}
