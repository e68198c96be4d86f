// Package types provides type definitions for structured data used throughout the resume-matcher system.
package types

import (
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// RecordDraft carries the already-extracted resume content handed to the
// engine at ingestion. Text extraction from PDF/DOCX happens upstream; the
// draft is assumed to be clean UTF-8.
type RecordDraft struct {
	Filename        string            `json:"filename" validate:"required"`
	RawText         string            `json:"raw_text" validate:"required"`
	Sections        map[string]string `json:"sections,omitempty"`
	Skills          []string          `json:"skills,omitempty"`
	ExperienceYears *int              `json:"experience_years,omitempty" validate:"omitempty,gte=0"`
	Education       []string          `json:"education,omitempty"`
	ContactInfo     map[string]string `json:"contact_info,omitempty"`
}

// Validate validates the RecordDraft using the validator.
func (d *RecordDraft) Validate() error {
	validate := validator.New()
	return validate.Struct(d)
}

// ResumeRecord is the durable metadata for one ingested resume. Records are
// immutable after ingestion except for soft deletion via DeletedAt.
type ResumeRecord struct {
	ResumeID           string            `json:"resume_id"`
	VectorSlot         int               `json:"vector_slot"`
	Filename           string            `json:"filename"`
	RawText            string            `json:"raw_text"`
	Sections           map[string]string `json:"sections,omitempty"`
	Skills             []string          `json:"skills,omitempty"`
	ExperienceYears    *int              `json:"experience_years,omitempty"`
	Education          []string          `json:"education,omitempty"`
	ContactInfo        map[string]string `json:"contact_info,omitempty"`
	ContentHash        string            `json:"content_hash,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	EmbeddingGenerated bool              `json:"embedding_generated"`
	DeletedAt          *time.Time        `json:"deleted_at,omitempty"`
}

// Tombstoned reports whether the record has been soft-deleted.
func (r *ResumeRecord) Tombstoned() bool {
	return r.DeletedAt != nil
}

// ResumeContent returns the text used for explanation generation: the joined
// section contents when sections exist, the raw text otherwise.
func (r *ResumeRecord) ResumeContent() string {
	if len(r.Sections) == 0 {
		return r.RawText
	}

	// Sort section names so the assembled content is stable across calls.
	names := make([]string, 0, len(r.Sections))
	for name := range r.Sections {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, r.Sections[name])
	}
	return strings.Join(parts, " ")
}
