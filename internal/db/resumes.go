package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-matcher/internal/store"
	"github.com/jonathan/resume-matcher/internal/types"
)

// ResumeStore implements store.RecordStore on top of PostgreSQL. Every
// mutation is durable on return, so Persist is a no-op. Deletion is a soft
// delete: the row keeps its vector slot for audit but stops being live.
type ResumeStore struct {
	db    *DB
	dedup bool
}

// StoreOption configures a ResumeStore.
type StoreOption func(*ResumeStore)

// WithDedup makes Put reject drafts whose raw text hashes to the same value
// as an existing live record.
func WithDedup() StoreOption {
	return func(s *ResumeStore) { s.dedup = true }
}

// NewResumeStore returns a record store backed by the given database.
func NewResumeStore(db *DB, opts ...StoreOption) *ResumeStore {
	s := &ResumeStore{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const resumeColumns = `resume_id, vector_slot, filename, raw_text, sections, skills,
	experience_years, education, contact_info, content_hash, created_at, embedding_generated`

// Put inserts a new live record at the given vector slot.
func (s *ResumeStore) Put(ctx context.Context, draft *types.RecordDraft, slot int) (*types.ResumeRecord, error) {
	hash := store.ContentHash(draft.RawText)

	if s.dedup {
		var exists bool
		err := s.db.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM resumes WHERE content_hash = $1 AND deleted_at IS NULL)`,
			hash,
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check content hash: %w", err)
		}
		if exists {
			return nil, store.ErrDuplicateContent
		}
	}

	var sections []byte
	if draft.Sections != nil {
		var err error
		sections, err = json.Marshal(draft.Sections)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal sections: %w", err)
		}
	}
	var contactInfo []byte
	if draft.ContactInfo != nil {
		var err error
		contactInfo, err = json.Marshal(draft.ContactInfo)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal contact info: %w", err)
		}
	}

	record := &types.ResumeRecord{
		ResumeID:           uuid.NewString(),
		VectorSlot:         slot,
		Filename:           draft.Filename,
		RawText:            draft.RawText,
		Sections:           draft.Sections,
		Skills:             draft.Skills,
		ExperienceYears:    draft.ExperienceYears,
		Education:          draft.Education,
		ContactInfo:        draft.ContactInfo,
		ContentHash:        hash,
		CreatedAt:          time.Now().UTC(),
		EmbeddingGenerated: true,
	}

	_, err := s.db.pool.Exec(ctx,
		`INSERT INTO resumes (`+resumeColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		record.ResumeID, record.VectorSlot, record.Filename, record.RawText,
		sections, record.Skills, record.ExperienceYears, record.Education,
		contactInfo, record.ContentHash, record.CreatedAt, record.EmbeddingGenerated,
	)
	if err != nil {
		// The partial unique index rejects a second live record on the slot.
		return nil, fmt.Errorf("failed to insert resume at slot %d: %w", slot, err)
	}
	return record, nil
}

// Get returns the live record with the given ID.
func (s *ResumeStore) Get(ctx context.Context, resumeID string) (*types.ResumeRecord, error) {
	row := s.db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE resume_id = $1 AND deleted_at IS NULL`,
		resumeID,
	)
	return scanResume(row)
}

// GetBySlot translates a vector slot back to its live record.
func (s *ResumeStore) GetBySlot(ctx context.Context, slot int) (*types.ResumeRecord, error) {
	row := s.db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE vector_slot = $1 AND deleted_at IS NULL`,
		slot,
	)
	return scanResume(row)
}

// Delete tombstones the record and returns the vector slot it occupied.
func (s *ResumeStore) Delete(ctx context.Context, resumeID string) (int, error) {
	var slot int
	err := s.db.pool.QueryRow(ctx,
		`UPDATE resumes SET deleted_at = NOW()
		 WHERE resume_id = $1 AND deleted_at IS NULL
		 RETURNING vector_slot`,
		resumeID,
	).Scan(&slot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, store.ErrNotFound
		}
		return 0, fmt.Errorf("failed to delete resume: %w", err)
	}
	return slot, nil
}

// Count returns the number of live records.
func (s *ResumeStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM resumes WHERE deleted_at IS NULL`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count resumes: %w", err)
	}
	return count, nil
}

// List returns all live records ordered by vector slot.
func (s *ResumeStore) List(ctx context.Context) ([]*types.ResumeRecord, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE deleted_at IS NULL ORDER BY vector_slot`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var records []*types.ResumeRecord
	for rows.Next() {
		record, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read resumes: %w", err)
	}
	return records, nil
}

// Persist is a no-op; every mutation commits immediately.
func (s *ResumeStore) Persist(ctx context.Context) error {
	return nil
}

// scanResume reads one resume row.
func scanResume(row pgx.Row) (*types.ResumeRecord, error) {
	var record types.ResumeRecord
	var sections, contactInfo []byte

	err := row.Scan(
		&record.ResumeID, &record.VectorSlot, &record.Filename, &record.RawText,
		&sections, &record.Skills, &record.ExperienceYears, &record.Education,
		&contactInfo, &record.ContentHash, &record.CreatedAt, &record.EmbeddingGenerated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan resume: %w", err)
	}

	if len(sections) > 0 {
		if err := json.Unmarshal(sections, &record.Sections); err != nil {
			return nil, fmt.Errorf("failed to parse sections: %w", err)
		}
	}
	if len(contactInfo) > 0 {
		if err := json.Unmarshal(contactInfo, &record.ContactInfo); err != nil {
			return nil, fmt.Errorf("failed to parse contact info: %w", err)
		}
	}
	return &record, nil
}
