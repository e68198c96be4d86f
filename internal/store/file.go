package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-matcher/internal/types"
)

// FileStore keeps all records in memory and persists them as a single JSON
// document, rewritten atomically (write-temp-then-rename) so partial writes
// are never observable.
type FileStore struct {
	path    string
	dedup   bool
	records map[string]*types.ResumeRecord
	bySlot  map[int]string    // live slot -> resume ID
	hashes  map[string]string // content hash -> live resume ID
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithDedup enables content-hash deduplication: Put fails with
// ErrDuplicateContent when a live record already holds the same raw text.
func WithDedup() FileOption {
	return func(s *FileStore) {
		s.dedup = true
	}
}

// OpenFile loads the metadata snapshot at path. A missing file yields an
// empty store, not an error.
func OpenFile(path string, options ...FileOption) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		records: make(map[string]*types.ResumeRecord),
		bySlot:  make(map[int]string),
		hashes:  make(map[string]string),
	}
	for _, opt := range options {
		opt(s)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata snapshot %s: %w", path, err)
	}

	var records map[string]*types.ResumeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse metadata snapshot %s: %w", path, err)
	}

	for id, record := range records {
		s.records[id] = record
		if record.Tombstoned() {
			continue
		}
		if other, taken := s.bySlot[record.VectorSlot]; taken {
			return nil, fmt.Errorf("metadata snapshot %s: records %s and %s share vector slot %d", path, other, id, record.VectorSlot)
		}
		s.bySlot[record.VectorSlot] = id
		if record.ContentHash != "" {
			s.hashes[record.ContentHash] = id
		}
	}
	return s, nil
}

// Put persists a new record for the draft at the given vector slot.
func (s *FileStore) Put(_ context.Context, draft *types.RecordDraft, slot int) (*types.ResumeRecord, error) {
	hash := ContentHash(draft.RawText)
	if s.dedup {
		if existing, ok := s.hashes[hash]; ok {
			return nil, fmt.Errorf("%w: matches record %s", ErrDuplicateContent, existing)
		}
	}
	if _, taken := s.bySlot[slot]; taken {
		return nil, fmt.Errorf("vector slot %d is already assigned", slot)
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

	s.records[record.ResumeID] = record
	s.bySlot[slot] = record.ResumeID
	s.hashes[hash] = record.ResumeID
	return record, nil
}

// Get returns the live record with the given ID.
func (s *FileStore) Get(_ context.Context, resumeID string) (*types.ResumeRecord, error) {
	record, ok := s.records[resumeID]
	if !ok || record.Tombstoned() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, resumeID)
	}
	return record, nil
}

// GetBySlot translates a vector slot back to its live record.
func (s *FileStore) GetBySlot(_ context.Context, slot int) (*types.ResumeRecord, error) {
	id, ok := s.bySlot[slot]
	if !ok {
		return nil, fmt.Errorf("%w: slot %d", ErrNotFound, slot)
	}
	return s.records[id], nil
}

// Delete tombstones the record and reports its vector slot.
func (s *FileStore) Delete(_ context.Context, resumeID string) (int, error) {
	record, ok := s.records[resumeID]
	if !ok || record.Tombstoned() {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, resumeID)
	}

	now := time.Now().UTC()
	record.DeletedAt = &now
	delete(s.bySlot, record.VectorSlot)
	delete(s.hashes, record.ContentHash)
	return record.VectorSlot, nil
}

// Count returns the number of live records.
func (s *FileStore) Count(_ context.Context) (int, error) {
	return len(s.bySlot), nil
}

// List returns all live records.
func (s *FileStore) List(_ context.Context) ([]*types.ResumeRecord, error) {
	records := make([]*types.ResumeRecord, 0, len(s.bySlot))
	for _, id := range s.bySlot {
		records = append(records, s.records[id])
	}
	return records, nil
}

// Persist rewrites the snapshot file atomically.
func (s *FileStore) Persist(_ context.Context) error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata snapshot: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("failed to write metadata snapshot %s: %w", s.path, err)
	}
	return nil
}

// writeFileAtomic writes data to a temporary file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
