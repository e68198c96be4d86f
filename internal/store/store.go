// Package store provides durable storage for resume metadata records.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/jonathan/resume-matcher/internal/types"
)

var (
	// ErrNotFound is returned when no live record exists for an identifier or slot.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateContent is returned by Put when content-hash dedup is enabled
	// and a live record with identical raw text already exists.
	ErrDuplicateContent = errors.New("duplicate resume content")
)

// RecordStore is the durable mapping from resume identifiers to metadata and
// to vector slots. Implementations are not required to be safe for concurrent
// use; the engine serializes access.
type RecordStore interface {
	// Put persists a new record for the draft at the given vector slot and
	// returns it with a freshly assigned resume ID.
	Put(ctx context.Context, draft *types.RecordDraft, slot int) (*types.ResumeRecord, error)

	// Get returns the live record with the given ID.
	Get(ctx context.Context, resumeID string) (*types.ResumeRecord, error)

	// GetBySlot translates a vector slot back to its live record.
	GetBySlot(ctx context.Context, slot int) (*types.ResumeRecord, error)

	// Delete tombstones the record and reports the vector slot it occupied,
	// so the caller can invalidate the index entry.
	Delete(ctx context.Context, resumeID string) (int, error)

	// Count returns the number of live records.
	Count(ctx context.Context) (int, error)

	// List returns all live records.
	List(ctx context.Context) ([]*types.ResumeRecord, error)

	// Persist flushes the store to durable storage. Backends that are durable
	// per mutation may implement this as a no-op.
	Persist(ctx context.Context) error
}

// ContentHash returns the dedup key for a draft: the hex sha256 of its raw text.
func ContentHash(rawText string) string {
	sum := sha256.Sum256([]byte(rawText))
	return hex.EncodeToString(sum[:])
}
