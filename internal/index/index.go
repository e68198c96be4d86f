// Package index provides exact inner-product vector search over the resume corpus.
package index

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDimensionMismatch is returned when a vector does not match the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrInvalidSlot is returned when a slot does not identify a vector in the index.
	ErrInvalidSlot = errors.New("invalid vector slot")
)

// Hit is a single result from a similarity search.
type Hit struct {
	// Slot identifies the matched vector inside the index.
	Slot int
	// Score is the inner product between the query and the matched vector.
	// Both sides are unit-normalized, so this equals cosine similarity.
	Score float64
}

// Index is the contract for vector storage and nearest-neighbor search.
// The flat implementation below is exact; an approximate backend can be
// swapped in behind the same interface when the corpus outgrows it.
type Index interface {
	// Add appends a vector and returns its slot. Slots increase monotonically
	// and are never reused, even after removal.
	Add(vector []float32) (int, error)

	// Search returns up to k live vectors ordered by descending score.
	// Ties are broken by ascending slot, so the earlier-ingested resume wins.
	Search(query []float32, k int) ([]Hit, error)

	// Remove logically deletes a slot. The vector stays allocated so slot
	// numbering is preserved; removed slots never appear in search results.
	Remove(slot int) error

	// IsLive reports whether a slot holds a searchable vector.
	IsLive(slot int) bool

	// Slots returns the total number of slots ever allocated.
	Slots() int

	// Live returns the number of live (non-removed) vectors.
	Live() int

	// Dimension returns the fixed vector dimension.
	Dimension() int
}

// Flat is an in-memory exact index over unit-normalized vectors.
// It is not safe for concurrent use; the engine serializes access.
type Flat struct {
	dimension int
	vectors   [][]float32
	removed   map[int]bool
}

// NewFlat creates an empty flat index for vectors of the given dimension.
func NewFlat(dimension int) (*Flat, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dimension)
	}
	return &Flat{
		dimension: dimension,
		removed:   make(map[int]bool),
	}, nil
}

// Add appends a vector and returns its slot.
func (f *Flat) Add(vector []float32) (int, error) {
	if len(vector) != f.dimension {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), f.dimension)
	}

	// Copy so later caller mutations cannot corrupt the index.
	stored := make([]float32, f.dimension)
	copy(stored, vector)

	slot := len(f.vectors)
	f.vectors = append(f.vectors, stored)
	return slot, nil
}

// Search returns up to k live vectors ordered by descending score,
// ties broken by ascending slot.
func (f *Flat) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != f.dimension {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(query), f.dimension)
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	hits := make([]Hit, 0, f.Live())
	for slot, vector := range f.vectors {
		if f.removed[slot] {
			continue
		}
		hits = append(hits, Hit{Slot: slot, Score: dot(query, vector)})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Slot < hits[j].Slot
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Remove logically deletes a slot.
func (f *Flat) Remove(slot int) error {
	if slot < 0 || slot >= len(f.vectors) {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	f.removed[slot] = true
	return nil
}

// IsLive reports whether a slot holds a searchable vector.
func (f *Flat) IsLive(slot int) bool {
	return slot >= 0 && slot < len(f.vectors) && !f.removed[slot]
}

// Slots returns the total number of slots ever allocated.
func (f *Flat) Slots() int {
	return len(f.vectors)
}

// Live returns the number of live vectors.
func (f *Flat) Live() int {
	return len(f.vectors) - len(f.removed)
}

// Dimension returns the fixed vector dimension.
func (f *Flat) Dimension() int {
	return f.dimension
}

// dot accumulates in float64 so scores stay comparable across queries.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
