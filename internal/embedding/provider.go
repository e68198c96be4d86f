// Package embedding turns text into fixed-length unit-normalized vectors.
package embedding

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyInput is returned when there is no text to embed.
	ErrEmptyInput = errors.New("no text to embed")
	// ErrEmbeddingUnavailable is returned when the embedding backend cannot
	// produce a vector. Callers must not substitute a zero vector.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
)

// Provider generates embeddings for documents and queries. Vectors returned
// by both methods are unit-normalized, so the index's inner product equals
// cosine similarity. Results are deterministic for identical input and model
// version.
type Provider interface {
	// EmbedDocument embeds resume text for indexing.
	EmbedDocument(ctx context.Context, text string) ([]float32, error)

	// EmbedQuery embeds a job description for retrieval.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the fixed output vector dimension.
	Dimension() int
}

// PrepareText cleans text before embedding: collapse whitespace, then
// head-truncate to maxChars. Truncation is deterministic so re-embedding the
// same document yields the same vector; callers are not expected to chunk.
// The cut backs off to a rune boundary so the result stays valid UTF-8.
func PrepareText(text string, maxChars int) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	if maxChars > 0 && len(cleaned) > maxChars {
		cut := maxChars
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = cleaned[:cut]
	}
	return cleaned
}

// Normalize scales a vector to unit length in place and returns it.
// A zero vector is returned unchanged; it has no meaningful direction.
func Normalize(vector []float32) []float32 {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vector
	}
	norm := float32(math.Sqrt(sum))
	for i := range vector {
		vector[i] /= norm
	}
	return vector
}
