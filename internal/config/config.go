// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Default values applied when neither the config file nor CLI flags set them.
const (
	DefaultEmbeddingModel   = "text-embedding-004"
	DefaultEmbeddingDim     = 768
	DefaultMaxSequenceChars = 2048
	DefaultExplainModel     = "gemini-2.5-flash"
	DefaultTopK             = 10
	DefaultThreshold        = 0.7
	DefaultDataDir          = "data"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	DataDir      string `json:"data_dir,omitempty"`      // Directory holding the index and metadata snapshots
	IndexPath    string `json:"index_path,omitempty"`    // Override for the index snapshot file
	MetadataPath string `json:"metadata_path,omitempty"` // Override for the metadata snapshot file

	// Models
	APIKey           string `json:"api_key,omitempty"`            // Gemini API key
	EmbeddingModel   string `json:"embedding_model,omitempty"`    // Embedding model name
	EmbeddingDim     int    `json:"embedding_dimension,omitempty"` // Embedding vector dimension
	MaxSequenceChars int    `json:"max_sequence_chars,omitempty"` // Character cap applied before embedding
	ExplainModel     string `json:"explain_model,omitempty"`      // Generative model used for match explanations

	// Matching
	TopK int `json:"top_k,omitempty"` // Default number of matches to return
	// SimilarityThreshold is the default minimum cosine similarity. A pointer
	// so an explicit 0 in the file is distinguishable from an unset field.
	SimilarityThreshold *float64 `json:"similarity_threshold,omitempty"`
	ExplainTimeoutSec   int     `json:"explain_timeout_sec,omitempty"`  // Per-explanation timeout in seconds
	ExplainConcurrency  int     `json:"explain_concurrency,omitempty"`  // Concurrent explanation calls

	// Behavior
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty selects file storage
	Dedup       bool   `json:"dedup,omitempty"`        // Reject resumes whose text was already ingested
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.EmbeddingDim < 0 {
		return fmt.Errorf("config error: 'embedding_dimension' must be non-negative")
	}
	if c.MaxSequenceChars < 0 {
		return fmt.Errorf("config error: 'max_sequence_chars' must be non-negative")
	}
	if c.TopK < 0 {
		return fmt.Errorf("config error: 'top_k' must be non-negative")
	}
	if c.SimilarityThreshold != nil && (*c.SimilarityThreshold < -1 || *c.SimilarityThreshold > 1) {
		return fmt.Errorf("config error: 'similarity_threshold' must be within [-1, 1]")
	}
	if c.ExplainTimeoutSec < 0 {
		return fmt.Errorf("config error: 'explain_timeout_sec' must be non-negative")
	}
	if c.ExplainConcurrency < 0 {
		return fmt.Errorf("config error: 'explain_concurrency' must be non-negative")
	}
	return nil
}

// WithDefaults returns a copy of the config with unset fields filled in.
func (c *Config) WithDefaults() Config {
	result := *c

	if result.DataDir == "" {
		result.DataDir = DefaultDataDir
	}
	if result.IndexPath == "" {
		result.IndexPath = filepath.Join(result.DataDir, "resume_index.json")
	}
	if result.MetadataPath == "" {
		result.MetadataPath = filepath.Join(result.DataDir, "resume_metadata.json")
	}
	if result.EmbeddingModel == "" {
		result.EmbeddingModel = DefaultEmbeddingModel
	}
	if result.EmbeddingDim == 0 {
		result.EmbeddingDim = DefaultEmbeddingDim
	}
	if result.MaxSequenceChars == 0 {
		result.MaxSequenceChars = DefaultMaxSequenceChars
	}
	if result.ExplainModel == "" {
		result.ExplainModel = DefaultExplainModel
	}
	if result.TopK == 0 {
		result.TopK = DefaultTopK
	}
	if result.SimilarityThreshold == nil {
		threshold := DefaultThreshold
		result.SimilarityThreshold = &threshold
	}

	// Bool fields: cannot distinguish unset from false, so CLI flags always win.

	return result
}
