// Package engine implements the vector-indexed resume matching engine: it
// owns the embedding provider, the similarity index and the record store, and
// runs the ranking, threshold and top-k selection that turns a job
// description into an ordered match list.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jonathan/resume-matcher/internal/embedding"
	"github.com/jonathan/resume-matcher/internal/explain"
	"github.com/jonathan/resume-matcher/internal/index"
	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/store"
	"github.com/jonathan/resume-matcher/internal/types"
)

var (
	// ErrInvalidQuery is returned when top_k or the similarity threshold is
	// outside the metric's valid range.
	ErrInvalidQuery = errors.New("invalid match query")
	// ErrIndexCorruption is returned when the slot/record pairing invariant is
	// violated at load time. The engine refuses to serve rather than operate
	// on an inconsistent pairing.
	ErrIndexCorruption = errors.New("index corruption detected")
	// ErrPersistenceFailure is returned when a snapshot write fails. The
	// previously committed snapshot stays intact.
	ErrPersistenceFailure = errors.New("persistence failure")
)

// defaultOverFetch is the search over-fetch multiplier that absorbs tombstone
// filtering: raw top-k may include slots whose records were deleted.
const defaultOverFetch = 4

// snapshotter is implemented by indexes that can serialize themselves.
type snapshotter interface {
	Save(path string) error
}

// Options configures an Engine.
type Options struct {
	// Provider embeds documents and queries. Required.
	Provider embedding.Provider
	// Index holds the resume vectors. Required.
	Index index.Index
	// Store holds the resume metadata. Required.
	Store store.RecordStore
	// Explainer annotates match results. Optional; matching works without it.
	Explainer *explain.Orchestrator
	// IndexPath is where the index snapshot is written, for indexes that
	// support snapshotting.
	IndexPath string
	// AutoPersist rewrites both snapshots after every successful mutation.
	// When false, callers checkpoint explicitly via Persist.
	AutoPersist bool
	// OverFetch overrides the search over-fetch multiplier.
	OverFetch int
}

// Engine matches job descriptions against the ingested resume corpus.
//
// Index writes are serialized relative to each other and to persistence;
// any number of match calls may proceed concurrently against a stable
// snapshot. The combined index-add + store-put at ingestion is the atomic
// unit: a query observes the state before or after it, never in between.
type Engine struct {
	mu sync.RWMutex

	provider  embedding.Provider
	index     index.Index
	store     store.RecordStore
	explainer *explain.Orchestrator

	indexPath   string
	autoPersist bool
	overFetch   int

	embeddingModel string
	explainModel   string
	metadataPath   string
}

// Open constructs an engine over an already-loaded index and store, after
// cross-checking their slot-to-record referential integrity. A violation is
// fatal: the engine must not serve from an inconsistent pairing.
func Open(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("embedding provider is required")
	}
	if opts.Index == nil {
		return nil, fmt.Errorf("vector index is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("record store is required")
	}
	if opts.Provider.Dimension() != opts.Index.Dimension() {
		return nil, fmt.Errorf("provider dimension %d does not match index dimension %d",
			opts.Provider.Dimension(), opts.Index.Dimension())
	}

	e := &Engine{
		provider:    opts.Provider,
		index:       opts.Index,
		store:       opts.Store,
		explainer:   opts.Explainer,
		indexPath:   opts.IndexPath,
		autoPersist: opts.AutoPersist,
		overFetch:   opts.OverFetch,
	}
	if e.overFetch <= 0 {
		e.overFetch = defaultOverFetch
	}

	if err := e.checkIntegrity(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// checkIntegrity verifies that every live record owns exactly one live vector
// slot and that no live vector is orphaned.
func (e *Engine) checkIntegrity(ctx context.Context) error {
	records, err := e.store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	claimed := make(map[int]string, len(records))
	for _, record := range records {
		if !record.EmbeddingGenerated {
			return fmt.Errorf("%w: record %s has no embedding but is visible", ErrIndexCorruption, record.ResumeID)
		}
		if other, taken := claimed[record.VectorSlot]; taken {
			return fmt.Errorf("%w: records %s and %s share vector slot %d", ErrIndexCorruption, other, record.ResumeID, record.VectorSlot)
		}
		claimed[record.VectorSlot] = record.ResumeID
		if !e.index.IsLive(record.VectorSlot) {
			return fmt.Errorf("%w: record %s references missing vector slot %d", ErrIndexCorruption, record.ResumeID, record.VectorSlot)
		}
	}
	if live := e.index.Live(); live != len(records) {
		return fmt.Errorf("%w: index holds %d live vectors for %d live records", ErrIndexCorruption, live, len(records))
	}
	return nil
}

// Ingest embeds the draft's raw text, appends the vector to the index and
// persists the record as one atomic unit. It returns the assigned resume ID.
func (e *Engine) Ingest(ctx context.Context, draft *types.RecordDraft) (string, error) {
	if draft == nil {
		return "", fmt.Errorf("record draft is required")
	}
	if err := draft.Validate(); err != nil {
		return "", fmt.Errorf("invalid record draft: %w", err)
	}

	normalized := *draft
	normalized.Skills = skills.NormalizeSet(draft.Skills)

	// Embed outside the write lock; only the commit needs exclusivity.
	vector, err := e.provider.EmbedDocument(ctx, normalized.RawText)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	slot, err := e.index.Add(vector)
	if err != nil {
		return "", fmt.Errorf("failed to add vector: %w", err)
	}

	record, err := e.store.Put(ctx, &normalized, slot)
	if err != nil {
		// All-or-nothing: drop the vector so no orphaned slot survives the
		// failed commit. The slot number itself is burned, never reused.
		_ = e.index.Remove(slot)
		return "", err
	}

	if e.autoPersist {
		if err := e.persistLocked(ctx); err != nil {
			return record.ResumeID, err
		}
	}
	return record.ResumeID, nil
}

// IngestBatch ingests drafts in order. Each record commits atomically; the
// first failure aborts the remainder and is returned alongside the IDs that
// were already committed.
func (e *Engine) IngestBatch(ctx context.Context, drafts []*types.RecordDraft) ([]string, error) {
	ids := make([]string, 0, len(drafts))
	for i, draft := range drafts {
		id, err := e.Ingest(ctx, draft)
		if err != nil {
			return ids, fmt.Errorf("failed to ingest record %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Match embeds the job text, searches the index and returns the ranked match
// list. It performs no mutation, so cancelling ctx at any suspension point
// has no side effects. "No matches" is a valid outcome, not a failure.
func (e *Engine) Match(ctx context.Context, req *types.MatchRequest) (*types.MatchResponse, error) {
	start := time.Now()

	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidQuery)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	jobText := req.Job.Text()

	// Embedding failures abort the whole call and surface unchanged.
	query, err := e.provider.EmbedQuery(ctx, jobText)
	if err != nil {
		return nil, err
	}

	matches, contents, total, err := e.selectCandidates(ctx, query, req)
	if err != nil {
		return nil, err
	}

	if !req.SkipExplanations && len(matches) > 0 && e.explainer != nil {
		e.explainer.Annotate(ctx, jobText, matches, contents)
	}

	return &types.MatchResponse{
		JobTitle:       req.Job.Title,
		TotalResumes:   total,
		MatchesFound:   len(matches),
		Matches:        matches,
		ProcessingTime: time.Since(start).Seconds(),
	}, nil
}

// selectCandidates runs the search, threshold, tombstone-filter and top-k
// truncation steps against a stable snapshot of the index/store pair.
func (e *Engine) selectCandidates(ctx context.Context, query []float32, req *types.MatchRequest) ([]types.MatchResult, []string, int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	total := e.index.Live()
	if total == 0 {
		return nil, nil, 0, nil
	}

	hits, err := e.index.Search(query, req.TopK*e.overFetch)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("index search failed: %w", err)
	}

	required := skills.NormalizeSet(req.Job.SkillsRequired)

	matches := make([]types.MatchResult, 0, req.TopK)
	contents := make([]string, 0, req.TopK)
	for _, hit := range hits {
		// Hits arrive in descending score order; everything past the
		// threshold is ineligible.
		if hit.Score < req.SimilarityThreshold {
			break
		}

		record, err := e.store.GetBySlot(ctx, hit.Slot)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Tombstoned or missing record: skip, never fail the query.
				continue
			}
			return nil, nil, 0, fmt.Errorf("failed to resolve slot %d: %w", hit.Slot, err)
		}

		matches = append(matches, types.MatchResult{
			MatchCandidate: types.MatchCandidate{
				ResumeID:        record.ResumeID,
				SimilarityScore: hit.Score,
				RankPosition:    len(matches) + 1,
			},
			Filename:        record.Filename,
			MatchingSkills:  skills.Matching(required, record.Skills),
			ExperienceMatch: experienceMatch(record),
		})
		contents = append(contents, record.ResumeContent())
		if len(matches) == req.TopK {
			break
		}
	}
	return matches, contents, total, nil
}

// Delete tombstones a record and invalidates its vector slot.
func (e *Engine) Delete(ctx context.Context, resumeID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	slot, err := e.store.Delete(ctx, resumeID)
	if err != nil {
		return err
	}
	if err := e.index.Remove(slot); err != nil {
		return fmt.Errorf("%w: record %s referenced slot %d: %v", ErrIndexCorruption, resumeID, slot, err)
	}

	if e.autoPersist {
		return e.persistLocked(ctx)
	}
	return nil
}

// Count returns the number of live resumes.
func (e *Engine) Count(ctx context.Context) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Count(ctx)
}

// Stats summarizes the engine's current state.
func (e *Engine) Stats(ctx context.Context) (*types.EngineStats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	live, err := e.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &types.EngineStats{
		TotalVectors:   e.index.Slots(),
		LiveRecords:    live,
		Dimension:      e.index.Dimension(),
		EmbeddingModel: e.embeddingModel,
		ExplainModel:   e.explainModel,
		IndexPath:      e.indexPath,
		MetadataPath:   e.metadataPath,
	}, nil
}

// SetModelInfo records the model names reported by Stats.
func (e *Engine) SetModelInfo(embeddingModel, explainModel string) {
	e.embeddingModel = embeddingModel
	e.explainModel = explainModel
}

// SetMetadataPath records the metadata snapshot path reported by Stats.
func (e *Engine) SetMetadataPath(path string) {
	e.metadataPath = path
}

// Persist checkpoints both snapshots. Each file is replaced atomically, so a
// failed write never corrupts the previously committed snapshot.
func (e *Engine) Persist(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persistLocked(ctx)
}

func (e *Engine) persistLocked(ctx context.Context) error {
	if e.indexPath != "" {
		if snap, ok := e.index.(snapshotter); ok {
			if err := snap.Save(e.indexPath); err != nil {
				return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
			}
		}
	}
	if err := e.store.Persist(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	return nil
}

// experienceMatch renders the record's experience for display alongside a
// match, mirroring the years-or-unknown presentation of the upload metadata.
func experienceMatch(record *types.ResumeRecord) string {
	if record.ExperienceYears == nil {
		return "Not specified"
	}
	return strconv.Itoa(*record.ExperienceYears)
}
