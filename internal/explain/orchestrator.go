package explain

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	// DefaultConcurrency bounds how many explanation calls run at once.
	DefaultConcurrency = 4
	// DefaultTimeout is the per-call explanation timeout.
	DefaultTimeout = 20 * time.Second
)

// Orchestrator fans explanation calls out over the ranked match results with
// bounded concurrency and a per-call timeout. Explanations are purely
// additive: a failed or timed-out call degrades that result's explanation to
// the fallback text and never removes the candidate or fails the match.
type Orchestrator struct {
	provider    Provider
	timeout     time.Duration
	concurrency int
}

// NewOrchestrator creates an orchestrator around a provider. A nil provider
// is allowed; Annotate then fills every result with the fallback text.
func NewOrchestrator(provider Provider, timeout time.Duration, concurrency int) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Orchestrator{
		provider:    provider,
		timeout:     timeout,
		concurrency: concurrency,
	}
}

// Annotate fills in the Explanation field of each result in place. The
// ranked list itself is never modified. Cancelling ctx stops in-flight calls;
// results without an explanation yet get the fallback.
func (o *Orchestrator) Annotate(ctx context.Context, jobText string, results []types.MatchResult, contents []string) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i := range results {
		i := i
		g.Go(func() error {
			result := &results[i]
			fallback := Fallback(result.SimilarityScore, result.MatchingSkills)

			if o.provider == nil {
				result.Explanation = fallback
				return nil
			}

			callCtx, cancel := context.WithTimeout(gctx, o.timeout)
			defer cancel()

			content := ""
			if i < len(contents) {
				content = contents[i]
			}

			explanation, err := o.provider.Explain(callCtx, Request{
				JobText:         jobText,
				ResumeContent:   content,
				SimilarityScore: result.SimilarityScore,
				MatchingSkills:  result.MatchingSkills,
			})
			if err != nil || explanation == "" {
				result.Explanation = fallback
				return nil
			}
			result.Explanation = explanation
			return nil
		})
	}

	// Workers never return an error; degradation happens per candidate.
	_ = g.Wait()
}
