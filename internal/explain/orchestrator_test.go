package explain

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-matcher/internal/types"
)

// fakeProvider scripts explanation behavior per call.
type fakeProvider struct {
	delay time.Duration
	fail  bool
	calls atomic.Int32
}

func (f *fakeProvider) Explain(ctx context.Context, req Request) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.fail {
		return "", fmt.Errorf("provider down")
	}
	return fmt.Sprintf("strong match on %v", req.MatchingSkills), nil
}

func results(n int) []types.MatchResult {
	out := make([]types.MatchResult, n)
	for i := range out {
		out[i] = types.MatchResult{
			MatchCandidate: types.MatchCandidate{
				ResumeID:        fmt.Sprintf("resume-%d", i),
				SimilarityScore: 0.9,
				RankPosition:    i + 1,
			},
			MatchingSkills: []string{"python"},
		}
	}
	return out
}

func TestAnnotate_FillsExplanations(t *testing.T) {
	provider := &fakeProvider{}
	o := NewOrchestrator(provider, time.Second, 2)

	matched := results(3)
	o.Annotate(context.Background(), "job", matched, []string{"a", "b", "c"})

	for _, r := range matched {
		assert.Equal(t, "strong match on [python]", r.Explanation)
	}
	assert.Equal(t, int32(3), provider.calls.Load())
}

func TestAnnotate_TimeoutDegradesToFallback(t *testing.T) {
	provider := &fakeProvider{delay: 500 * time.Millisecond}
	o := NewOrchestrator(provider, 10*time.Millisecond, 2)

	matched := results(3)
	o.Annotate(context.Background(), "job", matched, []string{"a", "b", "c"})

	// Every candidate survives with the fallback text; none are dropped.
	require.Len(t, matched, 3)
	for _, r := range matched {
		assert.Contains(t, r.Explanation, "90.0% match")
		assert.Contains(t, r.Explanation, "python")
	}
}

func TestAnnotate_ProviderFailureDegradesToFallback(t *testing.T) {
	provider := &fakeProvider{fail: true}
	o := NewOrchestrator(provider, time.Second, 2)

	matched := results(2)
	o.Annotate(context.Background(), "job", matched, []string{"a", "b"})

	for _, r := range matched {
		assert.Contains(t, r.Explanation, "Review full resume for detailed qualifications.")
	}
}

func TestAnnotate_NilProviderUsesFallback(t *testing.T) {
	o := NewOrchestrator(nil, time.Second, 2)

	matched := results(1)
	o.Annotate(context.Background(), "job", matched, []string{"a"})

	assert.Contains(t, matched[0].Explanation, "This candidate shows a 90.0% match")
}

func TestFallback_SkillPreviewCapped(t *testing.T) {
	text := Fallback(0.85, []string{"go", "python", "sql", "django", "kafka"})

	assert.Contains(t, text, "85.0% match")
	assert.Contains(t, text, "go, python, sql")
	assert.Contains(t, text, "and 2 others")
}

func TestFallback_NoSkills(t *testing.T) {
	text := Fallback(0.42, nil)
	assert.Equal(t, "This candidate shows a 42.0% match based on overall profile alignment. Review full resume for detailed qualifications.", text)
}
