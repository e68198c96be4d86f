package embedding

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPrepareText_CollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "senior python developer", PrepareText("  senior\n\npython\t developer ", 0))
}

func TestPrepareText_HeadTruncationIsDeterministic(t *testing.T) {
	long := strings.Repeat("resume content ", 200)

	first := PrepareText(long, 100)
	second := PrepareText(long, 100)

	assert.Len(t, first, 100)
	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(strings.Join(strings.Fields(long), " "), first))
}

func TestPrepareText_ShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "short", PrepareText("short", 100))
}

func TestPrepareText_TruncatesOnRuneBoundary(t *testing.T) {
	// "é" is 2 bytes in UTF-8; an odd byte limit would land mid-rune.
	long := strings.Repeat("é", 50)

	got := PrepareText(long, 7)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 3), got)
}

func TestNormalize_UnitLength(t *testing.T) {
	vector := Normalize([]float32{3, 4})

	assert.InDelta(t, 0.6, float64(vector[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(vector[1]), 1e-6)

	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
}

func TestNormalize_ZeroVectorUnchanged(t *testing.T) {
	vector := Normalize([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, vector)
}
