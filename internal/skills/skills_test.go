package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_CanonicalVariants(t *testing.T) {
	assert.Equal(t, "go", Normalize("Golang"))
	assert.Equal(t, "javascript", Normalize(" JS "))
	assert.Equal(t, "kubernetes", Normalize("K8s"))
	assert.Equal(t, "postgres", Normalize("PostgreSQL"))
	assert.Equal(t, "python", Normalize("Python"))
	assert.Equal(t, "", Normalize("   "))
}

func TestNormalizeSet_DeduplicatesAndSorts(t *testing.T) {
	got := NormalizeSet([]string{"Golang", "go", "Python", "", "  "})
	assert.Equal(t, []string{"go", "python"}, got)
}

func TestMatching_Intersection(t *testing.T) {
	required := []string{"Python", "Django", "Kubernetes"}
	candidate := []string{"python", "sql", "django"}

	assert.Equal(t, []string{"django", "python"}, Matching(required, candidate))
}

func TestMatching_NormalizesBothSides(t *testing.T) {
	assert.Equal(t, []string{"go"}, Matching([]string{"Golang"}, []string{"GO"}))
}

func TestMatching_NoOverlap(t *testing.T) {
	assert.Empty(t, Matching([]string{"java"}, []string{"python"}))
	assert.Empty(t, Matching(nil, []string{"python"}))
	assert.Empty(t, Matching([]string{"java"}, nil))
}
