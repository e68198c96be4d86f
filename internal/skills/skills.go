// Package skills provides skill-name normalization and matching between job
// requirements and resume skill sets.
package skills

import (
	"sort"
	"strings"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "go",
	"go lang":    "go",
	"javascript": "javascript",
	"js":         "javascript",
	"typescript": "typescript",
	"ts":         "typescript",
	"k8s":        "kubernetes",
	"postgresql": "postgres",
	"psql":       "postgres",
	"react.js":   "react",
	"reactjs":    "react",
	"vue.js":     "vue",
	"vuejs":      "vue",
	"node.js":    "node.js",
	"nodejs":     "node.js",
	"ml":         "machine learning",
}

// Normalize lowercases and trims a skill name and maps known variants to
// their canonical form. Empty input normalizes to the empty string.
func Normalize(skill string) string {
	normalized := strings.ToLower(strings.TrimSpace(skill))
	if canonical, ok := skillNormalizations[normalized]; ok {
		return canonical
	}
	return normalized
}

// NormalizeSet normalizes and deduplicates a skill list, dropping empties.
// The result is sorted for stable output.
func NormalizeSet(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		normalized := Normalize(skill)
		if normalized == "" {
			continue
		}
		seen[normalized] = true
	}

	result := make([]string, 0, len(seen))
	for skill := range seen {
		result = append(result, skill)
	}
	sort.Strings(result)
	return result
}

// Matching returns the intersection of the required and candidate skill sets
// after normalization, sorted for stable output. It is computed locally so
// matching skills are available even when explanation generation fails.
func Matching(required, candidate []string) []string {
	have := make(map[string]bool, len(candidate))
	for _, skill := range candidate {
		if normalized := Normalize(skill); normalized != "" {
			have[normalized] = true
		}
	}

	seen := make(map[string]bool)
	matched := make([]string, 0)
	for _, skill := range required {
		normalized := Normalize(skill)
		if normalized == "" || seen[normalized] || !have[normalized] {
			continue
		}
		seen[normalized] = true
		matched = append(matched, normalized)
	}
	sort.Strings(matched)
	return matched
}
