package explain

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	// maxJobChars and maxResumeChars bound the prompt size.
	maxJobChars    = 1500
	maxResumeChars = 2000
)

// GeminiProvider implements Provider using a Gemini generative model.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates an explanation provider backed by the Gemini API.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("explanation model is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, model: model}, nil
}

// Explain asks the model why the resume matches the job.
func (p *GeminiProvider) Explain(ctx context.Context, req Request) (string, error) {
	model := p.client.GenerativeModel(p.model)
	model.SetTemperature(0.1) // Low temperature for consistent output

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(req)))
	if err != nil {
		return "", fmt.Errorf("failed to generate explanation: %w", err)
	}

	text, err := extractText(resp)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Close releases resources held by the underlying client.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// buildPrompt renders the match-explanation prompt.
func buildPrompt(req Request) string {
	skillsLine := ""
	if len(req.MatchingSkills) > 0 {
		skillsLine = fmt.Sprintf("\nMatching Skills Found: %s", strings.Join(req.MatchingSkills, ", "))
	}

	return fmt.Sprintf(`You are an AI recruitment assistant. Analyze the following job description and resume, then provide a concise explanation of why they match.

JOB DESCRIPTION:
%s

RESUME CONTENT:
%s

SIMILARITY SCORE: %.2f%s

Please provide a brief, professional explanation (2-3 sentences) covering:
1. Key matching qualifications or skills
2. Relevant experience alignment
3. Why this candidate would be a good fit

Keep the explanation concise, specific, and professional. Focus on the most relevant matches.`,
		truncate(req.JobText, maxJobChars),
		truncate(req.ResumeContent, maxResumeChars),
		req.SimilarityScore,
		skillsLine)
}

// truncate caps text at max bytes, backing off to a rune boundary so the
// prompt never carries a split multibyte character.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// extractText pulls the text parts out of a Gemini response.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
