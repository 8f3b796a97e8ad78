package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "postcraft_go_backend/internal/errors"
	"postcraft_go_backend/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
)

const maxGenerateAttempts = 3

// TextGenerator is the raw upstream completion call, one attempt, no retry.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GenAIGenerator implements TextGenerator on top of the Gemini SDK client.
type GenAIGenerator struct {
	client          *genai.Client
	modelName       string
	maxOutputTokens int32
}

func NewGenAIGenerator(client *genai.Client, modelName string, maxOutputTokens int32) *GenAIGenerator {
	return &GenAIGenerator{
		client:          client,
		modelName:       modelName,
		maxOutputTokens: maxOutputTokens,
	}
}

func (g *GenAIGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(0.8)
	model.SetMaxOutputTokens(g.maxOutputTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", nil
	}
	return strings.TrimSpace(string(text)), nil
}

// GeminiService wraps the upstream with retry and a structured quality
// analysis call.
type GeminiService struct {
	generator TextGenerator
}

func NewGeminiService(generator TextGenerator) *GeminiService {
	return &GeminiService{generator: generator}
}

// Generate calls the upstream with up to 3 attempts, retrying on transport
// failure and empty output. A confirmed upstream rate limit is surfaced
// immediately as RateLimitExceeded instead of burning retry budget.
func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		text, err := s.generator.GenerateText(ctx, prompt)
		if err != nil {
			if isRateLimited(err) {
				return "", apperrors.NewRateLimitError("Generation rate limit reached. Please wait a moment and try again.")
			}
			lastErr = err
			continue
		}
		if text == "" {
			lastErr = fmt.Errorf("upstream returned empty output")
			continue
		}
		return text, nil
	}
	return "", apperrors.NewUpstreamError(fmt.Sprintf("Generation failed after retries: %v", lastErr))
}

// Analyze asks the upstream to self-rate a generated post as strict JSON.
// Best effort: any upstream or parse failure yields the fixed fallback
// assessment so quality scoring never blocks delivery of the post itself.
func (s *GeminiService) Analyze(ctx context.Context, post, language string) models.QualityAssessment {
	prompt := fmt.Sprintf(
		"Analyze this %s social post and return strict JSON with keys hookScore (0-10), clarityScore (0-10), engagementLevel (Low|Medium|High), suggestions (array of short strings). Post: %s",
		language, post,
	)

	text, err := s.Generate(ctx, prompt)
	if err != nil {
		return FallbackQualityAssessment()
	}

	normalized := strings.ReplaceAll(text, "```json", "")
	normalized = strings.ReplaceAll(normalized, "```", "")
	normalized = strings.TrimSpace(normalized)

	var quality models.QualityAssessment
	if err := json.Unmarshal([]byte(normalized), &quality); err != nil {
		return FallbackQualityAssessment()
	}
	return quality
}

// FallbackQualityAssessment is returned whenever the upstream's self-rating
// cannot be obtained or parsed.
func FallbackQualityAssessment() models.QualityAssessment {
	return models.QualityAssessment{
		HookScore:       7,
		ClarityScore:    7,
		EngagementLevel: "Medium",
		Suggestions: []string{
			"Add a stronger opening line.",
			"Use one concrete example.",
			"End with a clearer CTA.",
		},
	}
}

func isRateLimited(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	return false
}
