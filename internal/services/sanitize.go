package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	apperrors "postcraft_go_backend/internal/errors"
)

const DefaultLanguage = "English"

var (
	AllowedPlatforms   = []string{"Instagram", "LinkedIn", "Twitter/X"}
	AllowedTones       = []string{"Professional", "Casual", "Motivational"}
	AllowedLanguages   = []string{"English", "Spanish", "French", "German"}
	AllowedRefinements = []string{"Stronger hook", "More concise", "More playful", "Add statistics", "Stronger CTA"}
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeValue strips angle brackets, collapses whitespace runs to single
// spaces and trims the ends. Applied to every free-text field before use.
func SanitizeValue(raw string) string {
	cleaned := strings.NewReplacer("<", "", ">", "").Replace(raw)
	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// GenerationInput is a sanitized, validated generation request.
type GenerationInput struct {
	Topic      string
	Platform   string
	Tone       string
	Language   string
	Refinement string
}

// ValidateGenerationInput sanitizes all fields and checks them against the
// allowed sets. Language defaults to English when absent; Refinement is only
// validated when provided.
func ValidateGenerationInput(raw GenerationInput) (GenerationInput, error) {
	in := GenerationInput{
		Topic:      SanitizeValue(raw.Topic),
		Platform:   SanitizeValue(raw.Platform),
		Tone:       SanitizeValue(raw.Tone),
		Language:   SanitizeValue(raw.Language),
		Refinement: SanitizeValue(raw.Refinement),
	}
	if in.Language == "" {
		in.Language = DefaultLanguage
	}

	if utf8.RuneCountInString(in.Topic) < 3 {
		return GenerationInput{}, apperrors.NewValidationError("Topic is required and should be at least 3 characters long.")
	}
	if !containsValue(AllowedPlatforms, in.Platform) {
		return GenerationInput{}, apperrors.NewValidationError(fmt.Sprintf("Platform must be one of: %s.", strings.Join(AllowedPlatforms, ", ")))
	}
	if !containsValue(AllowedTones, in.Tone) {
		return GenerationInput{}, apperrors.NewValidationError(fmt.Sprintf("Tone must be one of: %s.", strings.Join(AllowedTones, ", ")))
	}
	if !containsValue(AllowedLanguages, in.Language) {
		return GenerationInput{}, apperrors.NewValidationError(fmt.Sprintf("Language must be one of: %s.", strings.Join(AllowedLanguages, ", ")))
	}
	if in.Refinement != "" && !containsValue(AllowedRefinements, in.Refinement) {
		return GenerationInput{}, apperrors.NewValidationError("Invalid refinement type.")
	}

	return in, nil
}

func containsValue(allowed []string, value string) bool {
	for _, v := range allowed {
		if v == value {
			return true
		}
	}
	return false
}
