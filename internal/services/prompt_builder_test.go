package services

import (
	"strings"
	"testing"

	"postcraft_go_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptDeterminism(t *testing.T) {
	in := GenerationInput{
		Topic:    "Launching my new AI newsletter",
		Platform: "LinkedIn",
		Tone:     "Professional",
		Language: "English",
	}
	profile := models.BrandProfile{
		DisplayName: "Ada",
		Bio:         "Indie hacker",
	}

	first := BuildPrompt(in, profile)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildPrompt(in, profile), "identical inputs must produce byte-identical prompts")
	}
}

func TestBuildPromptRendersAllInputs(t *testing.T) {
	in := GenerationInput{
		Topic:      "Morning routines",
		Platform:   "Instagram",
		Tone:       "Casual",
		Language:   "Spanish",
		Refinement: "Stronger hook",
	}
	profile := models.BrandProfile{
		DisplayName:    "Ada",
		Bio:            "Indie hacker",
		WritingStyle:   "Punchy",
		TargetAudience: "Founders",
	}

	prompt := BuildPrompt(in, profile)
	assert.Contains(t, prompt, "Topic: Morning routines")
	assert.Contains(t, prompt, "Platform: Instagram")
	assert.Contains(t, prompt, "Tone: Casual")
	assert.Contains(t, prompt, "Refinement: Stronger hook")
	assert.Contains(t, prompt, "Display Name: Ada")
	assert.Contains(t, prompt, "Target Audience: Founders")
	assert.Contains(t, prompt, "Return only the post text.")
}

func TestBuildPromptEmptyProfileUsesPlaceholders(t *testing.T) {
	in := GenerationInput{
		Topic:    "Morning routines",
		Platform: "Instagram",
		Tone:     "Casual",
		Language: "English",
	}

	prompt := BuildPrompt(in, models.BrandProfile{})
	assert.Contains(t, prompt, "Display Name: N/A")
	assert.Contains(t, prompt, "Bio: N/A")
	assert.Contains(t, prompt, "Writing Style: N/A")
	assert.Contains(t, prompt, "Target Audience: N/A")
	assert.Contains(t, prompt, "Refinement: None")

	// An explicitly empty profile and an untouched one must fingerprint the same.
	assert.Equal(t, prompt, BuildPrompt(in, models.BrandProfile{DisplayName: "", Bio: ""}))
	assert.Equal(t, 1, strings.Count(prompt, "Refinement:"))
}
