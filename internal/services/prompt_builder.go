package services

import (
	"fmt"

	"postcraft_go_backend/internal/models"
)

// promptTemplate renders every input, including empty brand fields, so that
// identical inputs always produce byte-identical prompts. Cache keys depend
// on this.
const promptTemplate = `You are an expert social media copywriter.
Generate one high-quality %s post in %s using the information below.

Inputs:
- Topic: %s
- Platform: %s
- Tone: %s
- Refinement: %s

Brand context:
- Display Name: %s
- Bio: %s
- Writing Style: %s
- Target Audience: %s

Requirements:
1) Match the requested tone naturally.
2) Optimize style for %s best practices.
3) Include 1 strong hook in the first line.
4) Add a clear call-to-action in the final line.
5) Include relevant emojis sparingly.
6) Include 3 to 5 relevant hashtags at the end.

Output format:
- Return only the post text.
- Do not include titles, labels, or explanations.
`

// BuildPrompt renders a generation request into the upstream prompt string.
// Pure and deterministic.
func BuildPrompt(in GenerationInput, profile models.BrandProfile) string {
	return fmt.Sprintf(promptTemplate,
		in.Platform,
		in.Language,
		in.Topic,
		in.Platform,
		in.Tone,
		orPlaceholder(in.Refinement, "None"),
		orPlaceholder(profile.DisplayName, "N/A"),
		orPlaceholder(profile.Bio, "N/A"),
		orPlaceholder(profile.WritingStyle, "N/A"),
		orPlaceholder(profile.TargetAudience, "N/A"),
		in.Platform,
	)
}

func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}
