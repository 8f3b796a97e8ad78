package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryItem is one completed generation for an account. Immutable once
// written; the per-user log is trimmed to a fixed maximum after each append.
type HistoryItem struct {
	gorm.Model
	UserID     uuid.UUID `gorm:"type:uuid;index"`
	ItemID     string    `gorm:"index;unique"`
	Topic      string
	Platform   string
	Tone       string
	Language   string
	Text       string
	Refinement string
	Quality    []byte // JSON-encoded QualityAssessment
}

// QualityAssessment is the upstream's self-rating of a generated post.
type QualityAssessment struct {
	HookScore       int      `json:"hookScore"`
	ClarityScore    int      `json:"clarityScore"`
	EngagementLevel string   `json:"engagementLevel"`
	Suggestions     []string `json:"suggestions"`
}
