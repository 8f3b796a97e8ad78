package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BrandProfile holds the free-text brand context rendered into every prompt.
// All fields are optional; empty strings are the default.
type BrandProfile struct {
	DisplayName    string `json:"displayName"`
	Bio            string `json:"bio"`
	WritingStyle   string `json:"writingStyle"`
	TargetAudience string `json:"targetAudience"`
}

// User is the per-account usage record. DailyGenerations resets lazily when
// LastResetDate falls behind the current date; TotalGenerations is monotonic.
type User struct {
	gorm.Model       `json:"-"`
	ID               uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	AuthID           string       `gorm:"unique;not null" json:"-"`
	Email            string       `json:"email"`
	Name             string       `json:"name"`
	DailyGenerations int          `json:"dailyGenerations"`
	TotalGenerations int          `json:"totalGenerations"`
	LastResetDate    string       `gorm:"size:10" json:"lastResetDate"`
	CooldownUntil    *time.Time   `json:"cooldownUntil,omitempty"`
	BrandProfile     BrandProfile `gorm:"embedded;embeddedPrefix:brand_" json:"brandProfile"`
}
