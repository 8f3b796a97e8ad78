package services

import (
	"context"
	"encoding/json"

	"postcraft_go_backend/internal/models"
)

// GenerationService orchestrates one generation request end to end:
// validation, caller classification, quota/cooldown enforcement, prompt
// building, cache-or-generate, quality analysis, usage commit and history.
type GenerationService struct {
	cache      *ResponseCache
	gemini     *GeminiService
	ledger     *AccountUsageLedger
	history    *HistoryStore
	guests     *GuestQuotaTracker
	dailyLimit int
	guestLimit int
}

func NewGenerationService(
	cache *ResponseCache,
	gemini *GeminiService,
	ledger *AccountUsageLedger,
	history *HistoryStore,
	guests *GuestQuotaTracker,
	dailyLimit int,
	guestLimit int,
) *GenerationService {
	return &GenerationService{
		cache:      cache,
		gemini:     gemini,
		ledger:     ledger,
		history:    history,
		guests:     guests,
		dailyLimit: dailyLimit,
		guestLimit: guestLimit,
	}
}

// UsageSummary reports the caller's quota position after a generation.
type UsageSummary struct {
	DailyGenerations int  `json:"dailyGenerations"`
	Limit            int  `json:"limit"`
	IsGuest          bool `json:"isGuest"`
}

// GenerationResult is the response body of /generate and /refine.
type GenerationResult struct {
	Text            string                   `json:"text"`
	Quality         models.QualityAssessment `json:"quality"`
	Usage           UsageSummary             `json:"usage"`
	RequiresLogin   bool                     `json:"requiresLogin,omitempty"`
	EstimatedTokens int                      `json:"estimatedTokens,omitempty"`
	Cached          bool                     `json:"cached"`
}

// GenerateForGuest runs the one-shot guest flow: quota check before any
// upstream work, empty brand context, no durable usage or history. The
// response is flagged so the client knows to prompt for login.
func (s *GenerationService) GenerateForGuest(ctx context.Context, ip string, raw GenerationInput) (*GenerationResult, error) {
	in, err := ValidateGenerationInput(raw)
	if err != nil {
		return nil, err
	}
	if err := s.guests.Check(ip); err != nil {
		return nil, err
	}

	prompt := BuildPrompt(in, models.BrandProfile{})
	generated, err := s.cache.GetOrGenerate(ctx, "guest:"+ip, prompt)
	if err != nil {
		return nil, err
	}
	quality := s.gemini.Analyze(ctx, generated.Text, in.Language)

	s.guests.Increment(ip)

	return &GenerationResult{
		Text:    generated.Text,
		Quality: quality,
		Usage: UsageSummary{
			DailyGenerations: 1,
			Limit:            s.guestLimit,
			IsGuest:          true,
		},
		RequiresLogin: true,
		Cached:        generated.Cached,
	}, nil
}

// GenerateForAccount runs the authenticated flow. Cooldown and daily-limit
// pre-checks fail fast before upstream work; the transactional increment
// inside the ledger is the authority that actually prevents over-commit.
// The returned usage numbers come from the post-commit record.
func (s *GenerationService) GenerateForAccount(ctx context.Context, user *models.User, raw GenerationInput) (*GenerationResult, error) {
	in, err := ValidateGenerationInput(raw)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.CheckCooldown(user); err != nil {
		return nil, err
	}
	if err := s.ledger.CheckDailyLimit(user); err != nil {
		return nil, err
	}

	prompt := BuildPrompt(in, user.BrandProfile)
	generated, err := s.cache.GetOrGenerate(ctx, user.AuthID, prompt)
	if err != nil {
		return nil, err
	}
	quality := s.gemini.Analyze(ctx, generated.Text, in.Language)

	updated, err := s.ledger.IncrementUsage(user.AuthID)
	if err != nil {
		return nil, err
	}

	qualityJSON, _ := json.Marshal(quality)
	item := &models.HistoryItem{
		UserID:     user.ID,
		ItemID:     NewHistoryItemID(),
		Topic:      in.Topic,
		Platform:   in.Platform,
		Tone:       in.Tone,
		Language:   in.Language,
		Text:       generated.Text,
		Refinement: in.Refinement,
		Quality:    qualityJSON,
	}
	if err := s.history.Append(user.ID, item); err != nil {
		return nil, err
	}

	return &GenerationResult{
		Text:    generated.Text,
		Quality: quality,
		Usage: UsageSummary{
			DailyGenerations: updated.DailyGenerations,
			Limit:            s.dailyLimit,
			IsGuest:          false,
		},
		EstimatedTokens: generated.EstimatedTokens,
		Cached:          generated.Cached,
	}, nil
}

// History returns the account's generation log with all provided filters
// applied.
func (s *GenerationService) History(user *models.User, filters HistoryFilters) ([]HistoryEntry, error) {
	return s.history.Query(user.ID, filters)
}

// DashboardSummary aggregates an account's usage for the dashboard endpoint.
type DashboardSummary struct {
	TotalPosts        int            `json:"totalPosts"`
	DailyUsage        int            `json:"dailyUsage"`
	Limit             int            `json:"limit"`
	MostUsedPlatform  string         `json:"mostUsedPlatform"`
	MostUsedTone      string         `json:"mostUsedTone"`
	PlatformBreakdown map[string]int `json:"platformBreakdown"`
	ToneBreakdown     map[string]int `json:"toneBreakdown"`
}

// Dashboard computes aggregate counts from the account record and the stored
// history.
func (s *GenerationService) Dashboard(user *models.User) (*DashboardSummary, error) {
	entries, err := s.history.Query(user.ID, HistoryFilters{})
	if err != nil {
		return nil, err
	}

	platformCounts := make(map[string]int)
	toneCounts := make(map[string]int)
	for _, entry := range entries {
		platformCounts[entry.Platform]++
		toneCounts[entry.Tone]++
	}

	return &DashboardSummary{
		TotalPosts:        user.TotalGenerations,
		DailyUsage:        user.DailyGenerations,
		Limit:             s.dailyLimit,
		MostUsedPlatform:  mostUsed(platformCounts),
		MostUsedTone:      mostUsed(toneCounts),
		PlatformBreakdown: platformCounts,
		ToneBreakdown:     toneCounts,
	}, nil
}

func mostUsed(counts map[string]int) string {
	best := "N/A"
	bestCount := 0
	for value, count := range counts {
		if count > bestCount {
			best = value
			bestCount = count
		}
	}
	return best
}
