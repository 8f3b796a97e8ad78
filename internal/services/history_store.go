package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"postcraft_go_backend/internal/models"

	"github.com/google/uuid"
)

// HistoryStore keeps a size-bounded, append-only generation log per account.
type HistoryStore struct {
	store    HistoryStoreDB
	maxItems int
}

func NewHistoryStore(store HistoryStoreDB, maxItems int) *HistoryStore {
	return &HistoryStore{store: store, maxItems: maxItems}
}

// HistoryFilters are optional exact-match filters for Query. Date matches the
// calendar-date portion (YYYY-MM-DD) of the creation timestamp.
type HistoryFilters struct {
	Platform string
	Tone     string
	Date     string
}

// HistoryEntry is the client-facing shape of one logged generation.
type HistoryEntry struct {
	ID         string                    `json:"id"`
	Topic      string                    `json:"topic"`
	Platform   string                    `json:"platform"`
	Tone       string                    `json:"tone"`
	Language   string                    `json:"language"`
	Text       string                    `json:"text"`
	Refinement string                    `json:"refinement,omitempty"`
	Quality    *models.QualityAssessment `json:"quality,omitempty"`
	CreatedAt  string                    `json:"createdAt"`
}

// Append writes the item, then trims everything beyond the newest maxItems so
// the log stays bounded.
func (h *HistoryStore) Append(userID uuid.UUID, item *models.HistoryItem) error {
	if err := h.store.CreateHistoryItem(item); err != nil {
		return err
	}

	all, err := h.store.ListHistoryByUser(userID, 0)
	if err != nil {
		return err
	}
	for i := h.maxItems; i < len(all); i++ {
		if err := h.store.DeleteHistoryItem(all[i].ID); err != nil {
			return err
		}
	}
	return nil
}

// Query returns up to maxItems entries newest-first, then applies all
// provided filters by exact match.
func (h *HistoryStore) Query(userID uuid.UUID, filters HistoryFilters) ([]HistoryEntry, error) {
	items, err := h.store.ListHistoryByUser(userID, h.maxItems)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(items))
	for _, item := range items {
		if filters.Platform != "" && item.Platform != filters.Platform {
			continue
		}
		if filters.Tone != "" && item.Tone != filters.Tone {
			continue
		}
		if filters.Date != "" && item.CreatedAt.UTC().Format("2006-01-02") != filters.Date {
			continue
		}

		var quality *models.QualityAssessment
		if len(item.Quality) > 0 {
			var parsed models.QualityAssessment
			if err := json.Unmarshal(item.Quality, &parsed); err == nil {
				quality = &parsed
			}
		}

		entries = append(entries, HistoryEntry{
			ID:         item.ItemID,
			Topic:      item.Topic,
			Platform:   item.Platform,
			Tone:       item.Tone,
			Language:   item.Language,
			Text:       item.Text,
			Refinement: item.Refinement,
			Quality:    quality,
			CreatedAt:  item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return entries, nil
}

// NewHistoryItemID builds the time-derived identifier for a history item.
func NewHistoryItemID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}
