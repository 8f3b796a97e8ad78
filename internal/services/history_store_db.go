package services

import (
	"postcraft_go_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryStoreDB abstracts persistence of the per-account generation log.
type HistoryStoreDB interface {
	CreateHistoryItem(item *models.HistoryItem) error
	// ListHistoryByUser returns items newest-first. limit <= 0 means no limit.
	ListHistoryByUser(userID uuid.UUID, limit int) ([]models.HistoryItem, error)
	DeleteHistoryItem(id uint) error
}

type DefaultHistoryStore struct {
	db *gorm.DB
}

func NewHistoryStoreDB(db *gorm.DB) HistoryStoreDB {
	return &DefaultHistoryStore{db: db}
}

func (s *DefaultHistoryStore) CreateHistoryItem(item *models.HistoryItem) error {
	return s.db.Create(item).Error
}

func (s *DefaultHistoryStore) ListHistoryByUser(userID uuid.UUID, limit int) ([]models.HistoryItem, error) {
	var items []models.HistoryItem
	query := s.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *DefaultHistoryStore) DeleteHistoryItem(id uint) error {
	return s.db.Delete(&models.HistoryItem{}, id).Error
}
