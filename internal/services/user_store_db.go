package services

import (
	"errors"

	apperrors "postcraft_go_backend/internal/errors"
	"postcraft_go_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserStoreDB abstracts account persistence, including the transactional
// read-modify-write the usage ledger depends on. The gorm implementation
// backs production; tests run against an in-memory fake honoring the same
// contract.
type UserStoreDB interface {
	// GetUserByAuthID returns (nil, nil) when no record exists.
	GetUserByAuthID(authID string) (*models.User, error)
	CreateUser(user *models.User) error
	SaveUser(user *models.User) error
	UpdateBrandProfile(authID string, profile models.BrandProfile) error
	// UpdateUsageTx re-reads the row under a lock, applies fn and writes the
	// result, all inside one transaction. An error from fn aborts the write.
	UpdateUsageTx(authID string, fn func(user *models.User) error) (*models.User, error)
}

type DefaultUserStore struct {
	db *gorm.DB
}

func NewUserStoreDB(db *gorm.DB) UserStoreDB {
	return &DefaultUserStore{db: db}
}

func (s *DefaultUserStore) GetUserByAuthID(authID string) (*models.User, error) {
	var user models.User
	err := s.db.Where("auth_id = ?", authID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *DefaultUserStore) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

func (s *DefaultUserStore) SaveUser(user *models.User) error {
	return s.db.Save(user).Error
}

func (s *DefaultUserStore) UpdateBrandProfile(authID string, profile models.BrandProfile) error {
	return s.db.Model(&models.User{}).Where("auth_id = ?", authID).
		Updates(map[string]interface{}{
			"brand_display_name":    profile.DisplayName,
			"brand_bio":             profile.Bio,
			"brand_writing_style":   profile.WritingStyle,
			"brand_target_audience": profile.TargetAudience,
		}).Error
}

func (s *DefaultUserStore) UpdateUsageTx(authID string, fn func(user *models.User) error) (*models.User, error) {
	var updated *models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("auth_id = ?", authID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewUserNotFoundError()
			}
			return err
		}
		if err := fn(&user); err != nil {
			return err
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		updated = &user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
