package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "postcraft_go_backend/internal/errors"
	"postcraft_go_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// fakeUserStore is an in-memory UserStoreDB honoring the same transaction
// contract as the gorm implementation: UpdateUsageTx serializes
// read-modify-write cycles per store.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (s *fakeUserStore) GetUserByAuthID(authID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[authID]
	if !ok {
		return nil, nil
	}
	copied := user
	return &copied, nil
}

func (s *fakeUserStore) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.users[user.AuthID] = *user
	return nil
}

func (s *fakeUserStore) SaveUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.AuthID] = *user
	return nil
}

func (s *fakeUserStore) UpdateBrandProfile(authID string, profile models.BrandProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[authID]
	if !ok {
		return apperrors.NewUserNotFoundError()
	}
	user.BrandProfile = profile
	s.users[authID] = user
	return nil
}

func (s *fakeUserStore) UpdateUsageTx(authID string, fn func(user *models.User) error) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[authID]
	if !ok {
		return nil, apperrors.NewUserNotFoundError()
	}
	if err := fn(&user); err != nil {
		return nil, err
	}
	s.users[authID] = user
	copied := user
	return &copied, nil
}

// fakeHistoryStore is an in-memory HistoryStoreDB keeping items newest-first.
type fakeHistoryStore struct {
	mu     sync.Mutex
	nextID uint
	items  []models.HistoryItem
}

func newFakeHistoryStore() *fakeHistoryStore {
	return &fakeHistoryStore{}
}

func (s *fakeHistoryStore) CreateHistoryItem(item *models.HistoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	item.ID = s.nextID
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	s.items = append(s.items, *item)
	return nil
}

func (s *fakeHistoryStore) ListHistoryByUser(userID uuid.UUID, limit int) ([]models.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.HistoryItem
	for _, item := range s.items {
		if item.UserID == userID {
			matched = append(matched, item)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *fakeHistoryStore) DeleteHistoryItem(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}
