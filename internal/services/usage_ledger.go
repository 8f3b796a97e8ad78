package services

import (
	"math"
	"time"

	apperrors "postcraft_go_backend/internal/errors"
	"postcraft_go_backend/internal/models"
)

// AccountUsageLedger governs per-account generation usage: lazy daily reset,
// cooldown, daily limit, and the atomic increment that is the sole authority
// under concurrent requests for the same account.
type AccountUsageLedger struct {
	store      UserStoreDB
	dailyLimit int
	cooldown   time.Duration
}

func NewAccountUsageLedger(store UserStoreDB, dailyLimit int, cooldown time.Duration) *AccountUsageLedger {
	return &AccountUsageLedger{
		store:      store,
		dailyLimit: dailyLimit,
		cooldown:   cooldown,
	}
}

// Today is the calendar date used for daily resets and guest keys.
func Today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// GetOrCreate returns the account record, creating a zeroed default on first
// sight of an identity and applying the lazy daily reset before returning.
func (l *AccountUsageLedger) GetOrCreate(authID, email, name string) (*models.User, error) {
	user, err := l.store.GetUserByAuthID(authID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &models.User{
			AuthID:        authID,
			Email:         email,
			Name:          name,
			LastResetDate: Today(),
		}
		if err := l.store.CreateUser(user); err != nil {
			return nil, err
		}
		return user, nil
	}

	if user.LastResetDate != Today() {
		user.DailyGenerations = 0
		user.LastResetDate = Today()
		if err := l.store.SaveUser(user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// CheckCooldown fails with CooldownActive while the account's cooldown is in
// the future.
func (l *AccountUsageLedger) CheckCooldown(user *models.User) error {
	if user.CooldownUntil == nil {
		return nil
	}
	remaining := time.Until(*user.CooldownUntil)
	if remaining > 0 {
		return apperrors.NewCooldownError(int(math.Ceil(remaining.Seconds())))
	}
	return nil
}

// CheckDailyLimit is the advisory pre-check used to fail fast before any
// upstream work. Only IncrementUsage is authoritative.
func (l *AccountUsageLedger) CheckDailyLimit(user *models.User) error {
	if user.DailyGenerations >= l.dailyLimit {
		return apperrors.NewDailyLimitError(l.dailyLimit)
	}
	return nil
}

// IncrementUsage commits one generation inside a single transaction: re-read
// current state, apply the lazy reset, re-check the daily limit, then write
// daily+1, lifetime+1, today's reset date and a fresh cooldown. The re-check
// closes the race window left open by the advisory pre-check: of two
// requests racing past a stale read, at most one increments past the limit.
func (l *AccountUsageLedger) IncrementUsage(authID string) (*models.User, error) {
	return l.store.UpdateUsageTx(authID, func(user *models.User) error {
		daily := user.DailyGenerations
		if user.LastResetDate != Today() {
			daily = 0
		}
		if daily >= l.dailyLimit {
			return apperrors.NewDailyLimitError(l.dailyLimit)
		}

		until := time.Now().Add(l.cooldown)
		user.DailyGenerations = daily + 1
		user.TotalGenerations++
		user.LastResetDate = Today()
		user.CooldownUntil = &until
		return nil
	})
}

// UpdateBrandProfile upserts the brand profile fields. Independent of the
// usage fields, so no transaction is needed.
func (l *AccountUsageLedger) UpdateBrandProfile(authID string, profile models.BrandProfile) error {
	return l.store.UpdateBrandProfile(authID, profile)
}
