package services

import (
	"strings"
	"sync"
	"time"

	apperrors "postcraft_go_backend/internal/errors"
)

// GuestQuotaTracker counts generations per (IP, calendar day) in process
// memory. A soft abuse deterrent, not a billing control: state is lost on
// restart and there is no cross-instance coordination.
type GuestQuotaTracker struct {
	limit int

	mu    sync.Mutex
	usage map[string]int
}

func NewGuestQuotaTracker(limit int) *GuestQuotaTracker {
	return &GuestQuotaTracker{
		limit: limit,
		usage: make(map[string]int),
	}
}

// Check fails with GuestLimitExceeded once today's count for the IP is at or
// above the guest limit.
func (t *GuestQuotaTracker) Check(ip string) error {
	key := guestKey(ip, Today())

	t.mu.Lock()
	used := t.usage[key]
	t.mu.Unlock()

	if used >= t.limit {
		return apperrors.NewGuestLimitError()
	}
	return nil
}

// Increment records one successful generation for the IP today.
func (t *GuestQuotaTracker) Increment(ip string) {
	key := guestKey(ip, Today())

	t.mu.Lock()
	t.usage[key]++
	t.mu.Unlock()
}

// StartSweep periodically drops entries whose day is older than maxAge, so
// the map does not grow without bound across days.
func (t *GuestQuotaTracker) StartSweep(interval, maxAge time.Duration) {
	go func() {
		for range time.Tick(interval) {
			t.removeStale(maxAge)
		}
	}()
}

func (t *GuestQuotaTracker) removeStale(maxAge time.Duration) {
	cutoff := time.Now().UTC().Add(-maxAge)

	t.mu.Lock()
	defer t.mu.Unlock()
	for key := range t.usage {
		idx := strings.LastIndex(key, ":")
		if idx < 0 {
			continue
		}
		day, err := time.Parse("2006-01-02", key[idx+1:])
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			delete(t.usage, key)
		}
	}
}

func guestKey(ip, day string) string {
	return ip + ":" + day
}
