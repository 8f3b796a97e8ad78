package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// CachedGeneration is the outcome of a cache lookup or a fresh upstream call.
// EstimatedTokens is approximate cost accounting, not billing-grade: hits are
// estimated from prompt length alone, misses from prompt plus output.
type CachedGeneration struct {
	Text            string
	Cached          bool
	EstimatedTokens int
}

type cacheEntry struct {
	text      string
	createdAt time.Time
}

// ResponseCache deduplicates identical (caller, prompt) pairs within a TTL
// window. Process-local only: constructed once at startup and injected, so
// the per-instance scoping is explicit.
type ResponseCache struct {
	gemini *GeminiService
	ttl    time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewResponseCache(gemini *GeminiService, ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		gemini:  gemini,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// StartCleanup evicts expired entries in the background for the lifetime of
// the process.
func (rc *ResponseCache) StartCleanup(interval time.Duration) {
	go func() {
		for range time.Tick(interval) {
			rc.removeExpired()
		}
	}()
}

// GetOrGenerate returns a live cached result for (callerID, prompt) or calls
// the upstream and stores the fresh result. A stale entry is treated as
// absent and overwritten by the fresh write.
func (rc *ResponseCache) GetOrGenerate(ctx context.Context, callerID, prompt string) (CachedGeneration, error) {
	key := Fingerprint(callerID, prompt)

	rc.mu.Lock()
	entry, ok := rc.entries[key]
	rc.mu.Unlock()

	if ok && time.Since(entry.createdAt) < rc.ttl {
		return CachedGeneration{
			Text:            entry.text,
			Cached:          true,
			EstimatedTokens: estimateTokens(len(prompt)),
		}, nil
	}

	text, err := rc.gemini.Generate(ctx, prompt)
	if err != nil {
		return CachedGeneration{}, err
	}

	rc.mu.Lock()
	rc.entries[key] = cacheEntry{text: text, createdAt: time.Now()}
	rc.mu.Unlock()

	return CachedGeneration{
		Text:            text,
		Cached:          false,
		EstimatedTokens: estimateTokens(len(prompt) + len(text)),
	}, nil
}

// Fingerprint derives the fixed-size cache key from caller identity and the
// exact prompt text.
func Fingerprint(callerID, prompt string) string {
	sum := sha256.Sum256([]byte(callerID + ":" + prompt))
	return hex.EncodeToString(sum[:])
}

func (rc *ResponseCache) removeExpired() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	for key, entry := range rc.entries {
		if time.Since(entry.createdAt) >= rc.ttl {
			delete(rc.entries, key)
		}
	}
}

func estimateTokens(chars int) int {
	return (chars + 3) / 4
}
