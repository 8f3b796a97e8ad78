package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"postcraft_go_backend/internal/models"
	"postcraft_go_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	text string
}

func (s stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return s.text, nil
}

type noopUserStore struct{}

func (noopUserStore) GetUserByAuthID(authID string) (*models.User, error) { return nil, nil }
func (noopUserStore) CreateUser(user *models.User) error                 { return nil }
func (noopUserStore) SaveUser(user *models.User) error                   { return nil }
func (noopUserStore) UpdateBrandProfile(authID string, profile models.BrandProfile) error {
	return nil
}
func (noopUserStore) UpdateUsageTx(authID string, fn func(user *models.User) error) (*models.User, error) {
	return nil, nil
}

type noopHistoryStore struct{}

func (noopHistoryStore) CreateHistoryItem(item *models.HistoryItem) error { return nil }
func (noopHistoryStore) ListHistoryByUser(userID uuid.UUID, limit int) ([]models.HistoryItem, error) {
	return nil, nil
}
func (noopHistoryStore) DeleteHistoryItem(id uint) error { return nil }

func newTestRouter(requestsPerMinute int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	gemini := services.NewGeminiService(stubGenerator{text: "A great post!"})
	cache := services.NewResponseCache(gemini, 5*time.Minute)
	ledger := services.NewAccountUsageLedger(noopUserStore{}, 10, 10*time.Second)
	history := services.NewHistoryStore(noopHistoryStore{}, 20)
	guests := services.NewGuestQuotaTracker(1)
	generationService := services.NewGenerationService(cache, gemini, ledger, history, guests, 10, 1)

	r := gin.New()
	SetupRoutes(r, generationService, ledger, NewRateLimiter(requestsPerMinute))
	return r
}

func postGenerate(r *gin.Engine, ip string, body map[string]string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = ip + ":51234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validBody() map[string]string {
	return map[string]string{
		"topic":    "Launching my new AI newsletter",
		"platform": "LinkedIn",
		"tone":     "Professional",
		"language": "English",
	}
}

func TestGuestGenerateEndToEnd(t *testing.T) {
	r := newTestRouter(30)

	first := postGenerate(r, "203.0.113.7", validBody())
	require.Equal(t, http.StatusOK, first.Code)

	var response struct {
		Text          string `json:"text"`
		RequiresLogin bool   `json:"requiresLogin"`
		Usage         struct {
			DailyGenerations int  `json:"dailyGenerations"`
			Limit            int  `json:"limit"`
			IsGuest          bool `json:"isGuest"`
		} `json:"usage"`
		Quality struct {
			HookScore       int    `json:"hookScore"`
			ClarityScore    int    `json:"clarityScore"`
			EngagementLevel string `json:"engagementLevel"`
		} `json:"quality"`
	}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &response))
	assert.Equal(t, "A great post!", response.Text)
	assert.True(t, response.RequiresLogin)
	assert.True(t, response.Usage.IsGuest)
	assert.Equal(t, 1, response.Usage.Limit)
	// The stub's analysis output is not JSON, so the fixed fallback applies.
	assert.Equal(t, 7, response.Quality.HookScore)
	assert.Equal(t, 7, response.Quality.ClarityScore)
	assert.Equal(t, "Medium", response.Quality.EngagementLevel)

	second := postGenerate(r, "203.0.113.7", validBody())
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	var denial struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &denial))
	assert.Equal(t, "GuestLimitExceeded", denial.Error)
}

func TestGenerateValidationFailure(t *testing.T) {
	r := newTestRouter(30)

	body := validBody()
	body["platform"] = "MySpace"
	w := postGenerate(r, "203.0.113.7", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var denial struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &denial))
	assert.Equal(t, "ValidationError", denial.Error)
}

func TestAuthenticatedRoutesRejectMissingToken(t *testing.T) {
	r := newTestRouter(30)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var denial struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &denial))
	assert.Equal(t, "Unauthorized", denial.Error)
}

func TestOuterRateLimiter(t *testing.T) {
	r := newTestRouter(2)

	body := validBody()
	body["platform"] = "MySpace" // fails validation, still counts against the cap
	postGenerate(r, "203.0.113.9", body)
	postGenerate(r, "203.0.113.9", body)
	third := postGenerate(r, "203.0.113.9", body)

	require.Equal(t, http.StatusTooManyRequests, third.Code)
	var denial struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(third.Body.Bytes(), &denial))
	assert.Equal(t, "TooManyRequests", denial.Error)
	assert.Equal(t, "60", third.Header().Get("Retry-After"))
}

func TestHealthAndNotFound(t *testing.T) {
	r := newTestRouter(30)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"NotFound","message":"Route not found."}`, w.Body.String())
}
