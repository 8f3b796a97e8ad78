package api

import (
	"net/http"

	"postcraft_go_backend/internal/auth"
	apperrors "postcraft_go_backend/internal/errors"
	"postcraft_go_backend/internal/models"
	"postcraft_go_backend/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, generationService *services.GenerationService, ledger *services.AccountUsageLedger, limiter *RateLimiter) {
	r.GET("/health", healthHandler)
	r.NoRoute(notFoundHandler)

	api := r.Group("/api")
	api.Use(RateLimitMiddleware(limiter))
	{
		api.POST("/generate", generateHandler(generationService, ledger))
		api.POST("/refine", auth.AuthMiddleware(ledger), refineHandler(generationService))
		api.GET("/history", auth.AuthMiddleware(ledger), historyHandler(generationService))
		api.POST("/profile", auth.AuthMiddleware(ledger), profileHandler(ledger))
		api.GET("/dashboard", auth.AuthMiddleware(ledger), dashboardHandler(generationService))
		api.GET("/me", auth.AuthMiddleware(ledger), meHandler)
	}
}

type generateRequest struct {
	Topic      string `json:"topic"`
	Platform   string `json:"platform"`
	Tone       string `json:"tone"`
	Language   string `json:"language"`
	Refinement string `json:"refinement"`
}

func (req generateRequest) toInput() services.GenerationInput {
	return services.GenerationInput{
		Topic:      req.Topic,
		Platform:   req.Platform,
		Tone:       req.Tone,
		Language:   req.Language,
		Refinement: req.Refinement,
	}
}

// generateHandler serves both caller classes: no Authorization header means
// the one-shot guest flow, otherwise the full authenticated pipeline.
func generateHandler(generationService *services.GenerationService, ledger *services.AccountUsageLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req generateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.HandleError(c, apperrors.NewValidationError("Invalid request body."))
			return
		}
		req.Refinement = "" // refinement is only accepted on /refine

		if c.GetHeader("Authorization") == "" {
			result, err := generationService.GenerateForGuest(c.Request.Context(), c.ClientIP(), req.toInput())
			if err != nil {
				apperrors.HandleError(c, err)
				return
			}
			c.JSON(http.StatusOK, result)
			return
		}

		user, err := auth.Authenticate(c, ledger)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		result, err := generationService.GenerateForAccount(c.Request.Context(), user, req.toInput())
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func refineHandler(generationService *services.GenerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.CurrentUser(c)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		var req generateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.HandleError(c, apperrors.NewValidationError("Invalid request body."))
			return
		}
		if services.SanitizeValue(req.Refinement) == "" {
			apperrors.HandleError(c, apperrors.NewValidationError("Invalid refinement type."))
			return
		}

		result, err := generationService.GenerateForAccount(c.Request.Context(), user, req.toInput())
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func historyHandler(generationService *services.GenerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.CurrentUser(c)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		filters := services.HistoryFilters{
			Platform: services.SanitizeValue(c.Query("platform")),
			Tone:     services.SanitizeValue(c.Query("tone")),
			Date:     services.SanitizeValue(c.Query("date")),
		}
		items, err := generationService.History(user, filters)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"history": items})
	}
}

func profileHandler(ledger *services.AccountUsageLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.CurrentUser(c)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		var req struct {
			DisplayName    string `json:"displayName"`
			Bio            string `json:"bio"`
			WritingStyle   string `json:"writingStyle"`
			TargetAudience string `json:"targetAudience"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.HandleError(c, apperrors.NewValidationError("Invalid request body."))
			return
		}

		profile := models.BrandProfile{
			DisplayName:    services.SanitizeValue(req.DisplayName),
			Bio:            services.SanitizeValue(req.Bio),
			WritingStyle:   services.SanitizeValue(req.WritingStyle),
			TargetAudience: services.SanitizeValue(req.TargetAudience),
		}
		if err := ledger.UpdateBrandProfile(user.AuthID, profile); err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "profile": profile})
	}
}

func dashboardHandler(generationService *services.GenerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.CurrentUser(c)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		dashboard, err := generationService.Dashboard(user)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, dashboard)
	}
}

func meHandler(c *gin.Context) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func notFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Route not found."})
}
