package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"postcraft_go_backend/cmd/api/config"
	"postcraft_go_backend/internal/api"
	"postcraft_go_backend/internal/database"
	"postcraft_go_backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY is not set in the environment")
	}

	ctx := context.Background()

	database.InitDB()

	cfg := config.NewConfig()

	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}
	defer genaiClient.Close()

	// Initialize internal services
	generator := services.NewGenAIGenerator(genaiClient, cfg.GenerationModel, cfg.MaxOutputTokens)
	geminiService := services.NewGeminiService(generator)

	responseCache := services.NewResponseCache(geminiService, cfg.CacheTTL)
	responseCache.StartCleanup(cfg.CacheTTL)

	guestTracker := services.NewGuestQuotaTracker(cfg.GuestGenerationLimit)
	guestTracker.StartSweep(cfg.GuestSweepInterval, cfg.GuestEntryMaxAge)

	userStore := services.NewUserStoreDB(database.DB)
	ledger := services.NewAccountUsageLedger(userStore, cfg.DailyGenerationLimit, cfg.CooldownPeriod)

	historyStore := services.NewHistoryStore(services.NewHistoryStoreDB(database.DB), cfg.MaxHistoryItems)

	generationService := services.NewGenerationService(
		responseCache,
		geminiService,
		ledger,
		historyStore,
		guestTracker,
		cfg.DailyGenerationLimit,
		cfg.GuestGenerationLimit,
	)

	r := gin.Default()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173" // Default to your local frontend
	}

	// CORS middleware configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(allowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	limiter := api.NewRateLimiter(cfg.RequestsPerMinute)
	api.SetupRoutes(r, generationService, ledger, limiter)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
