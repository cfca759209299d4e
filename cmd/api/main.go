package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/applypilot/applypilot-web/internal/auth"
	"github.com/applypilot/applypilot-web/internal/backend"
	"github.com/applypilot/applypilot-web/internal/config"
	"github.com/applypilot/applypilot-web/internal/database"
	"github.com/applypilot/applypilot-web/internal/gate"
	"github.com/applypilot/applypilot-web/internal/handlers"
	"github.com/applypilot/applypilot-web/internal/services"
	"github.com/applypilot/applypilot-web/internal/stores"
)

func main() {
	// 1. Load Configuration (.env + environment)
	cfg := config.Load()

	// 2. Core Backend Client
	client := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout)

	// 3. Entity Stores (cached copies of the backend's collections)
	jobStore := stores.NewJobStore(client)
	appStore := stores.NewApplicationStore(client)

	// 4. AI Services (optional: only with a Gemini key)
	var llmService *services.LLMService
	if cfg.GeminiAPIKey != "" {
		var err error
		llmService, err = services.NewLLMService(cfg.GeminiAPIKey)
		if err != nil {
			log.Fatal("Failed to create Gemini client:", err)
		}
		log.Println("✅ Gemini client connected.")
	}
	enhanceService := services.NewEnhanceService(client, llmService, cfg.EnhanceProvider)

	// 5. Email Watcher (optional: needs local DB + Gmail credentials + Gemini)
	if cfg.DatabaseDSN != "" {
		db := database.Connect(cfg.DatabaseDSN)

		log.Println("Initializing Gmail client...")
		var gmailService *gmail.Service
		httpClient, err := auth.GetGmailClient(cfg.GmailCredentialsPath, cfg.GmailTokenPath)
		if err != nil {
			log.Printf("⚠️ Gmail auth unavailable: %v", err)
		} else {
			gmailService, err = gmail.NewService(context.Background(), option.WithHTTPClient(httpClient))
			if err != nil {
				log.Printf("⚠️ Failed to create Gmail service: %v", err)
			} else {
				log.Println("✅ Gmail service connected.")
			}
		}

		matcherService := services.NewMatcherService(appStore)
		emailService := services.NewEmailService(db, llmService, matcherService, appStore, gmailService, cfg.WatcherInterval)
		emailService.StartWatcher()
	} else {
		log.Println("⚠️ Email Watcher disabled (no DATABASE_DSN).")
	}

	// 6. Handlers
	jobHandler := handlers.NewJobHandler(jobStore)
	appHandler := handlers.NewApplicationHandler(appStore)
	resumeHandler := handlers.NewResumeHandler(client)
	enhanceHandler := handlers.NewEnhanceHandler(enhanceService)
	adminHandler := handlers.NewAdminHandler(client)

	// 7. Router, CORS and the Gate
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // For development only
	corsConfig.AllowCredentials = false
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	g := gate.New(cfg.GateJWTSecret)
	r.Use(g.Middleware([]string{"/health"}))

	// 8. Routes
	r.GET("/health", handlers.HealthCheck)

	api := r.Group("/api/v1")
	{
		// Jobs
		api.GET("/jobs", jobHandler.ListJobs)
		api.POST("/jobs", jobHandler.CreateJob)
		api.GET("/jobs/matches", jobHandler.Matches)
		api.PUT("/jobs/:id", jobHandler.UpdateJob)
		api.DELETE("/jobs/:id", jobHandler.DeleteJob)
		api.POST("/jobs/:id/save", jobHandler.SaveJob)

		// Applications
		api.GET("/applications", appHandler.ListApplications)
		api.POST("/applications", appHandler.CreateApplication)
		api.GET("/applications/queue", appHandler.Queue)
		api.PUT("/applications/:id", appHandler.UpdateApplication)
		api.DELETE("/applications/:id", appHandler.DeleteApplication)
		api.PUT("/applications/:id/status", appHandler.SetStatus)

		// Resumes + persona
		api.GET("/resumes", resumeHandler.ListResumes)
		api.POST("/resumes", resumeHandler.CreateResume)
		api.GET("/resumes/:id", resumeHandler.GetResume)
		api.PUT("/resumes/:id", resumeHandler.UpdateResume)
		api.DELETE("/resumes/:id", resumeHandler.DeleteResume)
		api.POST("/resumes/:id/analyze", resumeHandler.AnalyzeResume)
		api.GET("/persona", resumeHandler.GetPersona)
		api.PUT("/persona", resumeHandler.UpdatePersona)

		// Truthful enhancement
		api.POST("/resume/enhance-truthful", enhanceHandler.Enhance)
		api.POST("/resume/confirm-enhancement", enhanceHandler.Confirm)

		// Admin / governance
		api.GET("/admin/users", adminHandler.ListUsers)
		api.GET("/admin/system-status", adminHandler.SystemStatus)
		api.GET("/admin/ai-config", adminHandler.GetAIConfig)
		api.PUT("/admin/ai-config", adminHandler.UpdateAIConfig)
		api.POST("/admin/feature-toggle", adminHandler.FeatureToggle)
	}

	log.Printf("🚀 Gateway starting on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
