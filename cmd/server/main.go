package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/taskpulse/taskpulse-api/internal/config"
	"github.com/taskpulse/taskpulse-api/internal/database"
	"github.com/taskpulse/taskpulse-api/internal/handlers"
	"github.com/taskpulse/taskpulse-api/internal/middleware"
	"github.com/taskpulse/taskpulse-api/internal/repository"
	"github.com/taskpulse/taskpulse-api/internal/services"
	"github.com/taskpulse/taskpulse-api/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Object storage collaborator
	var objects storage.ObjectStorage
	switch cfg.StorageBackend {
	case "http":
		objects = storage.NewHTTPStorage(cfg.StorageURL, cfg.StorageAPIKey)
	default:
		disk, err := storage.NewDiskStorage(cfg.StorageDir, cfg.BaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize disk storage: %v", err)
		}
		objects = disk
	}

	// Wiring
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokenService := services.NewTokenService(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, taskRepo, tokenService, objects)
	taskService := services.NewTaskService(taskRepo, objects)

	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "TaskPulse API is running",
		})
	})

	// Locally stored objects (disk backend only)
	if cfg.StorageBackend != "http" {
		r.Static("/uploads", cfg.StorageDir)
	}

	requireAuth := middleware.RequireAuth(tokenService, userRepo)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.PATCH("/profile", requireAuth, authHandler.UpdateProfile)
			auth.GET("/stats", requireAuth, authHandler.Stats)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.POST("/:id/comments", taskHandler.AddComment)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
