package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"uptime_monitor/internal/config"
	"uptime_monitor/internal/handler"
	"uptime_monitor/internal/middleware"
	"uptime_monitor/internal/repository"
	"uptime_monitor/internal/service"
	"uptime_monitor/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Records will be stored in: %s (max %d checks per user)", cfg.DataDir, cfg.MaxChecks)

	// --- Record Store ---
	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(store)
	checkRepo := repository.NewCheckRepository(store)
	tokenRepo := repository.NewTokenRepository(store)

	// --- Initialize Services ---
	tokenService := service.NewTokenService(tokenRepo)
	userService := service.NewUserService(userRepo)
	checkService := service.NewCheckService(checkRepo, userRepo, tokenRepo, tokenService, cfg.MaxChecks)

	// --- Initialize Handlers ---
	userHandler := handler.NewUserHandler(userService)
	checkHandler := handler.NewCheckHandler(checkService)

	// --- Setup Gin Router ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.RequestIDMiddleware())

	// Simple CORS middleware (allow all for development)
	// For production, configure specific origins, methods, headers
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept, Origin, Cache-Control, X-Requested-With, token")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// --- Register Routes ---
	apiGroup := router.Group("/api/v1") // Base path for API
	userHandler.RegisterUserRoutes(apiGroup)
	checkHandler.RegisterCheckRoutes(apiGroup)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "store": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "healthy"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
