package main

import (
	"log"

	"sleepclash/backend/internal/config"
	"sleepclash/backend/internal/database"
	"sleepclash/backend/internal/logger"
	"sleepclash/backend/internal/router"

	"github.com/gin-gonic/gin"
)

func init() {
	config.LoadConfig()
}

// @title           Sleep Clash API
// @version         1.0
// @description     Social sleep tracking: nightly uploads, friends, clans and weekly leaderboards.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to the database
	if err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL); err != nil {
		logger.Log.Fatalw("Failed to connect to database", "driver", cfg.DatabaseDriver, "error", err)
	}

	r := router.New(cfg)

	logger.Log.Infow("Server is running", "port", cfg.Port, "swagger", "http://localhost:"+cfg.Port+"/swagger/index.html")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatalw("Server stopped", "error", err)
	}
}
