package main

import (
	"fitness-tracker-backend/internal/api/routes"
	"fitness-tracker-backend/internal/auth"
	"fitness-tracker-backend/internal/config"
	"fitness-tracker-backend/internal/database"
	"fitness-tracker-backend/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	log := logger.Get()

	// Load .env for local development; absence is fine in containers
	if err := godotenv.Load(); err == nil {
		log.Info("Loaded environment from .env")
	}

	cfg, err := config.Load("")
	if err != nil {
		log.WithField("error", err.Error()).Fatal("Configuration invalid, refusing to start")
	}

	if err := auth.SetTokenSecret(cfg.TokenSecret); err != nil {
		log.WithField("error", err.Error()).Fatal("Token secret invalid, refusing to start")
	}

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiresInSeconds)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("Failed to initialize auth service")
	}

	db, err := database.Initialize(cfg.DatabaseDSN(), &database.Options{AutoMigrate: true})
	if err != nil {
		log.WithField("error", err.Error()).Fatal("Failed to initialize database")
	}

	router := routes.SetupRoutes(db, cfg, authService)

	addr := ":" + cfg.ServerPort
	log.WithField("addr", addr).Info("Starting fitness tracker backend")
	if err := router.Run(addr); err != nil {
		log.WithField("error", err.Error()).Fatal("Server exited")
	}
}
