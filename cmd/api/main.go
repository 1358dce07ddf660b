package main

import (
	"log"

	"storemirror/internal/api"
	"storemirror/internal/catalog"
	"storemirror/internal/config"
	"storemirror/internal/database"
	"storemirror/internal/events"
	"storemirror/internal/logger"
	"storemirror/internal/services/fakestore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Wire the catalog service
	repo := catalog.NewRepository(db.DB)
	client := fakestore.NewClient(logger)
	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	defer publisher.Close()
	syncer := catalog.NewSyncer(client, repo, publisher, logger)

	// Initialize API server
	server := api.New(cfg, logger, repo, syncer)

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
