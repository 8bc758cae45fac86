package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/paperswipe/backend/internal/arxiv"
	"github.com/paperswipe/backend/internal/router"
	"github.com/paperswipe/backend/pkg/config"
	"github.com/paperswipe/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits

	source := arxiv.NewClient(
		arxiv.WithBaseURL(cfg.ArxivAPIBase),
		arxiv.WithDelay(cfg.ArxivDelay()),
	)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Validator
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e, cfg)

	// Setup routes and dependencies
	router.SetupRoutes(e, db, cfg, source)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
