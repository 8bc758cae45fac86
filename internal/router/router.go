package router

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/paperswipe/backend/internal/auth"
	"github.com/paperswipe/backend/internal/handlers"
	"github.com/paperswipe/backend/internal/middleware"
	"github.com/paperswipe/backend/internal/models"
	"github.com/paperswipe/backend/internal/repositories"
	"github.com/paperswipe/backend/pkg/config"
)

// SetupRoutes migrates the schema, then configures all application routes
// and injects dependencies
func SetupRoutes(e *echo.Echo, db *config.DB, cfg *config.Config, source handlers.PaperSource) {
	if err := models.Migrate(db.Gorm); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("Database auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck(db))
	e.GET("/", handlers.Root)

	// --- Initialize Repositories ---
	userRepo := repositories.NewGormUserRepository(db.Gorm)
	savedPaperRepo := repositories.NewGormSavedPaperRepository(db.Gorm)
	tagRepo := repositories.NewGormTagRepository(db.Gorm)
	interactionRepo := repositories.NewGormInteractionRepository(db.Gorm)
	followRepo := repositories.NewGormFollowRepository(db.Gorm)
	migrationRepo := repositories.NewGormMigrationRepository(db.Gorm)

	tokens := auth.NewTokenManager(cfg.SecretKey, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	requireUser := middleware.JWTAuthMiddleware(tokens, userRepo)
	requireActive := middleware.RequireActive()
	optionalUser := middleware.OptionalJWTAuth(tokens, userRepo)

	api := e.Group("/api")

	// --- Unprotected routes for authentication ---
	authHandler := handlers.NewAuthHandler(userRepo, tokens, cfg.RefreshTokenTTL(), cfg.CookieSecure)
	authHandler.RegisterAuthRoutes(api.Group("/auth"))
	log.Println("Auth routes configured.")

	// Paper routes (search takes optional auth)
	paperHandler := handlers.NewPaperHandler(source, interactionRepo)
	paperHandler.RegisterPaperRoutes(api.Group("/papers"), optionalUser, requireUser, requireActive)
	log.Println("Paper routes configured.")

	// Saved paper and tag routes
	saved := api.Group("/saved", requireUser, requireActive)
	handlers.NewSavedPaperHandler(savedPaperRepo).RegisterSavedPaperRoutes(saved)
	handlers.NewTagHandler(tagRepo).RegisterTagRoutes(saved)
	log.Println("Saved paper routes configured.")

	// Social routes
	social := api.Group("/social")
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, savedPaperRepo)
	followHandler.RegisterFollowRoutes(social, optionalUser, requireUser, requireActive)
	feedHandler := handlers.NewFeedHandler(savedPaperRepo, userRepo, followRepo)
	feedHandler.RegisterFeedRoutes(social, requireUser, requireActive)
	log.Println("Social routes configured.")

	// Migration routes
	migrateHandler := handlers.NewMigrateHandler(migrationRepo)
	migrateHandler.RegisterMigrateRoutes(api.Group("/migrate", requireUser, requireActive))
	log.Println("Migration routes configured.")

	// Own account routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api.Group("/users", requireUser, requireActive))
	log.Println("User profile routes configured.")

	log.Println("All routes configured.")
}
