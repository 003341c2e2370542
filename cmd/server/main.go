package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"recall/internal/auth"
	"recall/internal/config"
	"recall/internal/handler"
	"recall/internal/middleware"
	"recall/internal/repository/postgres"
	"recall/internal/service"
	"recall/internal/srs"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Token verifier against the identity provider's JWKS endpoint
	verifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}
	defer verifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	pageRepo := postgres.NewPageRepository(repoConfig)
	shareRepo := postgres.NewShareRepository(repoConfig)
	cardRepo := postgres.NewFlashcardRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Scheduling policy from the embedded table
	policy, err := srs.LoadPolicy()
	if err != nil {
		log.Fatalf("Failed to load scheduling policy: %v", err)
	}

	// Create services
	access := service.NewAccessResolver(pageRepo, shareRepo)
	hierarchy := service.NewHierarchyValidator(pageRepo)
	pageService := service.NewPageService(pageRepo, access, hierarchy, txManager, logger)
	sharingService := service.NewSharingService(pageRepo, shareRepo, userRepo, logger)
	cardService := service.NewFlashcardService(cardRepo, pageRepo, access, policy, logger)
	searchService := service.NewSearchService(pageRepo, logger)
	userService := service.NewUserService(userRepo, txManager, logger)

	// Create handlers
	pageHandler := handler.NewPageHandler(pageService, logger)
	shareHandler := handler.NewShareHandler(sharingService, logger)
	cardHandler := handler.NewFlashcardHandler(cardService, logger)
	searchHandler := handler.NewSearchHandler(searchService, logger)
	userHandler := handler.NewUserHandler(userService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Page routes
	mux.HandleFunc("GET /api/pages", pageHandler.ListPages)
	mux.HandleFunc("POST /api/pages", pageHandler.CreatePage)
	mux.HandleFunc("GET /api/pages/search", searchHandler.SearchPages) // Must come before {id} route
	mux.HandleFunc("GET /api/pages/{id}", pageHandler.GetPage)
	mux.HandleFunc("PATCH /api/pages/{id}", pageHandler.UpdatePage)
	mux.HandleFunc("DELETE /api/pages/{id}", pageHandler.DeletePage)
	mux.HandleFunc("GET /api/pages/{id}/children", pageHandler.GetChildren)

	// Sharing routes
	mux.HandleFunc("POST /api/pages/{id}/share", shareHandler.SharePage)
	mux.HandleFunc("DELETE /api/pages/{id}/share/{userID}", shareHandler.RevokeShare)
	mux.HandleFunc("GET /api/pages/{id}/shares", shareHandler.ListShares)

	// Flashcard routes
	mux.HandleFunc("GET /api/pages/{id}/flashcards", cardHandler.ListFlashcards)
	mux.HandleFunc("POST /api/pages/{id}/flashcards", cardHandler.CreateFlashcard)
	mux.HandleFunc("GET /api/flashcards/due", cardHandler.ListDue) // Must come before {id} route
	mux.HandleFunc("GET /api/flashcards/{id}", cardHandler.GetFlashcard)
	mux.HandleFunc("PATCH /api/flashcards/{id}", cardHandler.UpdateFlashcard)
	mux.HandleFunc("DELETE /api/flashcards/{id}", cardHandler.DeleteFlashcard)
	mux.HandleFunc("POST /api/flashcards/{id}/review", cardHandler.ReviewFlashcard)

	// User routes
	mux.HandleFunc("GET /api/users/me", userHandler.GetCurrentUser)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.Auth(verifier, userService, logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
