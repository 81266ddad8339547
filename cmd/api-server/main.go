package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"moviehub/internal/config"
	"moviehub/internal/database"
	"moviehub/internal/handler"
	"moviehub/internal/middleware"
	"moviehub/internal/repository"
	"moviehub/internal/schema"
	"moviehub/internal/service"
	"moviehub/internal/tmdb"
	"moviehub/internal/transform"
)

func main() {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	// 2. Connect to the database (runs migrations)
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}

	// 3. Load XML resources up front so a broken schema or transform
	// kills the process at startup, not mid-request.
	validator, err := schema.NewValidatorFromFile(cfg.SchemaPath, "movie")
	if err != nil {
		logger.Error("could not load movie schema", "path", cfg.SchemaPath, "error", err)
		os.Exit(1)
	}
	engine, err := transform.NewEngine(cfg.TransformDir)
	if err != nil {
		logger.Error("could not load transforms", "dir", cfg.TransformDir, "error", err)
		os.Exit(1)
	}

	// 4. Wire repositories and services
	movieRepo := repository.NewMovieRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	watchedRepo := repository.NewWatchedRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	authSvc := service.NewAuthService(userRepo, tokenRepo, cfg)
	movieSvc := service.NewMovieService(movieRepo, tmdb.NewClient(cfg.TMDBAPIURL, cfg.TMDBAPIKey))
	watchSvc := service.NewWatchlistService(watchedRepo, movieRepo)
	commentSvc := service.NewCommentService(commentRepo, movieRepo)

	// 5. Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/check-conn", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected"})
	})

	authRequired := middleware.AuthMiddleware(authSvc)
	staffOnly := middleware.RequireStaff()

	api := r.Group("/api/v1")
	handler.NewAuthHandler(authSvc).RegisterRoutes(api)
	handler.NewWatchlistHandler(watchSvc).RegisterRoutes(api, authRequired)

	movies := api.Group("/movies")
	handler.NewMovieHandler(movieSvc, validator).RegisterRoutes(movies, authRequired, staffOnly)
	handler.NewHTMLHandler(movieSvc, engine).RegisterRoutes(movies)
	handler.NewCommentHandler(commentSvc).RegisterRoutes(movies, authRequired)
	handler.NewImportHandler(movieSvc).RegisterRoutes(movies, authRequired, staffOnly)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("API server listening", "addr", addr)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}
