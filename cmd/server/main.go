package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gezgin/placewise/internal/ai"
	"github.com/gezgin/placewise/internal/api"
	"github.com/gezgin/placewise/internal/auth"
	"github.com/gezgin/placewise/internal/cache"
	"github.com/gezgin/placewise/internal/config"
	"github.com/gezgin/placewise/internal/logger"
	"github.com/gezgin/placewise/internal/middleware"
	"github.com/gezgin/placewise/internal/places"
	"github.com/gezgin/placewise/internal/publisher"
	"github.com/gezgin/placewise/internal/service"
	"github.com/gezgin/placewise/internal/storage"
)

func main() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	log := logger.Get()
	log.Info().Str("env", cfg.Env).Msg("Starting placewise")

	ctx := context.Background()

	// Database
	pool, err := storage.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := storage.RunMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	assetRepo := storage.NewAssetRepository(pool)
	userRepo := storage.NewUserRepository(pool)

	// Cache
	redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.RedisPrefix, cfg.CacheTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer func() {
		if err := redisCache.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing Redis client")
		}
	}()

	// Places provider, selected by schema generation
	var fetcher service.PlaceSource
	var provider api.PlaceProvider
	if cfg.PlacesAPIVersion == "legacy" {
		src := &service.LegacySource{Client: places.NewLegacyClient(cfg.MapsAPIKey)}
		fetcher, provider = src, src
	} else {
		src := &service.V1Source{Client: places.NewClient(cfg.MapsAPIKey)}
		fetcher, provider = src, src
	}

	// Generation provider
	gemini := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)

	// Landing page publisher (optional)
	var pub service.Publisher
	if cfg.PublishingEnabled() {
		p, err := publisher.New(ctx, publisher.Options{
			Endpoint:  cfg.R2Endpoint,
			AccessKey: cfg.R2AccessKey,
			SecretKey: cfg.R2SecretKey,
			Bucket:    cfg.R2Bucket,
			PublicURL: cfg.R2PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize landing page publisher")
		}
		pub = p
	} else {
		log.Info().Msg("Landing page publishing disabled")
	}

	contentSvc := service.NewContentService(assetRepo, fetcher, gemini, pub)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration)
	handlers := api.NewHandlers(contentSvc, provider, assetRepo, userRepo, redisCache, tokens)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	api.SetupRoutes(app, handlers, tokens, pool, redisCache)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
