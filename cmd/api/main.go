package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/pageza/recipe-catalog/backend/config"
	"github.com/pageza/recipe-catalog/backend/internal/api"
	"github.com/pageza/recipe-catalog/backend/internal/database"
	"github.com/pageza/recipe-catalog/backend/internal/llm"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/resilience"
	"github.com/pageza/recipe-catalog/backend/internal/router"
	"github.com/pageza/recipe-catalog/backend/internal/server"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/unsplash"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

// run returns instead of exiting so deferred cleanup always happens
func run() error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Setup(cfg.LogLevel, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The database is opened on first use
	db := database.NewProvider(database.NewOpener(cfg))
	defer db.Close()

	// Redis is optional: without it there is no rate limiting or image cache
	var rdb *redis.Client
	rdb, err = database.NewRedisClient(ctx, cfg)
	if err != nil {
		if !errors.Is(err, database.ErrRedisNotConfigured) {
			log.Warn().Err(err).Msg("continuing without Redis")
		}
		rdb = nil
	} else {
		defer rdb.Close()
	}

	provider, err := llm.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create text generation provider: %w", err)
	}
	defer provider.Close()

	var images service.ImageSearcher
	if cfg.UnsplashAccessKey != "" {
		images = unsplash.NewClient(cfg.UnsplashAPIURL, cfg.UnsplashAccessKey)
		if rdb != nil {
			images = service.NewCachedImageSearcher(images, rdb, service.DefaultImageCacheTTL)
		}
	}

	// Initialize services
	tokens := service.NewTokenService(cfg.JWTSecret)
	users := service.NewUserService(db, cfg.DBTimeout)
	recipes := service.NewRecipeService(db, cfg.DBTimeout)
	interactions := service.NewInteractionService(db, cfg.DBTimeout)
	generation := service.NewGenerationService(provider, images,
		service.WithTimeouts(cfg.GenerationTimeout, cfg.ImageLookupTimeout),
		service.WithBreaker(resilience.NewBreaker(resilience.DefaultBreakerConfig("text-generation"))),
	)

	var uploads service.IUploadService
	if cfg.S3Bucket != "" {
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			log.Warn().Err(err).Msg("image uploads disabled")
		} else {
			uploads = service.NewUploadService(s3cfg.Client, s3cfg.BucketName, s3cfg.PublicURL)
		}
	}

	var limiter *middleware.RateLimiter
	if rdb != nil {
		limiter = middleware.NewGenerationRateLimiter(rdb, cfg.GenerationRateLimit)
	}

	handler := router.SetupRouter(router.Handlers{
		Health:       api.NewHealthHandler(db, cfg.DBTimeout),
		Recipes:      api.NewRecipeHandler(recipes),
		Interactions: api.NewInteractionHandler(interactions, users),
		Generation:   api.NewGenerationHandler(generation),
		Uploads:      api.NewUploadHandler(uploads),
	}, router.Options{
		CORSOrigins:       cfg.CORSOrigins,
		Tokens:            tokens,
		Users:             users,
		GenerationLimiter: limiter,
	})

	// Create and start server
	return server.New(cfg, handler).Run(ctx)
}
