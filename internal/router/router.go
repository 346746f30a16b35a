package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/backend/internal/api"
	"github.com/pageza/recipe-catalog/backend/internal/middleware"
)

// Handlers groups the API handlers served by the router
type Handlers struct {
	Health       *api.HealthHandler
	Recipes      *api.RecipeHandler
	Interactions *api.InteractionHandler
	Generation   *api.GenerationHandler
	Uploads      *api.UploadHandler
}

// Options configures the middleware stack
type Options struct {
	CORSOrigins []string
	Tokens      middleware.TokenValidator
	Users       middleware.UserSyncer
	// GenerationLimiter may be nil, which disables generation rate limiting
	GenerationLimiter *middleware.RateLimiter
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(opts.CORSOrigins), middleware.ErrorHandler())

	// API v1 routes
	v1 := router.Group("/api/v1")
	h.Health.RegisterRoutes(v1)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(opts.Tokens))
	if opts.Users != nil {
		protected.Use(middleware.UserSync(opts.Users))
	}
	{
		h.Recipes.RegisterRoutes(protected)
		h.Interactions.RegisterRoutes(protected)
		h.Generation.RegisterRoutes(protected, opts.GenerationLimiter)
		h.Uploads.RegisterRoutes(protected)
	}

	return router
}
