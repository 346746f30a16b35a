package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/backend/internal/apperrors"
	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// GenerationHandler serves AI recipe drafts
type GenerationHandler struct {
	generation service.IGenerationService
}

// NewGenerationHandler creates a new GenerationHandler
func NewGenerationHandler(generation service.IGenerationService) *GenerationHandler {
	return &GenerationHandler{generation: generation}
}

// RegisterRoutes registers the generation routes. A nil limiter disables
// rate limiting.
func (h *GenerationHandler) RegisterRoutes(router *gin.RouterGroup, limiter *middleware.RateLimiter) {
	router.POST("/ai-recipe", limiter.RateLimitMiddleware(), h.Generate)
	router.GET("/ai-recipe/quota", h.Quota(limiter))
}

// Generate returns an unsaved recipe draft for the caller's query
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req types.GenerateRequest
	if err := bindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}

	draft, err := h.generation.Generate(c.Request.Context(), req.Query)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": draft})
}

// Quota reports how many generation requests the caller has left
func (h *GenerationHandler) Quota(limiter *middleware.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := currentUser(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		quota, err := limiter.Quota(c.Request.Context(), userID.String())
		if err != nil {
			_ = c.Error(apperrors.Storage("failed to read generation quota", err))
			return
		}
		c.JSON(http.StatusOK, quota)
	}
}
