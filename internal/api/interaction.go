package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// InteractionHandler serves likes, comments and saves on a recipe
type InteractionHandler struct {
	interactions service.IInteractionService
	users        service.IUserService
}

// NewInteractionHandler creates a new InteractionHandler
func NewInteractionHandler(interactions service.IInteractionService, users service.IUserService) *InteractionHandler {
	return &InteractionHandler{interactions: interactions, users: users}
}

// RegisterRoutes registers the interaction routes on an authenticated group
func (h *InteractionHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes/:id")
	{
		recipes.POST("/like", h.Like)
		recipes.POST("/comment", h.AddComment)
		recipes.POST("/save", h.ToggleSave)
	}
	router.GET("/users/me/saved", h.ListSaved)
}

// Like increments or decrements the like counter. Anything other than an
// explicit "unlike" action counts as a like.
func (h *InteractionHandler) Like(c *gin.Context) {
	id, err := recipeID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req types.LikeRequest
	if err := bindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}

	var likes int64
	if strings.EqualFold(strings.TrimSpace(req.Action), "unlike") {
		likes, err = h.interactions.Unlike(c.Request.Context(), id)
	} else {
		likes, err = h.interactions.Like(c.Request.Context(), id)
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

// AddComment appends the caller's comment to a recipe
func (h *InteractionHandler) AddComment(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	id, err := recipeID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req types.CommentRequest
	if err := bindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}

	comment, err := h.interactions.AddComment(c.Request.Context(), id, userID, req.Comment)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// ToggleSave saves or unsaves a recipe for the caller
func (h *InteractionHandler) ToggleSave(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	id, err := recipeID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	saved, err := h.users.ToggleSave(c.Request.Context(), userID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	message := "Recipe removed from saved"
	if saved {
		message = "Recipe saved successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "saved": saved})
}

// ListSaved returns the caller's saved recipes
func (h *InteractionHandler) ListSaved(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipes, err := h.users.ListSaved(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"savedRecipes": types.NewRecipeResponses(recipes)})
}
