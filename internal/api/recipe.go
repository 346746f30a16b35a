package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/backend/internal/catalog"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// RecipeHandler serves the catalog and recipe CRUD endpoints
type RecipeHandler struct {
	recipes service.IRecipeService
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(recipes service.IRecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// RegisterRoutes registers the recipe routes on an authenticated group
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
	}
}

// ListRecipes returns one page of the catalog
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	q := catalog.ParsePageQuery(c.Query("q"), c.Query("tag"), c.Query("sort"), c.Query("page"), c.Query("limit"))

	page, err := h.recipes.ListRecipes(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.RecipePage{
		Items:     types.NewRecipeResponses(page.Items),
		Total:     page.Total,
		Page:      page.Page,
		PageCount: page.PageCount,
	})
}

// GetRecipe returns a single recipe with its comments
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := recipeID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeResponse(recipe))
}

// CreateRecipe stores a new recipe owned by the caller
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var in types.RecipeInput
	if err := bindJSON(c, &in, false); err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), userID, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.NewRecipeResponse(recipe))
}

// UpdateRecipe applies a partial update from the recipe's owner
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
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

	var patch types.RecipePatch
	if err := bindJSON(c, &patch, false); err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), userID, id, patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeResponse(recipe))
}

// DeleteRecipe removes a recipe on behalf of its owner
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
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

	if err := h.recipes.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}
