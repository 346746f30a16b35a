package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pageza/recipe-catalog/backend/internal/models"
)

// CreatorSummary is the public projection of a recipe's author
type CreatorSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// RecipeResponse is a recipe as returned by the API
type RecipeResponse struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Ingredients []string         `json:"ingredients"`
	Steps       []string         `json:"steps"`
	Image       *string          `json:"image"`
	Tags        []string         `json:"tags"`
	Source      models.Source    `json:"source"`
	Likes       int64            `json:"likes"`
	Comments    []models.Comment `json:"comments"`
	CreatedBy   CreatorSummary   `json:"createdBy"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// NewRecipeResponse projects a stored recipe. A creator that no longer
// exists is reported with its id and an empty name.
func NewRecipeResponse(r *models.Recipe) RecipeResponse {
	resp := RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Ingredients: nonNil(r.Ingredients),
		Steps:       nonNil(r.Steps),
		Image:       r.Image,
		Tags:        nonNil(r.Tags),
		Source:      r.Source,
		Likes:       r.Likes,
		Comments:    r.Comments,
		CreatedBy:   CreatorSummary{ID: r.CreatedBy},
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if resp.Comments == nil {
		resp.Comments = []models.Comment{}
	}
	if r.Creator != nil {
		resp.CreatedBy.Name = r.Creator.Name
	}
	return resp
}

// NewRecipeResponses projects a slice of recipes
func NewRecipeResponses(recipes []models.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, NewRecipeResponse(&recipes[i]))
	}
	return out
}

// RecipePage is one page of catalog results
type RecipePage struct {
	Items     []RecipeResponse `json:"items"`
	Total     int64            `json:"total"`
	Page      int              `json:"page"`
	PageCount int              `json:"pagecount"`
}

// GeneratedRecipe is an unsaved recipe produced by the generation pipeline
type GeneratedRecipe struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Image       *string  `json:"image"`
	Source      string   `json:"source"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
