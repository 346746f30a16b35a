package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/recipe-catalog/backend/internal/catalog"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// IRecipeService defines the interface for catalog operations
type IRecipeService interface {
	ListRecipes(ctx context.Context, q catalog.PageQuery) (*Page, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, userID uuid.UUID, in types.RecipeInput) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, userID, id uuid.UUID, patch types.RecipePatch) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, id uuid.UUID) error
}

// IInteractionService defines the interface for likes and comments
type IInteractionService interface {
	Like(ctx context.Context, recipeID uuid.UUID) (int64, error)
	Unlike(ctx context.Context, recipeID uuid.UUID) (int64, error)
	AddComment(ctx context.Context, recipeID, authorID uuid.UUID, text string) (*models.Comment, error)
}

// IUserService defines the interface for users and their saved recipes
type IUserService interface {
	Sync(ctx context.Context, claims *types.TokenClaims) (*models.User, error)
	ToggleSave(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	ListSaved(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
}

// IGenerationService defines the interface for AI recipe drafts
type IGenerationService interface {
	Generate(ctx context.Context, prompt string) (*types.GeneratedRecipe, error)
}

// IUploadService defines the interface for image uploads
type IUploadService interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// TextGenerator produces free text for a prompt
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageSearcher finds an image URL for a query. An empty URL with a nil
// error means nothing matched.
type ImageSearcher interface {
	SearchImage(ctx context.Context, query string) (string, error)
}
