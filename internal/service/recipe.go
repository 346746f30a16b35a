package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/apperrors"
	"github.com/pageza/recipe-catalog/backend/internal/catalog"
	"github.com/pageza/recipe-catalog/backend/internal/database"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/types"
	"github.com/pageza/recipe-catalog/backend/internal/validation"
)

// Page is one page of catalog results
type Page struct {
	Items     []models.Recipe
	Total     int64
	Page      int
	PageCount int
}

// RecipeService handles catalog reads and owner writes
type RecipeService struct {
	store
	logger zerolog.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(conn database.Conn, timeout time.Duration) *RecipeService {
	return &RecipeService{
		store:  newStore(conn, timeout),
		logger: log.With().Str("component", "RecipeService").Logger(),
	}
}

// withCreator loads the creator projection
func withCreator(db *gorm.DB) *gorm.DB {
	return db.Preload("Creator", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name")
	})
}

// withComments loads comments in insertion order
func withComments(db *gorm.DB) *gorm.DB {
	return db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("recipe_comments.seq ASC")
	})
}

// ListRecipes returns one page of recipes matching the query
func (s *RecipeService) ListRecipes(ctx context.Context, q catalog.PageQuery) (*Page, error) {
	db, cancel, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	plan := catalog.Build(q)

	var total int64
	if err := db.Model(&models.Recipe{}).Scopes(plan.FilterScope()).Count(&total).Error; err != nil {
		return nil, storageError("failed to count recipes", err, "recipe")
	}

	recipes := []models.Recipe{}
	if total > int64(plan.Offset) {
		err := db.Model(&models.Recipe{}).
			Scopes(plan.FilterScope(), plan.OrderScope(), plan.PageScope(), withCreator, withComments).
			Find(&recipes).Error
		if err != nil {
			return nil, storageError("failed to list recipes", err, "recipe")
		}
	}

	return &Page{
		Items:     recipes,
		Total:     total,
		Page:      plan.Page,
		PageCount: catalog.PageCount(total, plan.Limit),
	}, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	db, cancel, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	return s.load(db, id)
}

func (s *RecipeService) load(db *gorm.DB, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := db.Scopes(withCreator, withComments).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, storageError("failed to load recipe", err, "recipe")
	}
	return &recipe, nil
}

// CreateRecipe validates the input and stores a new recipe owned by userID
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, in types.RecipeInput) (*models.Recipe, error) {
	if userID == uuid.Nil {
		return nil, apperrors.Unauthorized("authentication required")
	}
	if err := validation.ValidateRecipe(&in); err != nil {
		return nil, err
	}

	db, cancel, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	recipe := &models.Recipe{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Ingredients: models.StringArray(in.Ingredients),
		Steps:       models.StringArray(in.Steps),
		Image:       in.Image,
		Tags:        models.StringArray(in.Tags),
		Source:      validation.SourceOf(in.Source),
		CreatedBy:   userID,
	}
	if recipe.Tags == nil {
		recipe.Tags = models.StringArray{}
	}

	if err := db.Omit("Creator", "Comments").Create(recipe).Error; err != nil {
		return nil, storageError("failed to create recipe", err, "recipe")
	}

	s.logger.Info().Str("recipe_id", recipe.ID.String()).Str("user_id", userID.String()).Msg("recipe created")
	return s.load(db, recipe.ID)
}

// UpdateRecipe applies a partial update on behalf of the recipe's owner.
// The merged recipe is validated before anything is written and only the
// patched columns are updated.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, id uuid.UUID, patch types.RecipePatch) (*models.Recipe, error) {
	if userID == uuid.Nil {
		return nil, apperrors.Unauthorized("authentication required")
	}

	db, cancel, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var current models.Recipe
	if err := db.First(&current, "id = ?", id).Error; err != nil {
		return nil, storageError("failed to load recipe", err, "recipe")
	}
	if current.CreatedBy != userID {
		return nil, apperrors.Forbidden("only the owner can edit this recipe")
	}

	cols := patch.Columns()
	if len(cols) == 0 {
		return s.load(db, id)
	}

	merged := patch.Apply(types.RecipeInput{
		Title:       current.Title,
		Description: current.Description,
		Ingredients: current.Ingredients,
		Steps:       current.Steps,
		Image:       current.Image,
		Tags:        current.Tags,
	})
	if err := validation.ValidateRecipe(&merged); err != nil {
		return nil, err
	}

	updates := models.Recipe{
		Title:       merged.Title,
		Description: merged.Description,
		Ingredients: models.StringArray(merged.Ingredients),
		Steps:       models.StringArray(merged.Steps),
		Image:       merged.Image,
		Tags:        models.StringArray(merged.Tags),
	}
	if updates.Tags == nil {
		updates.Tags = models.StringArray{}
	}
	updates.RefreshSearchFields()

	err = db.Model(&models.Recipe{}).
		Where("id = ? AND created_by = ?", id, userID).
		Select(append(withSearchColumns(cols), "updated_at")).
		Updates(&updates).Error
	if err != nil {
		return nil, storageError("failed to update recipe", err, "recipe")
	}

	s.logger.Info().Str("recipe_id", id.String()).Strs("fields", cols).Msg("recipe updated")
	return s.load(db, id)
}

// DeleteRecipe removes a recipe and its comments on behalf of its owner.
// Saved references held by users are left in place.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return apperrors.Unauthorized("authentication required")
	}

	db, cancel, err := s.session(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	err = db.Transaction(func(tx *gorm.DB) error {
		var current models.Recipe
		if err := tx.Select("id", "created_by").First(&current, "id = ?", id).Error; err != nil {
			return err
		}
		if current.CreatedBy != userID {
			return apperrors.Forbidden("only the owner can delete this recipe")
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
	if err != nil {
		return storageError("failed to delete recipe", err, "recipe")
	}

	s.logger.Info().Str("recipe_id", id.String()).Msg("recipe deleted")
	return nil
}

// withSearchColumns adds the search columns derived from the patched ones
func withSearchColumns(cols []string) []string {
	out := append([]string(nil), cols...)
	for _, col := range cols {
		switch col {
		case "title":
			out = append(out, "search_title")
		case "tags":
			out = append(out, "search_tags")
		}
	}
	return out
}
