package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipe-catalog/backend/internal/apperrors"
	"github.com/pageza/recipe-catalog/backend/internal/database"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// UserService keeps user records in step with the identity provider and
// manages saved recipes
type UserService struct {
	store
	logger zerolog.Logger
}

// NewUserService creates a new UserService instance
func NewUserService(conn database.Conn, timeout time.Duration) *UserService {
	return &UserService{
		store:  newStore(conn, timeout),
		logger: log.With().Str("component", "UserService").Logger(),
	}
}

// Sync creates the user described by claims on first sign-in. Existing
// users are returned unchanged.
func (s *UserService) Sync(ctx context.Context, claims *types.TokenClaims) (*models.User, error) {
	if claims == nil || claims.UserID == uuid.Nil {
		return nil, apperrors.Unauthorized("authentication required")
	}

	db, cancel, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	user := &models.User{ID: claims.UserID, Name: claims.Name}
	if claims.Email != "" {
		email := claims.Email
		user.Email = &email
	}
	if claims.Image != "" {
		image := claims.Image
		user.Image = &image
	}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(user)
	if res.Error != nil {
		return nil, storageError("failed to sync user", res.Error, "user")
	}
	if res.RowsAffected == 1 {
		s.logger.Info().Str("user_id", user.ID.String()).Msg("user created on first sign-in")
		return user, nil
	}

	var existing models.User
	if err := db.First(&existing, "id = ?", claims.UserID).Error; err != nil {
		return nil, storageError("failed to load user", err, "user")
	}
	return &existing, nil
}

// ToggleSave saves the recipe for the user, or removes it when already
// saved. It returns whether the recipe is saved afterwards.
func (s *UserService) ToggleSave(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, apperrors.Unauthorized("authentication required")
	}

	db, cancel, err := s.session(ctx)
	if err != nil {
		return false, err
	}
	defer cancel()

	var saved bool
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.User{}, userID, "user"); err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.SavedRecipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			saved = false
			return nil
		}

		// Unsaving tolerates a deleted recipe, saving does not
		if err := requireRow(tx, &models.Recipe{}, recipeID, "recipe"); err != nil {
			return err
		}
		saved = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.SavedRecipe{UserID: userID, RecipeID: recipeID}).Error
	})
	if err != nil {
		return false, storageError("failed to toggle saved recipe", err, "recipe")
	}
	return saved, nil
}

// ListSaved returns the user's saved recipes, most recently saved first.
// References to recipes that no longer exist are skipped.
func (s *UserService) ListSaved(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	if userID == uuid.Nil {
		return nil, apperrors.Unauthorized("authentication required")
	}

	db, cancel, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	if err := requireRow(db, &models.User{}, userID, "user"); err != nil {
		return nil, storageError("failed to load user", err, "user")
	}

	recipes := []models.Recipe{}
	err = db.Model(&models.Recipe{}).
		Joins("JOIN saved_recipes ON saved_recipes.recipe_id = recipes.id").
		Where("saved_recipes.user_id = ?", userID).
		Order("saved_recipes.created_at DESC").
		Order("recipes.id DESC").
		Scopes(withCreator).
		Find(&recipes).Error
	if err != nil {
		return nil, storageError("failed to list saved recipes", err, "recipe")
	}
	return recipes, nil
}

// requireRow returns NotFound unless a row of model with id exists
func requireRow(db *gorm.DB, model interface{}, id uuid.UUID, entity string) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperrors.NotFound(entity)
	}
	return nil
}
