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
	"github.com/pageza/recipe-catalog/backend/internal/validation"
)

// InteractionService performs like counter updates and comment appends.
// Every mutation is a single conditional statement so concurrent callers
// cannot lose updates.
type InteractionService struct {
	store
	logger zerolog.Logger
}

// NewInteractionService creates a new InteractionService instance
func NewInteractionService(conn database.Conn, timeout time.Duration) *InteractionService {
	return &InteractionService{
		store:  newStore(conn, timeout),
		logger: log.With().Str("component", "InteractionService").Logger(),
	}
}

// Like increments the recipe's like counter and returns the new value
func (s *InteractionService) Like(ctx context.Context, recipeID uuid.UUID) (int64, error) {
	db, cancel, err := s.session(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()

	var likes int64
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{}).
			Where("id = ?", recipeID).
			UpdateColumn("likes", gorm.Expr("likes + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("recipe")
		}
		return readLikes(tx, recipeID, &likes)
	})
	if err != nil {
		return 0, storageError("failed to like recipe", err, "recipe")
	}
	return likes, nil
}

// Unlike decrements the recipe's like counter unless it is already zero.
// At zero nothing is written and 0 is returned.
func (s *InteractionService) Unlike(ctx context.Context, recipeID uuid.UUID) (int64, error) {
	db, cancel, err := s.session(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()

	var likes int64
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{}).
			Where("id = ? AND likes > 0", recipeID).
			UpdateColumn("likes", gorm.Expr("likes - ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			return readLikes(tx, recipeID, &likes)
		}

		// Either the recipe is missing or its counter is at the floor
		var count int64
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperrors.NotFound("recipe")
		}
		likes = 0
		return nil
	})
	if err != nil {
		return 0, storageError("failed to unlike recipe", err, "recipe")
	}
	return likes, nil
}

func readLikes(tx *gorm.DB, recipeID uuid.UUID, likes *int64) error {
	return tx.Model(&models.Recipe{}).Select("likes").Where("id = ?", recipeID).Row().Scan(likes)
}

// AddComment appends a comment by authorID to the recipe and returns it with
// its server-assigned timestamp
func (s *InteractionService) AddComment(ctx context.Context, recipeID, authorID uuid.UUID, text string) (*models.Comment, error) {
	if authorID == uuid.Nil {
		return nil, apperrors.Unauthorized("authentication required")
	}
	text, err := validation.ValidateComment(text)
	if err != nil {
		return nil, err
	}

	db, cancel, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	comment := &models.Comment{
		RecipeID: recipeID,
		UserID:   authorID,
		Comment:  text,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		exists := tx.Model(&models.Recipe{}).Where("id = ?", recipeID)
		if tx.Dialector.Name() == "postgres" {
			// Hold off a concurrent delete without blocking like updates
			exists = exists.Clauses(clause.Locking{Strength: "KEY SHARE"})
		}

		var found []uuid.UUID
		if err := exists.Limit(1).Pluck("id", &found).Error; err != nil {
			return err
		}
		if len(found) == 0 {
			return apperrors.NotFound("recipe")
		}

		comment.CreatedAt = time.Now().UTC()
		return tx.Create(comment).Error
	})
	if err != nil {
		return nil, storageError("failed to add comment", err, "recipe")
	}

	s.logger.Debug().Str("recipe_id", recipeID.String()).Str("user_id", authorID.String()).Msg("comment added")
	return comment, nil
}
