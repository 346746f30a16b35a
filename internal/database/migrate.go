package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/models"
)

// RunMigrations creates or updates the schema for every model
func RunMigrations(db *gorm.DB) error {
	log.Info().Str("component", "database").Str("dialect", db.Dialector.Name()).Msg("running auto-migration")

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return backfillSearchFields(db)
}

// backfillSearchFields fills the search columns of recipes stored before
// those columns existed
func backfillSearchFields(db *gorm.DB) error {
	const batchSize = 200
	for {
		var stale []models.Recipe
		err := db.Select("id", "title", "tags").
			Where("search_title = ? AND title <> ?", "", "").
			Limit(batchSize).Find(&stale).Error
		if err != nil {
			return fmt.Errorf("failed to load recipes for backfill: %w", err)
		}
		if len(stale) == 0 {
			return nil
		}

		for i := range stale {
			r := &stale[i]
			r.RefreshSearchFields()
			err := db.Model(&models.Recipe{}).Where("id = ?", r.ID).UpdateColumns(map[string]interface{}{
				"search_title": r.SearchTitle,
				"search_tags":  r.SearchTags,
			}).Error
			if err != nil {
				return fmt.Errorf("failed to backfill recipe %s: %w", r.ID, err)
			}
		}
		log.Info().Str("component", "database").Int("count", len(stale)).Msg("backfilled recipe search fields")
	}
}
