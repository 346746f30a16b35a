package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/config"
	"github.com/pageza/recipe-catalog/backend/internal/models"
)

func TestProviderOpensOnce(t *testing.T) {
	var opens int32
	p := NewProvider(func(ctx context.Context) (*gorm.DB, error) {
		atomic.AddInt32(&opens, 1)
		return gorm.Open(sqlite.Open(":memory:"), GormConfig())
	})

	var wg sync.WaitGroup
	handles := make([]*gorm.DB, 20)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := p.Get(context.Background())
			assert.NoError(t, err)
			handles[i] = db
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&opens))
	for _, h := range handles {
		assert.Same(t, handles[0], h)
	}
	require.NoError(t, p.HealthCheck(context.Background()))
	require.NoError(t, p.Close())
}

func TestProviderRetriesFailedOpen(t *testing.T) {
	calls := 0
	p := NewProvider(func(ctx context.Context) (*gorm.DB, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection refused")
		}
		return gorm.Open(sqlite.Open(":memory:"), GormConfig())
	})

	_, err := p.Get(context.Background())
	assert.Error(t, err)

	db, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, db)
	assert.Equal(t, 2, calls)
}

func TestProviderNotConfigured(t *testing.T) {
	p := NewProvider(nil)

	assert.False(t, p.Configured())
	_, err := p.Get(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBPath: ":memory:", DBTimeout: 5 * time.Second}

	db, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))

	for _, table := range []string{"users", "recipes", "recipe_comments", "saved_recipes"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestMigrationsBackfillSearchFields(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBPath: ":memory:", DBTimeout: 5 * time.Second}
	db, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))

	recipe := &models.Recipe{
		Title:       "Crêpes Suzette",
		Ingredients: models.StringArray{"flour"},
		Steps:       models.StringArray{"Cook"},
		Tags:        models.StringArray{"Dessert", "Français"},
		CreatedBy:   uuid.New(),
	}
	require.NoError(t, db.Create(recipe).Error)

	// Rows written before the search columns existed have them empty
	require.NoError(t, db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).UpdateColumns(map[string]interface{}{
		"search_title": "",
		"search_tags":  models.StringArray{},
	}).Error)

	require.NoError(t, RunMigrations(db))

	var stored models.Recipe
	require.NoError(t, db.First(&stored, "id = ?", recipe.ID).Error)
	assert.Equal(t, "crêpes suzette", stored.SearchTitle)
	assert.Equal(t, models.StringArray{"dessert", "français"}, stored.SearchTags)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{DBDriver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestNewRedisClientNotConfigured(t *testing.T) {
	_, err := NewRedisClient(context.Background(), &config.Config{})
	assert.ErrorIs(t, err, ErrRedisNotConfigured)
}
