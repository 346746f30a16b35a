package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/apperrors"
	"github.com/pageza/recipe-catalog/backend/internal/database"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/testhelpers"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

func setupUserService(t *testing.T) (*service.UserService, *gorm.DB) {
	db := testhelpers.SetupTestDatabase(t)
	return service.NewUserService(database.FromDB(db), 5*time.Second), db
}

func TestSyncCreatesUserOnce(t *testing.T) {
	svc, db := setupUserService(t)
	ctx := context.Background()

	claims := &types.TokenClaims{
		UserID: uuid.New(),
		Name:   "Alice",
		Email:  "alice@example.com",
		Image:  "https://images.example.com/alice.png",
	}

	user, err := svc.Sync(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, user.ID)
	require.NotNil(t, user.Email)
	assert.Equal(t, "alice@example.com", *user.Email)

	claims.Name = "Alice Renamed"
	again, err := svc.Sync(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.Name, "existing users are not overwritten")

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSyncRequiresIdentity(t *testing.T) {
	svc, _ := setupUserService(t)

	_, err := svc.Sync(context.Background(), &types.TokenClaims{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.Sync(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestToggleSave(t *testing.T) {
	svc, db := setupUserService(t)
	user := testhelpers.CreateUser(t, db, "alice")
	recipe := testhelpers.CreateRecipe(t, db, user.ID, "Curry")
	ctx := context.Background()

	saved, err := svc.ToggleSave(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = svc.ToggleSave(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	var count int64
	require.NoError(t, db.Model(&models.SavedRecipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestToggleSaveErrors(t *testing.T) {
	svc, db := setupUserService(t)
	user := testhelpers.CreateUser(t, db, "alice")
	recipe := testhelpers.CreateRecipe(t, db, user.ID, "Curry")
	ctx := context.Background()

	_, err := svc.ToggleSave(ctx, uuid.New(), recipe.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "unknown user")

	_, err = svc.ToggleSave(ctx, user.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "unknown recipe")
}

func TestToggleSaveRemovesDanglingReference(t *testing.T) {
	svc, db := setupUserService(t)
	user := testhelpers.CreateUser(t, db, "alice")
	gone := uuid.New()
	require.NoError(t, db.Create(&models.SavedRecipe{UserID: user.ID, RecipeID: gone}).Error)

	saved, err := svc.ToggleSave(context.Background(), user.ID, gone)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestListSaved(t *testing.T) {
	svc, db := setupUserService(t)
	user := testhelpers.CreateUser(t, db, "alice")
	other := testhelpers.CreateUser(t, db, "bob")
	first := testhelpers.CreateRecipe(t, db, other.ID, "First")
	second := testhelpers.CreateRecipe(t, db, other.ID, "Second")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&[]models.SavedRecipe{
		{UserID: user.ID, RecipeID: first.ID, CreatedAt: base},
		{UserID: user.ID, RecipeID: uuid.New(), CreatedAt: base.Add(time.Minute)},
		{UserID: user.ID, RecipeID: second.ID, CreatedAt: base.Add(2 * time.Minute)},
		{UserID: other.ID, RecipeID: first.ID, CreatedAt: base},
	}).Error)

	recipes, err := svc.ListSaved(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Second", "First"}, titles(recipes))
	require.NotNil(t, recipes[0].Creator)
	assert.Equal(t, "bob", recipes[0].Creator.Name)

	others, err := svc.ListSaved(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"First"}, titles(others))

	_, err = svc.ListSaved(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
