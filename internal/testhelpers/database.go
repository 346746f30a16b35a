package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/database"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// TestJWTSecret signs tokens produced by NewToken
const TestJWTSecret = "test-jwt-secret"

// SetupTestDatabase creates a migrated in-memory SQLite database private to the test
func SetupTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// One connection keeps the shared-cache database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)

	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CreateUser inserts a user with the given display name
func CreateUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	email := fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8])
	user := &models.User{ID: uuid.New(), Name: name, Email: &email}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// RecipeOption customizes a fixture recipe
type RecipeOption func(*models.Recipe)

// WithLikes sets the like counter
func WithLikes(n int64) RecipeOption {
	return func(r *models.Recipe) { r.Likes = n }
}

// WithTags sets the tags
func WithTags(tags ...string) RecipeOption {
	return func(r *models.Recipe) { r.Tags = tags }
}

// WithCreatedAt sets the creation time
func WithCreatedAt(ts time.Time) RecipeOption {
	return func(r *models.Recipe) { r.CreatedAt = ts }
}

// CreateRecipe inserts a valid recipe owned by owner
func CreateRecipe(t *testing.T, db *gorm.DB, owner uuid.UUID, title string, opts ...RecipeOption) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		ID:          uuid.New(),
		Title:       title,
		Description: "A test recipe",
		Ingredients: models.StringArray{"1 cup flour", "2 eggs"},
		Steps:       models.StringArray{"Mix", "Bake"},
		Tags:        models.StringArray{},
		Source:      models.SourceUser,
		CreatedBy:   owner,
	}
	for _, opt := range opts {
		opt(recipe)
	}

	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return recipe
}

// NewToken signs a session token for user with the test secret
func NewToken(t *testing.T, user *models.User) string {
	t.Helper()

	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: user.ID,
		Name:   user.Name,
	}
	if user.Email != nil {
		claims.Email = *user.Email
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}
