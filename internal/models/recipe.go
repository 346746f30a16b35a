package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Source records how a recipe was first produced
type Source string

const (
	SourceUser Source = "user"
	SourceAI   Source = "ai"
)

// Recipe is a catalog entry owned by the user that created it
type Recipe struct {
	ID          uuid.UUID   `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Title       string      `gorm:"size:255;not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Ingredients StringArray `gorm:"not null" json:"ingredients"`
	Steps       StringArray `gorm:"not null" json:"steps"`
	Image       *string     `gorm:"size:1024" json:"image"`
	Tags        StringArray `gorm:"not null" json:"tags"`
	// SearchTitle and SearchTags are lowercased in Go so matching does not
	// depend on how the database folds case
	SearchTitle string      `gorm:"size:255;not null;default:''" json:"-"`
	SearchTags  StringArray `gorm:"not null;default:'[]'" json:"-"`
	Source      Source      `gorm:"size:16;not null;default:'user'" json:"source"`
	Likes       int64       `gorm:"not null;default:0;check:chk_recipes_likes,likes >= 0" json:"likes"`
	CreatedBy   uuid.UUID   `gorm:"type:varchar(36);not null;index" json:"-"`
	Creator     *User       `gorm:"foreignKey:CreatedBy" json:"-"`
	Comments    []Comment   `gorm:"foreignKey:RecipeID" json:"comments"`
}

// BeforeCreate assigns an identifier when the caller did not
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Source == "" {
		r.Source = SourceUser
	}
	r.RefreshSearchFields()
	return nil
}

// RefreshSearchFields recomputes the lowercased search columns
func (r *Recipe) RefreshSearchFields() {
	r.SearchTitle = strings.ToLower(r.Title)
	tags := make(StringArray, len(r.Tags))
	for i, tag := range r.Tags {
		tags[i] = strings.ToLower(tag)
	}
	r.SearchTags = tags
}

// Comment is an immutable note appended to a recipe
type Comment struct {
	// Seq is the insertion sequence and defines comment order
	Seq       uint      `gorm:"primarykey;index:idx_recipe_comments_recipe_seq,priority:2" json:"-"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;index:idx_recipe_comments_recipe_seq,priority:1" json:"-"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null" json:"userId"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Comment) TableName() string {
	return "recipe_comments"
}

// SavedRecipe is a user's bookmark of a recipe. RecipeID is a weak
// reference and may outlive the recipe.
type SavedRecipe struct {
	UserID    uuid.UUID `gorm:"type:varchar(36);primarykey"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);primarykey"`
	CreatedAt time.Time
}

func (SavedRecipe) TableName() string {
	return "saved_recipes"
}

// All lists every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Recipe{},
		&Comment{},
		&SavedRecipe{},
	}
}
