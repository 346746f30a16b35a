package types

// RecipeInput is the full field set of a creatable recipe
type RecipeInput struct {
	Title       string   `json:"title" validate:"notblank,max=255"`
	Description string   `json:"description" validate:"max=10000"`
	Ingredients []string `json:"ingredients" validate:"required,min=1,dive,notblank"`
	Steps       []string `json:"steps" validate:"required,min=1,dive,notblank"`
	Image       *string  `json:"image" validate:"omitempty,url"`
	Tags        []string `json:"tags" validate:"omitempty,dive,max=50"`
	Source      string   `json:"source" validate:"omitempty,oneof=user ai ai+unsplash"`
}

// RecipePatch is a partial recipe update. Nil fields are left as they are;
// a non-nil empty Image clears the image.
type RecipePatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Ingredients *[]string `json:"ingredients"`
	Steps       *[]string `json:"steps"`
	Image       *string   `json:"image"`
	Tags        *[]string `json:"tags"`
}

// Columns returns the storage columns touched by the patch
func (p RecipePatch) Columns() []string {
	var cols []string
	if p.Title != nil {
		cols = append(cols, "title")
	}
	if p.Description != nil {
		cols = append(cols, "description")
	}
	if p.Ingredients != nil {
		cols = append(cols, "ingredients")
	}
	if p.Steps != nil {
		cols = append(cols, "steps")
	}
	if p.Image != nil {
		cols = append(cols, "image")
	}
	if p.Tags != nil {
		cols = append(cols, "tags")
	}
	return cols
}

// Apply overlays the patch on base and returns the merged input
func (p RecipePatch) Apply(base RecipeInput) RecipeInput {
	merged := base
	if p.Title != nil {
		merged.Title = *p.Title
	}
	if p.Description != nil {
		merged.Description = *p.Description
	}
	if p.Ingredients != nil {
		merged.Ingredients = *p.Ingredients
	}
	if p.Steps != nil {
		merged.Steps = *p.Steps
	}
	if p.Image != nil {
		img := *p.Image
		merged.Image = &img
	}
	if p.Tags != nil {
		merged.Tags = *p.Tags
	}
	return merged
}

// LikeRequest selects between like and unlike
type LikeRequest struct {
	Action string `json:"action"`
}

// CommentRequest carries a new comment
type CommentRequest struct {
	Comment string `json:"comment"`
}

// GenerateRequest carries the user's prompt for recipe generation
type GenerateRequest struct {
	Query string `json:"query"`
}
