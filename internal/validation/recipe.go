package validation

import (
	"net/url"
	"strings"

	"github.com/pageza/recipe-catalog/backend/internal/apperrors"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// NormalizeRecipe trims the input in place, collapses an empty image to
// nil and de-duplicates tags case-insensitively keeping first occurrence
func NormalizeRecipe(in *types.RecipeInput) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Ingredients = trimAll(in.Ingredients)
	in.Steps = trimAll(in.Steps)

	if in.Image != nil {
		img := strings.TrimSpace(*in.Image)
		if img == "" {
			in.Image = nil
		} else {
			in.Image = &img
		}
	}

	if in.Tags != nil {
		seen := make(map[string]struct{}, len(in.Tags))
		tags := make([]string, 0, len(in.Tags))
		for _, tag := range in.Tags {
			tag = strings.TrimSpace(tag)
			key := strings.ToLower(tag)
			if tag == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			tags = append(tags, tag)
		}
		in.Tags = tags
	}
}

// ValidateRecipe normalizes and validates a recipe payload. The returned
// error is an *apperrors.Error of kind validation carrying field messages.
func ValidateRecipe(in *types.RecipeInput) error {
	NormalizeRecipe(in)

	fields := ValidateStruct(in)
	if in.Image != nil {
		if _, failed := fields["image"]; !failed && !isHTTPURL(*in.Image) {
			if fields == nil {
				fields = map[string]string{}
			}
			fields["image"] = "image must be an http or https URL"
		}
	}
	if len(fields) > 0 {
		return apperrors.Validation("invalid recipe", fields)
	}
	return nil
}

// ValidateComment checks comment text and returns it trimmed
func ValidateComment(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.Validation("comment is required", map[string]string{
			"comment": "comment must not be empty",
		})
	}
	return text, nil
}

// SourceOf maps an input source marker onto a stored source. Generated
// drafts carry an enrichment suffix that is not stored.
func SourceOf(marker string) models.Source {
	if marker == string(models.SourceAI) || strings.HasPrefix(marker, string(models.SourceAI)+"+") {
		return models.SourceAI
	}
	return models.SourceUser
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func trimAll(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = strings.TrimSpace(item)
	}
	return out
}
