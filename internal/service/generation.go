package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pageza/recipe-catalog/backend/internal/apperrors"
	"github.com/pageza/recipe-catalog/backend/internal/resilience"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// GeneratedSource marks drafts produced by generation plus image search
const GeneratedSource = "ai+unsplash"

const (
	DefaultGenerationTimeout  = 60 * time.Second
	DefaultImageLookupTimeout = 5 * time.Second
)

const recipePromptTemplate = `Generate a detailed recipe for %s.

Requirements:
1. Cover every step and tip in depth.
2. The description must be a long descriptive paragraph of at least 3 to 5 sentences.
3. The ingredient list must be exhaustive, with quantities, optional substitutions and notes where useful.
4. Steps must be detailed and ordered, covering preparation, cooking and serving, with tips for variations, timing and presentation.
5. Respond with ONLY valid UTF-8 plain text JSON: no markdown, no code fences, no emojis, no special characters, no explanations.
6. The JSON object must have exactly these keys:
   - title (string)
   - description (string)
   - ingredients (array of strings)
   - steps (array of strings)
7. Make the content as long and thorough as possible while staying valid JSON.
8. Do not produce anything other than food recipes.`

var fencePattern = regexp.MustCompile("(?i)```(?:json)?")

// GenerationService turns a prompt into an unsaved recipe draft
type GenerationService struct {
	generator    TextGenerator
	images       ImageSearcher
	breaker      *resilience.Breaker
	timeout      time.Duration
	imageTimeout time.Duration
	logger       zerolog.Logger
}

// GenerationOption configures a GenerationService
type GenerationOption func(*GenerationService)

// WithBreaker routes provider calls through a circuit breaker
func WithBreaker(b *resilience.Breaker) GenerationOption {
	return func(s *GenerationService) { s.breaker = b }
}

// WithTimeouts overrides the provider and image lookup timeouts
func WithTimeouts(generation, imageLookup time.Duration) GenerationOption {
	return func(s *GenerationService) {
		if generation > 0 {
			s.timeout = generation
		}
		if imageLookup > 0 {
			s.imageTimeout = imageLookup
		}
	}
}

// NewGenerationService creates a new GenerationService. images may be nil,
// in which case drafts never carry an image.
func NewGenerationService(generator TextGenerator, images ImageSearcher, opts ...GenerationOption) *GenerationService {
	s := &GenerationService{
		generator:    generator,
		images:       images,
		timeout:      DefaultGenerationTimeout,
		imageTimeout: DefaultImageLookupTimeout,
		logger:       log.With().Str("component", "GenerationService").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildRecipePrompt renders the fixed instruction template for a user prompt
func BuildRecipePrompt(prompt string) string {
	return fmt.Sprintf(recipePromptTemplate, prompt)
}

// Generate asks the provider for a recipe, parses it and attaches an image.
// Nothing is persisted.
func (s *GenerationService) Generate(ctx context.Context, prompt string) (*types.GeneratedRecipe, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, apperrors.Validation("query is required", map[string]string{
			"query": "query must not be empty",
		})
	}

	raw, err := s.callProvider(ctx, prompt)
	if err != nil {
		return nil, err
	}

	draft, err := ParseRecipeDraft(raw)
	if err != nil {
		s.logger.Warn().Err(err).Str("prompt", prompt).Msg("provider returned unparsable recipe")
		return nil, err
	}

	draft.Image = s.lookupImage(ctx, prompt)
	draft.Source = GeneratedSource
	return draft, nil
}

func (s *GenerationService) callProvider(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	call := func() (string, error) {
		return s.generator.Generate(ctx, BuildRecipePrompt(prompt))
	}

	var (
		raw string
		err error
	)
	start := time.Now()
	if s.breaker != nil {
		raw, err = s.breaker.Execute(call)
	} else {
		raw, err = call()
	}
	if err != nil {
		s.logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("text generation failed")
		if _, ok := apperrors.As(err); ok {
			return "", err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperrors.Upstream("text generation timed out", err)
		}
		return "", apperrors.Upstream("text generation failed", err)
	}

	s.logger.Debug().Dur("elapsed", time.Since(start)).Int("bytes", len(raw)).Msg("text generation completed")
	return raw, nil
}

// lookupImage is best effort: any failure yields no image
func (s *GenerationService) lookupImage(ctx context.Context, query string) *string {
	if s.images == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.imageTimeout)
	defer cancel()

	url, err := s.images.SearchImage(ctx, query)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("image lookup failed")
		return nil
	}
	if url == "" {
		return nil
	}
	return &url
}

// CleanProviderOutput removes code fences the provider may wrap around JSON
func CleanProviderOutput(raw string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))
}

// ParseRecipeDraft cleans and decodes provider output. Output that is not a
// JSON object with a title and at least one ingredient or step is a parse
// error carrying the raw text.
func ParseRecipeDraft(raw string) (*types.GeneratedRecipe, error) {
	cleaned := CleanProviderOutput(raw)

	var payload struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Ingredients []string `json:"ingredients"`
		Steps       []string `json:"steps"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, apperrors.Parse("failed to parse generated recipe", cleaned, err)
	}
	if strings.TrimSpace(payload.Title) == "" {
		return nil, apperrors.Parse("generated recipe has no title", cleaned, nil)
	}
	if len(payload.Ingredients) == 0 && len(payload.Steps) == 0 {
		return nil, apperrors.Parse("generated recipe has no ingredients or steps", cleaned, nil)
	}

	draft := &types.GeneratedRecipe{
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
		Ingredients: payload.Ingredients,
		Steps:       payload.Steps,
	}
	if draft.Ingredients == nil {
		draft.Ingredients = []string{}
	}
	if draft.Steps == nil {
		draft.Steps = []string{}
	}
	return draft, nil
}
