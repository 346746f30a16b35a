package llm

import (
	"context"
	"fmt"

	"github.com/pageza/recipe-catalog/backend/config"
)

// Provider is a text generation backend
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

// New creates the provider selected by LLM_PROVIDER
func New(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.LLMProvider {
	case "gemini":
		return NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "openai":
		return NewChatProvider(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
	}
}

// Close implements Provider
func (p *ChatProvider) Close() error {
	return nil
}
