package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a configuration
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"JWT_SECRET", "is required"})
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DatabaseURL == "" && (cfg.DBHost == "" || cfg.DBName == "") {
			errs = append(errs, ValidationError{"DATABASE_URL", "or DB_HOST and DB_NAME are required"})
		}
	case "sqlite":
		if cfg.Env == Production {
			errs = append(errs, ValidationError{"DB_DRIVER", "sqlite is not supported in production"})
		}
		if cfg.DBPath == "" {
			errs = append(errs, ValidationError{"DB_PATH", "is required for sqlite"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	switch cfg.LLMProvider {
	case "gemini", "openai":
	default:
		errs = append(errs, ValidationError{"LLM_PROVIDER", fmt.Sprintf("unsupported provider %q", cfg.LLMProvider)})
	}

	// Production must be able to reach every external provider
	if cfg.Env == Production {
		if cfg.LLMProvider == "gemini" && cfg.GeminiAPIKey == "" {
			errs = append(errs, ValidationError{"GEMINI_API_KEY", "is required in production"})
		}
		if cfg.LLMProvider == "openai" && cfg.LLMAPIKey == "" {
			errs = append(errs, ValidationError{"LLM_API_KEY", "is required in production"})
		}
		if cfg.DatabaseURL == "" && cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"DB_PASSWORD", "is required in production"})
		}
	}

	if cfg.GenerationRateLimit < 0 {
		errs = append(errs, ValidationError{"GENERATION_RATE_LIMIT", "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
