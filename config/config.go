package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string
	LogLevel    string

	// Database configuration. DatabaseURL wins over the discrete fields.
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DBPath      string
	DBTimeout   time.Duration

	// Redis configuration, optional
	RedisURL string

	// JWT configuration
	JWTSecret string

	// Text generation provider
	LLMProvider         string
	GeminiAPIKey        string
	GeminiModel         string
	LLMAPIURL           string
	LLMAPIKey           string
	LLMModel            string
	GenerationTimeout   time.Duration
	GenerationRateLimit int

	// Image search provider
	UnsplashAccessKey  string
	UnsplashAPIURL     string
	ImageLookupTimeout time.Duration

	// Object storage
	S3Bucket  string
	AWSRegion string
}

// secretKeys are read from Docker secrets when the matching environment
// variable is empty
var secretKeys = map[string]string{
	"DB_PASSWORD":         "db_password",
	"DATABASE_URL":        "database_url",
	"JWT_SECRET":          "jwt_secret",
	"REDIS_URL":           "redis_url",
	"GEMINI_API_KEY":      "gemini_api_key",
	"LLM_API_KEY":         "llm_api_key",
	"UNSPLASH_ACCESS_KEY": "unsplash_access_key",
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Env: env}

	var lookup func(key string) string
	switch env {
	case CI, Test:
		// CI and tests inject everything through the environment
		lookup = os.Getenv
	case Development, Production:
		lookup = envOrSecret
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := load(cfg, lookup); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func load(cfg *Config, lookup func(string) string) error {
	get := func(key, def string) string {
		if v := strings.TrimSpace(lookup(key)); v != "" {
			return v
		}
		return def
	}

	cfg.ServerHost = get("SERVER_HOST", "0.0.0.0")
	cfg.ServerPort = get("SERVER_PORT", "8080")
	cfg.CORSOrigins = splitList(get("CORS_ORIGINS", "http://localhost:3000"))
	cfg.LogLevel = get("LOG_LEVEL", "info")

	cfg.DBDriver = get("DB_DRIVER", "postgres")
	cfg.DatabaseURL = get("DATABASE_URL", "")
	cfg.DBHost = get("DB_HOST", "localhost")
	cfg.DBPort = get("DB_PORT", "5432")
	cfg.DBUser = get("DB_USER", "postgres")
	cfg.DBPassword = get("DB_PASSWORD", "")
	cfg.DBName = get("DB_NAME", "recipes")
	cfg.DBSSLMode = get("DB_SSL_MODE", "disable")
	cfg.DBPath = get("DB_PATH", "recipes.db")

	cfg.RedisURL = get("REDIS_URL", "")
	cfg.JWTSecret = get("JWT_SECRET", "")

	cfg.LLMProvider = get("LLM_PROVIDER", "gemini")
	cfg.GeminiAPIKey = get("GEMINI_API_KEY", "")
	cfg.GeminiModel = get("GEMINI_MODEL", "gemini-1.5-flash")
	cfg.LLMAPIURL = get("LLM_API_URL", "https://api.deepseek.com/v1/chat/completions")
	cfg.LLMAPIKey = get("LLM_API_KEY", "")
	cfg.LLMModel = get("LLM_MODEL", "deepseek-chat")

	cfg.UnsplashAccessKey = get("UNSPLASH_ACCESS_KEY", "")
	cfg.UnsplashAPIURL = get("UNSPLASH_API_URL", "https://api.unsplash.com")

	cfg.S3Bucket = get("S3_BUCKET_NAME", "recipe-catalog-images")
	cfg.AWSRegion = get("AWS_REGION", "us-east-1")

	var err error
	if cfg.DBTimeout, err = parseDuration("DB_TIMEOUT", get("DB_TIMEOUT", "5s")); err != nil {
		return err
	}
	if cfg.GenerationTimeout, err = parseDuration("GENERATION_TIMEOUT", get("GENERATION_TIMEOUT", "60s")); err != nil {
		return err
	}
	if cfg.ImageLookupTimeout, err = parseDuration("IMAGE_LOOKUP_TIMEOUT", get("IMAGE_LOOKUP_TIMEOUT", "5s")); err != nil {
		return err
	}
	if cfg.GenerationRateLimit, err = strconv.Atoi(get("GENERATION_RATE_LIMIT", "10")); err != nil {
		return fmt.Errorf("invalid GENERATION_RATE_LIMIT: %w", err)
	}

	return nil
}

// PostgresDSN returns the connection string for the postgres driver
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// envOrSecret prefers the environment and falls back to a Docker secret
func envOrSecret(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if name, ok := secretKeys[key]; ok {
		return readSecret(name)
	}
	return ""
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
