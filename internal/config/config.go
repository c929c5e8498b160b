package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// AI providers
	AnthropicAPIKey     string
	AnthropicAPIBaseURL string
	AnthropicModel      string
	AnthropicCodeModel  string
	OpenAIAPIKey        string
	OpenAIAPIBaseURL    string
	OpenAIModel         string
	OpenAICodeModel     string
	LLMTimeout          time.Duration

	// Vercel
	VercelToken           string
	VercelTeamID          string
	VercelAPIBaseURL      string
	DeployPollInterval    time.Duration
	DeployPollMaxAttempts int

	// Supabase
	SupabaseURL            string
	SupabaseServiceRoleKey string
	SupabaseJWTSecret      string
	SupabaseStorageBucket  string

	// Database
	DatabaseURL string

	// Redis (optional, enables the shared build lock)
	RedisAddr     string
	RedisPassword string

	// Credits
	CodeGenerationCredits int
	ChatRefinementCredits int

	// Tracing
	OtelEnabled  bool
	OtelEndpoint string

	// Server
	Port               string
	Environment        string
	BaseURL            string
	CORSAllowedOrigins []string
}

func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		AnthropicAPIKey:     getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicAPIBaseURL: getEnv("ANTHROPIC_API_BASE_URL", "https://api.anthropic.com"),
		AnthropicModel:      getEnv("ANTHROPIC_MODEL", "claude-haiku-4-5-20251001"),
		AnthropicCodeModel:  getEnv("ANTHROPIC_CODE_MODEL", "claude-sonnet-4-20250514"),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIAPIBaseURL:    getEnv("OPENAI_API_BASE_URL", ""),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-5-nano"),
		OpenAICodeModel:     getEnv("OPENAI_CODE_MODEL", "gpt-4o"),
		LLMTimeout:          time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 300)) * time.Second,

		VercelToken:           getEnv("VERCEL_TOKEN", ""),
		VercelTeamID:          getEnv("VERCEL_TEAM_ID", ""),
		VercelAPIBaseURL:      getEnv("VERCEL_API_BASE_URL", "https://api.vercel.com"),
		DeployPollInterval:    time.Duration(getEnvInt("DEPLOY_POLL_INTERVAL_SECONDS", 5)) * time.Second,
		DeployPollMaxAttempts: getEnvInt("DEPLOY_POLL_MAX_ATTEMPTS", 60),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabaseServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseJWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "generated-projects"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		CodeGenerationCredits: getEnvInt("CODE_GENERATION_CREDITS", 5000),
		ChatRefinementCredits: getEnvInt("CHAT_REFINEMENT_CREDITS", 3000),

		OtelEnabled:  getEnvBool("OTEL_ENABLED", false),
		OtelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceRoleKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DeployPollMaxAttempts <= 0 {
		return fmt.Errorf("DEPLOY_POLL_MAX_ATTEMPTS must be positive")
	}
	if c.CodeGenerationCredits <= 0 || c.ChatRefinementCredits <= 0 {
		return fmt.Errorf("credit estimates must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// VercelConfigured reports whether deploy and domain features are usable.
func (c *Config) VercelConfigured() bool {
	return c.VercelToken != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
