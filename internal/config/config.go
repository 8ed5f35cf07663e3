package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// LLM upstream
	LLMProvider    string // "openai" | "gemini"
	LLMAPIKey      string
	LLMBaseURL     string
	GeminiAPIKey   string
	LLMTimeout     time.Duration
	ModelOverrides map[string]string

	// Rate limiting
	RateLimitStore      string // "memory" | "redis" | "postgres"
	RateLimitPerWindow  int
	RateLimitWindow     time.Duration
	UnknownClientPolicy string // "shared" | "reject"

	// External stores (only needed for the matching RateLimitStore)
	RedisURL    string
	DatabaseURL string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		Env:            getEnvOrDefault("ENV", "development"),
		LLMProvider:    getEnvOrDefault("LLM_PROVIDER", "openai"),
		LLMAPIKey:      getEnvOrDefault("LLM_API_KEY", ""),
		LLMBaseURL:     getEnvOrDefault("LLM_BASE_URL", ""),
		GeminiAPIKey:   getEnvOrDefault("GEMINI_API_KEY", ""),
		LLMTimeout:     time.Duration(getEnvAsIntOrDefault("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
		ModelOverrides: map[string]string{
			"format":          getEnvOrDefault("MODEL_FORMAT", ""),
			"mcq":             getEnvOrDefault("MODEL_MCQ", ""),
			"flashcards":      getEnvOrDefault("MODEL_FLASHCARDS", ""),
			"concept-booster": getEnvOrDefault("MODEL_CONCEPT_BOOSTER", ""),
		},
		RateLimitStore:      getEnvOrDefault("RATE_LIMIT_STORE", "memory"),
		RateLimitPerWindow:  getEnvAsIntOrDefault("RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:     time.Duration(getEnvAsIntOrDefault("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		UnknownClientPolicy: getEnvOrDefault("UNKNOWN_CLIENT_POLICY", "shared"),
		RedisURL:            getEnvOrDefault("REDIS_URL", ""),
		DatabaseURL:         getEnvOrDefault("DATABASE_URL", ""),
		FrontendURL:         getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	// A shared store is useless without its URL, so fail loudly at startup
	// instead of falling back to an empty connection string.
	switch cfg.RateLimitStore {
	case "redis":
		cfg.RedisURL = mustGetEnv("REDIS_URL")
	case "postgres":
		cfg.DatabaseURL = mustGetEnv("DATABASE_URL")
	}

	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
