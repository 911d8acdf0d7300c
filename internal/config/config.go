package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Gemini image editing
	GeminiAPIKey             string
	GeminiBaseURL            string
	GeminiAPIVersion         string
	AIRequestTimeout         time.Duration
	MaxConcurrentGenerations int

	// Guest tokens
	JWTSecret string
	TokenTTL  time.Duration

	// Upload and customization limits
	MaxUploadBytes       int64
	MaxCustomDimensionCm float64
	SessionTTL           time.Duration

	// Server
	Port        string
	Environment string
}

func Load() (*Config, error) {
	cfg := &Config{
		GeminiAPIKey:             strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiBaseURL:            getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiAPIVersion:         getEnv("GEMINI_API_VERSION", "v1beta"),
		AIRequestTimeout:         time.Duration(getEnvInt("AI_REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
		MaxConcurrentGenerations: getEnvInt("MAX_CONCURRENT_GENERATIONS", 4),

		JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,

		MaxUploadBytes:       int64(getEnvInt("MAX_UPLOAD_BYTES", 15<<20)),
		MaxCustomDimensionCm: getEnvFloat("MAX_CUSTOM_DIMENSION_CM", 100),
		SessionTTL:           time.Duration(getEnvInt("SESSION_TTL_MINUTES", 120)) * time.Minute,

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.AIRequestTimeout <= 0 {
		return fmt.Errorf("AI_REQUEST_TIMEOUT_SECONDS must be positive")
	}
	if c.MaxConcurrentGenerations < 1 {
		return fmt.Errorf("MAX_CONCURRENT_GENERATIONS must be at least 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
