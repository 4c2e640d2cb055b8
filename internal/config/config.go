package config

import (
	"os"
	"strconv"
	"time"

	"gradelens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Analysis AnalysisConfig
	AI       AIConfig
	Metrics  MetricsConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string `validate:"required,numeric"`
	GinMode     string `validate:"oneof=debug release test"`
	MaxUploadMB int    `validate:"gte=1,lte=512"`
}

// AnalysisConfig holds defaults for analysis requests
type AnalysisConfig struct {
	PassMark           float64 `validate:"gte=0,lte=100"`
	TreatMissingAsZero bool
	SchoolName         string `validate:"required"`
}

// AIConfig holds parent-summary LLM settings. A missing key is allowed:
// the summarizer falls back to its templates.
type AIConfig struct {
	Enabled     bool
	Provider    string `validate:"oneof=openai"`
	APIKey      string
	Model       string        `validate:"required"`
	BaseURL     string        `validate:"omitempty,url"`
	Timeout     time.Duration `validate:"gt=0"`
	Temperature float64       `validate:"gte=0,lte=2"`
	MaxTokens   int           `validate:"gte=1"`
}

// MetricsConfig controls the prometheus endpoint
type MetricsConfig struct {
	Enabled bool
	Path    string `validate:"required,startswith=/"`
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Analysis: *loadAnalysisConfig(),
		AI:       *loadAIConfig(),
		Metrics:  *loadMetricsConfig(),
	}

	if err := Validate(config); err != nil {
		return nil, errors.ConfigInvalid(err)
	}
	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:        getEnvOrDefault("PORT", "8080"),
		GinMode:     getEnvOrDefault("GIN_MODE", "release"),
		MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 16),
	}
}

func loadAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		PassMark:           getEnvFloatOrDefault("PASS_MARK", 50),
		TreatMissingAsZero: getEnvBoolOrDefault("TREAT_MISSING_AS_ZERO", false),
		SchoolName:         getEnvOrDefault("SCHOOL_NAME", "My School"),
	}
}

func loadAIConfig() *AIConfig {
	return &AIConfig{
		Enabled:     getEnvBoolOrDefault("AI_ENABLED", false),
		Provider:    getEnvOrDefault("AI_PROVIDER", "openai"),
		APIKey:      os.Getenv("OPENAI_API_KEY"),
		Model:       getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		BaseURL:     os.Getenv("OPENAI_BASE_URL"),
		Timeout:     getEnvSecondsOrDefault("AI_TIMEOUT_SECONDS", 20*time.Second),
		Temperature: getEnvFloatOrDefault("AI_TEMPERATURE", 0.2),
		MaxTokens:   getEnvIntOrDefault("AI_MAX_TOKENS", 600),
	}
}

func loadMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		Enabled: getEnvBoolOrDefault("METRICS_ENABLED", true),
		Path:    getEnvOrDefault("METRICS_PATH", "/metrics"),
	}
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch value {
		case "yes", "on", "YES", "ON":
			return true
		}
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvSecondsOrDefault accepts plain seconds ("20", "2.5") or a Go
// duration ("1m").
func getEnvSecondsOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
