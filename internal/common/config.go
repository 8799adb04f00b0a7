package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Recognition RecognitionConfig
	Render      RenderConfig
	Batch       BatchConfig
	Cache       CacheConfig
}

// RecognitionConfig holds the vision recognition endpoint settings.
type RecognitionConfig struct {
	URL         string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// RenderConfig holds PDF page rendering settings.
type RenderConfig struct {
	DPI      int
	Pdfinfo  string
	Pdftoppm string
}

// BatchConfig holds batch processing settings.
type BatchConfig struct {
	InputDir   string
	MaxWorkers int
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	DBPath  string
	Enabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Recognition: RecognitionConfig{
			URL:         getEnv("GCN_LLM_URL", "http://192.168.1.69:1234/v1/chat/completions"),
			Model:       getEnv("GCN_MODEL", "qwen2.5-vl-72b-instruct"),
			Temperature: getEnvAsFloat32("GCN_TEMPERATURE", 0),
			Timeout:     getEnvAsDuration("GCN_API_TIMEOUT", 120*time.Second),
		},
		Render: RenderConfig{
			DPI:      getEnvAsInt("GCN_RENDER_DPI", 300),
			Pdfinfo:  getEnv("GCN_PDFINFO", "pdfinfo"),
			Pdftoppm: getEnv("GCN_PDFTOPPM", "pdftoppm"),
		},
		Batch: BatchConfig{
			InputDir:   getEnv("GCN_INPUT_DIR", "input"),
			MaxWorkers: getEnvAsInt("GCN_MAX_WORKERS", 5),
		},
		Cache: CacheConfig{
			DBPath:  getEnv("GCN_CACHE_DB", "processed_cache.db"),
			Enabled: getEnvAsBool("GCN_CACHE_ENABLED", true),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Recognition.URL == "" {
		return NewAppError("CONFIG_ERROR", "GCN_LLM_URL is required", ErrInvalidInput)
	}
	if c.Recognition.Model == "" {
		return NewAppError("CONFIG_ERROR", "GCN_MODEL is required", ErrInvalidInput)
	}
	if c.Batch.MaxWorkers < 1 {
		return NewAppError("CONFIG_ERROR", "GCN_MAX_WORKERS must be at least 1", ErrInvalidInput)
	}
	if c.Render.DPI < 72 {
		return NewAppError("CONFIG_ERROR", "GCN_RENDER_DPI must be at least 72", ErrInvalidInput)
	}
	return nil
}
