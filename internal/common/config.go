package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Vision   VisionConfig
	Raster   RasterConfig
	Pipeline PipelineConfig
	RunStore RunStoreConfig
}

// VisionConfig holds settings for the external OCR/vision capability.
type VisionConfig struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// RasterConfig holds PDF rasterization settings.
type RasterConfig struct {
	Pdftoppm string
	DPI      int
}

// PipelineConfig holds orchestration settings.
type PipelineConfig struct {
	Workers     int
	ImageSubdir string
}

// RunStoreConfig holds run-history settings.
type RunStoreConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Vision: VisionConfig{
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.1),
			MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 1200),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Raster: RasterConfig{
			Pdftoppm: getEnv("PDFTOPPM_BIN", "pdftoppm"),
			DPI:      getEnvAsInt("RASTER_DPI", 300),
		},
		Pipeline: PipelineConfig{
			Workers:     getEnvAsInt("EXTRACT_WORKERS", 4),
			ImageSubdir: getEnv("IMAGE_SUBDIR", "images_temp"),
		},
		RunStore: RunStoreConfig{
			Path: getEnv("RUNSTORE_PATH", ""),
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration.
func (c *Config) Validate() error {
	if c.Vision.APIKey == "" {
		return NewAppError(CodeConfig, "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Raster.DPI <= 0 {
		return NewAppError(CodeConfig, "RASTER_DPI must be positive", ErrInvalidInput)
	}
	if c.Pipeline.Workers <= 0 {
		return NewAppError(CodeConfig, "EXTRACT_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
