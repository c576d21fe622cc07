/**
 * Configuration for the extraction engine worker
 *
 * Loads configuration from environment variables, with .env support
 * handled by the entry points.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds worker configuration.
type Config struct {
	// Redis queue configuration
	RedisURL  string
	QueueName string

	// Worker configuration
	WorkerConcurrency int
	ProcessingTimeout int // milliseconds
	MaxFileSize       int64

	// Orchestrator result cache (bounded LRU, entries)
	CacheSize int

	// OCR configuration
	OCREngine           string // "auto", "tesseract", "paddle"
	OCRLanguage         string
	ConfidenceThreshold float64 // canonical 0-100 scale
	EnableTesseract     bool
	EnablePaddle        bool

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		RedisURL:            getEnvOrDefault("REDIS_URL", "redis://localhost:6379"),
		QueueName:           getEnvOrDefault("QUEUE_NAME", "extract"),
		WorkerConcurrency:   getEnvAsIntOrDefault("WORKER_CONCURRENCY", 10),
		ProcessingTimeout:   getEnvAsIntOrDefault("PROCESSING_TIMEOUT", 300000), // 5 minutes
		MaxFileSize:         getEnvAsInt64OrDefault("MAX_FILE_SIZE", 104857600), // 100MB
		CacheSize:           getEnvAsIntOrDefault("RESULT_CACHE_SIZE", 256),
		OCREngine:           getEnvOrDefault("OCR_ENGINE", "auto"),
		OCRLanguage:         getEnvOrDefault("OCR_LANGUAGE", "eng"),
		ConfidenceThreshold: getEnvAsFloatOrDefault("CONFIDENCE_THRESHOLD", 30),
		EnableTesseract:     getEnvAsBoolOrDefault("ENABLE_TESSERACT", true),
		EnablePaddle:        getEnvAsBoolOrDefault("ENABLE_PADDLE", false),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "console"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration is valid.
func (c *Config) Validate() error {
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.WorkerConcurrency < 1 || c.WorkerConcurrency > 100 {
		return fmt.Errorf("WORKER_CONCURRENCY must be between 1 and 100, got %d", c.WorkerConcurrency)
	}

	if c.CacheSize < 1 {
		return fmt.Errorf("RESULT_CACHE_SIZE must be positive, got %d", c.CacheSize)
	}

	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 100 {
		return fmt.Errorf("CONFIDENCE_THRESHOLD must be on the 0-100 scale, got %v", c.ConfidenceThreshold)
	}

	switch c.OCREngine {
	case "auto", "tesseract", "paddle":
	default:
		return fmt.Errorf("OCR_ENGINE must be one of auto, tesseract, paddle, got %q", c.OCREngine)
	}

	return nil
}

// getEnvOrDefault gets environment variable or returns default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default.
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsInt64OrDefault gets environment variable as int64 or returns default.
func getEnvAsInt64OrDefault(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsFloatOrDefault gets environment variable as float64 or returns default.
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBoolOrDefault gets environment variable as bool or returns default.
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
