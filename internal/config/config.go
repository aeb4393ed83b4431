package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server        ServerConfig
	OpenFoodFacts OpenFoodFactsConfig
	Cache         CacheConfig
	LogLevel      string
	LogFormat     string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type OpenFoodFactsConfig struct {
	BaseURL    string
	UserAgent  string
	PageSize   int
	Timeout    int // seconds, applied to every upstream request
	MaxRetries int // retries after the first failed attempt
}

type CacheConfig struct {
	TTL int // seconds a search result stays fresh
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		OpenFoodFacts: OpenFoodFactsConfig{
			BaseURL:    getEnv("OFF_BASE_URL", "https://world.openfoodfacts.org"),
			UserAgent:  getEnv("OFF_USER_AGENT", "FoodVista - Go Backend - Version 1.0 - For Educational Purposes"),
			PageSize:   getEnvAsInt("OFF_PAGE_SIZE", 24),
			Timeout:    getEnvAsInt("OFF_TIMEOUT", 10),
			MaxRetries: getEnvAsInt("OFF_MAX_RETRIES", 2),
		},
		Cache: CacheConfig{
			TTL: getEnvAsInt("CACHE_TTL", 300),
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.OpenFoodFacts.BaseURL == "" {
		return fmt.Errorf("OFF_BASE_URL is required")
	}

	if c.OpenFoodFacts.PageSize < 1 {
		return fmt.Errorf("OFF_PAGE_SIZE must be positive")
	}

	if c.OpenFoodFacts.MaxRetries < 0 {
		return fmt.Errorf("OFF_MAX_RETRIES must not be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[strings.ToLower(c.LogFormat)] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.LogFormat)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
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
