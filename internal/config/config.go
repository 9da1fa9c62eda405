// Package config loads gateway configuration from the environment and the
// optional TOML config file.
// Priority: Env vars → config.toml → defaults
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment and file.
type Config struct {
	// ServerPort is the address to bind the server to (e.g., ":8080")
	ServerPort string

	// DefaultRegion is used when a request does not name a region.
	DefaultRegion string

	// MaxRetries is the retry ceiling for the outbound dispatcher.
	MaxRetries int

	// RequestTimeout bounds each outbound attempt.
	RequestTimeout time.Duration

	// ExhaustedCodes are the envelope codes that rotate keys.
	ExhaustedCodes []int

	// GlobalBaseURL / CNBaseURL override the fixed regional endpoints.
	GlobalBaseURL string
	CNBaseURL     string

	// RateLimit is requests/minute per gateway API key (0 = unlimited).
	RateLimit int

	// DatabasePath is the SQLite database location.
	DatabasePath string
}

// Load reads configuration from file and environment variables.
// Environment variables override file config values.
func Load() *Config {
	fileConfig, _ := LoadFile() // Ignore error, use defaults

	return &Config{
		ServerPort:     getEnvOrFile("SERVER_PORT", fileConfig.ServerPort, ":8080"),
		DefaultRegion:  getEnvOrFile("KLING_DEFAULT_REGION", fileConfig.DefaultRegion, "global"),
		MaxRetries:     getEnvIntOrFile("KLING_MAX_RETRIES", fileConfig.MaxRetries, 2),
		RequestTimeout: time.Duration(getEnvIntOrFile("KLING_TIMEOUT_SECONDS", fileConfig.TimeoutSeconds, 60)) * time.Second,
		ExhaustedCodes: getEnvCodesOrFile("KLING_EXHAUSTED_CODES", fileConfig.ExhaustedCodes, []int{1004, 1005}),
		GlobalBaseURL:  getEnvOrFile("KLING_GLOBAL_BASE_URL", fileConfig.GlobalBaseURL, ""),
		CNBaseURL:      getEnvOrFile("KLING_CN_BASE_URL", fileConfig.CNBaseURL, ""),
		RateLimit:      getEnvIntOrFile("RATE_LIMIT", fileConfig.RateLimit, 0),
		DatabasePath:   getEnvOrFile("DATABASE_PATH", fileConfig.DatabasePath, DBPath()),
	}
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvIntOrFile returns env int, file int, or default (in priority order)
func getEnvIntOrFile(key string, fileValue *int, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed >= 0 {
			return parsed
		}
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}

// getEnvCodesOrFile parses a comma-separated code list from env, falling
// back to the file list, then the default.
func getEnvCodesOrFile(key string, fileValue, defaultValue []int) []int {
	if value := os.Getenv(key); value != "" {
		var codes []int
		for _, part := range strings.Split(value, ",") {
			if code, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				codes = append(codes, code)
			}
		}
		if len(codes) > 0 {
			return codes
		}
	}
	if len(fileValue) > 0 {
		return fileValue
	}
	return defaultValue
}
