package config

import (
	"os"
	"strconv"
	"time"

	"distlab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Log    LogConfig
}

// ServerConfig holds settings for the JSON API and the HTML explorer
type ServerConfig struct {
	APIPort         string
	UIPort          string
	GinMode         string
	ShutdownTimeout time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: loadServerConfig(),
		Log:    loadLogConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		APIPort:         getEnvOrDefault("API_PORT", "8080"),
		UIPort:          getEnvOrDefault("UI_PORT", "8081"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}
}

func validateConfig(config *Config) error {
	if err := validatePort("API_PORT", config.Server.APIPort); err != nil {
		return err
	}
	if err := validatePort("UI_PORT", config.Server.UIPort); err != nil {
		return err
	}
	if config.Server.APIPort == config.Server.UIPort {
		return errors.ConfigInvalid("API_PORT and UI_PORT must differ")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be one of debug, release, test")
	}
	return nil
}

func validatePort(key, value string) error {
	port, err := strconv.Atoi(value)
	if err != nil || port <= 0 || port > 65535 {
		return errors.ConfigInvalid(key + " must be a port number between 1 and 65535")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
