package mockapi

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"foodwagen/internal/logging"
)

// Config holds the stand-in server configuration, read from the environment.
type Config struct {
	Host            string
	Port            string
	DBPath          string
	Resources       []string
	Seed            bool
	LogLevel        string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Host:            getEnv("MOCKAPI_HOST", "127.0.0.1"),
		Port:            getEnv("MOCKAPI_PORT", "8080"),
		DBPath:          getEnv("MOCKAPI_DB", "mockapi.db"),
		Resources:       getEnvAsSlice("MOCKAPI_RESOURCES", []string{FoodResource}),
		Seed:            getEnvAsBool("MOCKAPI_SEED", true),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ReadTimeout:     getEnvAsInt("MOCKAPI_READ_TIMEOUT", 15),
		WriteTimeout:    getEnvAsInt("MOCKAPI_WRITE_TIMEOUT", 15),
		ShutdownTimeout: getEnvAsInt("MOCKAPI_SHUTDOWN_TIMEOUT", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("MOCKAPI_PORT is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid MOCKAPI_PORT: %s", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("MOCKAPI_DB is required")
	}
	if len(c.Resources) == 0 {
		return fmt.Errorf("at least one resource must be configured")
	}
	for _, r := range c.Resources {
		if !validResourceName(r) {
			return fmt.Errorf("invalid resource name: %q", r)
		}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func validResourceName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !(r == '_' || r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
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

func getEnvAsBool(key string, defaultValue bool) bool {
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

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
