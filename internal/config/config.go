// Package config holds the viewer server configuration, assembled from
// environment variables, an optional YAML file and command-line
// overrides, in that order of precedence (later wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// globalConfig stores the configuration loaded with command-line
// overrides so other packages see the same values as the server.
var (
	globalConfig *Config
	configMutex  sync.Mutex
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoadOptions holds command-line override options.
type LoadOptions struct {
	Host       string
	Port       string
	LogLevel   string
	ImageDir   string
	ConfigFile string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           string        `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	IdleTimeout    time.Duration `yaml:"idleTimeout"`
	AllowedOrigins []string      `yaml:"allowedOrigins"`
}

// ViewerConfig holds settings for serving decoded images.
type ViewerConfig struct {
	ImageDir    string `yaml:"imageDir"`
	MaxFileSize int64  `yaml:"maxFileSize"`
	MaxWidth    int    `yaml:"maxWidth"`
	MaxHeight   int    `yaml:"maxHeight"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load loads configuration from environment variables with defaults.
func Load() (*Config, error) {
	return LoadWithOverrides(LoadOptions{})
}

// LoadWithOverrides loads configuration, overlays the YAML config file
// when one is named, and applies command-line overrides last.
func LoadWithOverrides(opts LoadOptions) (*Config, error) {
	config := &Config{}

	config.Server.Host = getEnvWithDefault("SERVER_HOST", "0.0.0.0")
	config.Server.Port = getEnvWithDefault("SERVER_PORT", "8080")
	config.Server.ReadTimeout = getDurationWithDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	config.Server.WriteTimeout = getDurationWithDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	config.Server.IdleTimeout = getDurationWithDefault("SERVER_IDLE_TIMEOUT", 120*time.Second)
	config.Server.AllowedOrigins = getStringSliceWithDefault("ALLOWED_ORIGINS", []string{})

	config.Viewer.ImageDir = getEnvWithDefault("IMAGE_DIR", ".")
	config.Viewer.MaxFileSize = getInt64WithDefault("MAX_FILE_SIZE", 32<<20)
	config.Viewer.MaxWidth = getIntWithDefault("MAX_WIDTH", 8192)
	config.Viewer.MaxHeight = getIntWithDefault("MAX_HEIGHT", 8192)

	config.Logging.Level = getEnvWithDefault("LOG_LEVEL", "info")

	if opts.ConfigFile != "" {
		if err := loadConfigFile(opts.ConfigFile, config); err != nil {
			return nil, err
		}
	}

	if opts.Host != "" {
		config.Server.Host = opts.Host
	}
	if opts.Port != "" {
		config.Server.Port = opts.Port
	}
	if opts.LogLevel != "" {
		config.Logging.Level = opts.LogLevel
	}
	if opts.ImageDir != "" {
		config.Viewer.ImageDir = opts.ImageDir
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	configMutex.Lock()
	globalConfig = config
	configMutex.Unlock()

	return config, nil
}

// GetGlobalConfig returns the configuration loaded by the server,
// including its command-line overrides.
func GetGlobalConfig() *Config {
	configMutex.Lock()
	defer configMutex.Unlock()
	return globalConfig
}

func loadConfigFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}

	if c.Viewer.ImageDir == "" {
		return fmt.Errorf("image directory cannot be empty")
	}

	if info, err := os.Stat(c.Viewer.ImageDir); err != nil || !info.IsDir() {
		return fmt.Errorf("image directory does not exist: %s", c.Viewer.ImageDir)
	}

	if c.Viewer.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive")
	}

	if c.Viewer.MaxWidth <= 0 || c.Viewer.MaxHeight <= 0 {
		return fmt.Errorf("max dimensions must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

// Helper functions for environment variable parsing.

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceWithDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return defaultValue
}
