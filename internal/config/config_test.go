package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, ".", cfg.Viewer.ImageDir)
	require.Equal(t, int64(32<<20), cfg.Viewer.MaxFileSize)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MAX_WIDTH", "1024")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, 1024, cfg.Viewer.MaxWidth)
}

func TestLoadFlagOverridesWinOverEnv(t *testing.T) {
	t.Setenv("SERVER_HOST", "10.0.0.1")

	cfg, err := LoadWithOverrides(LoadOptions{Host: "127.0.0.1", LogLevel: "warn"})
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "server:\n  port: \"3000\"\nviewer:\n  imageDir: " + dir + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadWithOverrides(LoadOptions{ConfigFile: path})
	require.NoError(t, err)

	require.Equal(t, "3000", cfg.Server.Port)
	require.Equal(t, dir, cfg.Viewer.ImageDir)
	require.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadWithOverrides(LoadOptions{ConfigFile: "/nonexistent/config.yaml"})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"non-numeric port", func(c *Config) { c.Server.Port = "http" }},
		{"port out of range", func(c *Config) { c.Server.Port = "70000" }},
		{"empty image dir", func(c *Config) { c.Viewer.ImageDir = "" }},
		{"missing image dir", func(c *Config) { c.Viewer.ImageDir = "/nonexistent/images" }},
		{"zero max file size", func(c *Config) { c.Viewer.MaxFileSize = 0 }},
		{"zero max width", func(c *Config) { c.Viewer.MaxWidth = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestGetGlobalConfig(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Same(t, cfg, GetGlobalConfig())
}
