package config

import (
	"os"
	"path/filepath"
)

// Environment variables that override DefaultSettings.
const (
	EnvDataDir  = "FRIENDLENS_DATA_DIR"
	EnvConfig   = "FRIENDLENS_CONFIG"
	EnvLogLevel = "FRIENDLENS_LOG_LEVEL"
)

// Settings holds runtime configuration for the CLI and the MCP server.
type Settings struct {
	// DataDir holds friendlens.db and the pending/ directory.
	DataDir string
	// BundlePath points to an override bundle. Empty means embedded default.
	BundlePath string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// DefaultSettings returns settings rooted at ~/.friendlens.
func DefaultSettings() Settings {
	home, _ := os.UserHomeDir()
	return Settings{
		DataDir:  filepath.Join(home, ".friendlens"),
		LogLevel: "info",
	}
}

// WithEnv returns a copy of s with non-empty environment overrides applied.
func (s Settings) WithEnv() Settings {
	if v := os.Getenv(EnvDataDir); v != "" {
		s.DataDir = v
	}
	if v := os.Getenv(EnvConfig); v != "" {
		s.BundlePath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		s.LogLevel = v
	}
	return s
}

// PendingDir is where anonymous results wait to be claimed.
func (s Settings) PendingDir() string {
	return filepath.Join(s.DataDir, "pending")
}
