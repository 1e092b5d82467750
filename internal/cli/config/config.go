package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	configDirName  = "progtrack"
	configFileName = "config.json"

	defaultServerURL = "http://localhost:8080"
)

// Config represents the CLI configuration stored in ~/.config/progtrack/config.json
type Config struct {
	ServerURL string `json:"server_url"`
}

// GetConfigPath returns the path to the CLI config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", configDirName)
	return filepath.Join(configDir, configFileName), nil
}

// Load reads the CLI configuration file. Missing file yields defaults.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := &Config{ServerURL: defaultServerURL}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = defaultServerURL
	}

	return cfg, nil
}

// Save writes the CLI configuration to a file
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveServerURL returns the API endpoint in priority order:
// flag value, PROGTRACK_SERVER env var, config file, default.
func ResolveServerURL(flagValue string) (string, error) {
	if flagValue != "" {
		return normalizeURL(flagValue), nil
	}

	if env := os.Getenv("PROGTRACK_SERVER"); env != "" {
		return normalizeURL(env), nil
	}

	cfg, err := Load()
	if err != nil {
		return "", err
	}

	return normalizeURL(cfg.ServerURL), nil
}

func normalizeURL(raw string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	return trimmed
}
