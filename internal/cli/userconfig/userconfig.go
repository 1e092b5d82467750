package userconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirName   = "progtrack"
	sessionFileName = "session.json"
)

// Profile is the locally persisted copy of the signed-in user,
// stored in ~/.config/progtrack/session.json alongside the remember-me flag.
// The token itself lives in the OS keyring, not here.
type Profile struct {
	User       json.RawMessage `json:"user"`
	RememberMe bool            `json:"remember_me"`
}

// GetSessionPath returns the path to the persisted session file
func GetSessionPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", configDirName)
	return filepath.Join(configDir, sessionFileName), nil
}

// ProfileStore defines the interface for persisted profile operations
// This allows swapping the config-dir file for an in-memory store in tests
type ProfileStore interface {
	SaveProfile(p *Profile) error
	LoadProfile() (*Profile, error)
	DeleteProfile() error
}

// defaultProfileStore implements ProfileStore on the user's config directory
type defaultProfileStore struct{}

var Default ProfileStore = &defaultProfileStore{}

func (d *defaultProfileStore) SaveProfile(p *Profile) error {
	return SaveProfile(p)
}

func (d *defaultProfileStore) LoadProfile() (*Profile, error) {
	return LoadProfile()
}

func (d *defaultProfileStore) DeleteProfile() error {
	return DeleteProfile()
}

// SaveProfile writes the profile to the session file
func SaveProfile(p *Profile) error {
	sessionPath, err := GetSessionPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(sessionPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := os.WriteFile(sessionPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// LoadProfile reads the persisted profile.
// Returns nil (not an error) when no profile is stored.
func LoadProfile() (*Profile, error) {
	sessionPath, err := GetSessionPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(sessionPath); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(sessionPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return &p, nil
}

// DeleteProfile removes the persisted profile. Idempotent.
func DeleteProfile() error {
	sessionPath, err := GetSessionPath()
	if err != nil {
		return err
	}

	if err := os.Remove(sessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}

	return nil
}
