package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetXDGDataDir returns the XDG data directory for adpulse.
// It respects XDG_DATA_HOME if set, otherwise falls back to ~/.local/share/adpulse
func GetXDGDataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "adpulse"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".local", "share", "adpulse"), nil
}

// LocalDatabaseURL returns a file: URL for a database in the XDG data directory,
// creating the directory if needed.
func LocalDatabaseURL() (string, error) {
	dir, err := GetXDGDataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return "file:" + filepath.Join(dir, "adpulse.db"), nil
}
