package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/fooocus/presets
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// EnsureDir expands path and creates the directory (and parents) if missing.
// Returns the expanded path.
func EnsureDir(path string) (string, error) {
	dir, err := ExpandHome(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure dir: %w", err)
	}
	return dir, nil
}
