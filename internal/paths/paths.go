// Package paths resolves the daybook state and config locations.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StateDirEnvVar overrides the state directory when set.
const StateDirEnvVar = "DAYBOOK_STATE_DIR"

// HomeDir returns the user's home directory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return home, nil
}

// WorkingDir returns the current working directory.
func WorkingDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return dir, nil
}

// DefaultStateDir returns the default daybook state directory.
func DefaultStateDir() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "daybook"), nil
}

// DefaultConfigDir returns the directory holding the global config file.
func DefaultConfigDir() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "daybook"), nil
}

// ResolveWithDefault returns override when set, otherwise the result of defaultFn.
func ResolveWithDefault(override string, defaultFn func() (string, error)) (string, error) {
	if override != "" {
		return override, nil
	}
	return defaultFn()
}

// ExpandHome replaces a leading "~/" with the home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// StateDir picks the state directory: $DAYBOOK_STATE_DIR, then configured,
// then DefaultStateDir.
func StateDir(configured string) (string, error) {
	if env := strings.TrimSpace(os.Getenv(StateDirEnvVar)); env != "" {
		return ExpandHome(env)
	}
	dir, err := ResolveWithDefault(strings.TrimSpace(configured), DefaultStateDir)
	if err != nil {
		return "", err
	}
	return ExpandHome(dir)
}
