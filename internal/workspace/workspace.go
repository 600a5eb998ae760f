// Package workspace manages the application data directory that holds
// the database and config file.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const BaseDirName = ".polyglot"

// EnsureDefault creates the data directory under the user's home and
// returns its path.
func EnsureDefault() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return EnsureAt(filepath.Join(home, BaseDirName))
}

// EnsureAt creates the directory layout rooted at base.
func EnsureAt(base string) (string, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", base, err)
	}
	return base, nil
}

// DefaultDBPath is the database location inside the default workspace.
// The directory is not created here.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "polyglot.db"
	}
	return filepath.Join(home, BaseDirName, "polyglot.db")
}

// DefaultConfigPath is the config file location inside the default
// workspace.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "polyglot.toml"
	}
	return filepath.Join(home, BaseDirName, "polyglot.toml")
}
