package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" with the operator's home directory and
// returns a cleaned absolute path. "~user" forms are left untouched.
func ExpandHome(path string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil && IsHomeRelative(path) {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return ExpandHomeWith(path, home)
}

// ExpandHomeWith is ExpandHome with an explicit home directory
func ExpandHomeWith(path, home string) (string, error) {
	expanded := path
	if IsHomeRelative(path) {
		expanded = filepath.Join(home, strings.TrimLeft(path[1:], `/\`))
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

// IsHomeRelative reports whether path starts with "~" or "~/"
func IsHomeRelative(path string) bool {
	if path == "~" {
		return true
	}
	return strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`)
}
