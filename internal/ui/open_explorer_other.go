//go:build !windows && !darwin

package ui

import (
	"os"
	"os/exec"
	"path/filepath"
)

// openInFileManager opens path, or the folder holding it, with the
// desktop's default handler
func openInFileManager(path string) error {
	bin, err := exec.LookPath("xdg-open")
	if err != nil {
		return err
	}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		path = filepath.Dir(path)
	}
	return exec.Command(bin, path).Start()
}
