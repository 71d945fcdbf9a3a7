package cleanup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lumipallolabs/diskprune/internal/logging"
)

// ErrRefused is returned for paths that must never be deleted
var ErrRefused = errors.New("refusing to delete")

// Deleter removes one path at a time
type Deleter struct {
	protected map[string]bool
}

// NewDeleter creates a deleter that refuses filesystem roots and every
// path in protected
func NewDeleter(protected ...string) *Deleter {
	d := &Deleter{protected: make(map[string]bool)}
	for _, p := range protected {
		if p == "" {
			continue
		}
		d.protected[filepath.Clean(p)] = true
	}
	return d
}

// DefaultDeleter protects the operator's home directory
func DefaultDeleter() *Deleter {
	home, err := os.UserHomeDir()
	if err != nil {
		logging.Delete.Printf("home directory unknown: %v", err)
	}
	return NewDeleter(home)
}

// Delete re-stats path and removes it: a directory with its contents, a
// file or symlink on its own. A path that has vanished is an error.
func (d *Deleter) Delete(path string) error {
	if err := d.check(path); err != nil {
		return err
	}

	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

func (d *Deleter) check(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrRefused)
	}
	cleaned := filepath.Clean(path)
	if filepath.Dir(cleaned) == cleaned {
		return fmt.Errorf("%w: %s is a filesystem root", ErrRefused, cleaned)
	}
	if d.protected[cleaned] {
		return fmt.Errorf("%w: %s is protected", ErrRefused, cleaned)
	}
	return nil
}
