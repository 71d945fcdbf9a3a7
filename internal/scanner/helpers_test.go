package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

const (
	kib = 1 << 10
	mib = 1 << 20
	gib = 1 << 30
)

// writeSized creates a sparse file of the given logical size
func writeSized(t *testing.T, path string, size int64) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		t.Fatalf("truncate %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}

func sizers() map[string]Sizer {
	return map[string]Sizer{
		"stack": StackSizer{},
		"fast":  NewFastSizer(4),
	}
}

func canTestPermissions(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 || os.Geteuid() == -1 {
		t.Skip("permission checks are not enforced for this user/platform")
	}
}
