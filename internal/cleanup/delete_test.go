package cleanup

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDeleteRefuses(t *testing.T) {
	home := t.TempDir()
	d := NewDeleter(home)

	root := string(filepath.Separator)
	if runtime.GOOS == "windows" {
		root = `C:\`
	}

	for _, path := range []string{"", root, home, home + string(filepath.Separator)} {
		if err := d.Delete(path); !errors.Is(err, ErrRefused) {
			t.Errorf("Delete(%q): expected ErrRefused, got %v", path, err)
		}
	}
	if _, err := os.Stat(home); err != nil {
		t.Errorf("protected directory touched: %v", err)
	}
}

func TestDeleteFileAndDir(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "f")
	dir := filepath.Join(tmp, "d")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "a", "b"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a", "b", "c"), []byte("y"), 0644); err != nil {
		t.Fatal(err)
	}

	d := NewDeleter()
	if err := d.Delete(file); err != nil {
		t.Errorf("delete file: %v", err)
	}
	if err := d.Delete(dir); err != nil {
		t.Errorf("delete dir: %v", err)
	}
	if exists(file) || exists(dir) {
		t.Error("paths still exist")
	}
}

func TestDeleteSymlinkKeepsTarget(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}
	tmp := t.TempDir()
	target := filepath.Join(tmp, "target")
	if err := os.MkdirAll(filepath.Join(target, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(tmp, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	if err := NewDeleter().Delete(link); err != nil {
		t.Fatalf("delete link: %v", err)
	}
	if exists(link) {
		t.Error("link still exists")
	}
	if !exists(filepath.Join(target, "sub")) {
		t.Error("link target contents were removed")
	}
}

func TestDeleteMissing(t *testing.T) {
	err := NewDeleter().Delete(filepath.Join(t.TempDir(), "gone"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
