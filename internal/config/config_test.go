package config

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/lumipallolabs/diskprune/internal/cachescan"
	"github.com/lumipallolabs/diskprune/internal/scanner"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if uint64(cfg.Threshold) != 1<<30 || uint64(cfg.CacheThreshold) != 1<<29 {
		t.Errorf("unexpected default thresholds %d / %d", cfg.Threshold, cfg.CacheThreshold)
	}
	if cfg.Limit != 1000 {
		t.Errorf("unexpected default limit %d", cfg.Limit)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero limit", func(c *Config) { c.Limit = 0 }, "limit"},
		{"zero threshold", func(c *Config) { c.Threshold = 0 }, "threshold"},
		{"zero cache threshold", func(c *Config) { c.CacheThreshold = 0 }, "cache threshold"},
		{"bad cache root", func(c *Config) { c.CacheRoots = []string{"~/a/*/b/*"} }, "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateWithoutHome(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "plan9" {
		t.Skip("home directory is not read from $HOME on this platform")
	}
	t.Setenv("HOME", "")

	cfg := Default()
	cfg.CacheRoots = []string{filepath.Join(t.TempDir(), "*", "cache")}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("absolute cache root rejected without a home: %v", err)
	}

	cfg.CacheRoots = []string{"~/x*"}
	if err := cfg.Validate(); !errors.Is(err, cachescan.ErrUnsupportedPattern) {
		t.Errorf("expected ErrUnsupportedPattern, got %v", err)
	}
}

func TestRootsBracketedHome(t *testing.T) {
	home := filepath.Join(t.TempDir(), "op[1]")
	cfg := Default()
	cfg.CacheRoots = []string{"~/builds/*/target"}

	roots, err := cfg.Roots(home)
	if err != nil {
		t.Fatalf("roots under %s: %v", home, err)
	}
	last := roots.Specs()[roots.Len()-1]
	if last.Base() != filepath.Join(home, "builds") {
		t.Errorf("unexpected extra base %q", last.Base())
	}
}

func TestSizeFlag(t *testing.T) {
	var s Size
	if err := s.Set("512MiB"); err != nil {
		t.Fatal(err)
	}
	if uint64(s) != 512<<20 {
		t.Errorf("expected 512 MiB, got %d", s)
	}
	if s.String() != "512 MiB" {
		t.Errorf("unexpected string %q", s.String())
	}
	if err := s.Set("lots"); err == nil {
		t.Error("expected parse error")
	}
	if s.Type() != "size" {
		t.Errorf("unexpected type %q", s.Type())
	}
}

func TestRootsAppendsExtras(t *testing.T) {
	home := t.TempDir()
	cfg := Default()
	cfg.CacheRoots = []string{"~/builds/*/target"}

	roots, err := cfg.Roots(home)
	if err != nil {
		t.Fatal(err)
	}
	defaults, err := cachescan.DefaultRoots(home)
	if err != nil {
		t.Fatal(err)
	}
	if roots.Len() != defaults.Len()+1 {
		t.Fatalf("expected %d roots, got %d", defaults.Len()+1, roots.Len())
	}
	last := roots.Specs()[roots.Len()-1]
	if !last.IsPattern() || last.Base() != filepath.Join(home, "builds") {
		t.Errorf("unexpected extra spec %+v", last)
	}

	cfg.CacheRoots = []string{"~/x*"}
	if _, err := cfg.Roots(home); !errors.Is(err, cachescan.ErrUnsupportedPattern) {
		t.Errorf("expected ErrUnsupportedPattern, got %v", err)
	}
}

func TestScanConfigAndSizer(t *testing.T) {
	cfg := Default()
	sc := cfg.ScanConfig("")
	if sc.Root != "~" || sc.Limit != 1000 {
		t.Errorf("unexpected scan config %+v", sc)
	}
	if cfg.ScanConfig("/tmp").Root != "/tmp" {
		t.Error("explicit root ignored")
	}

	if _, ok := cfg.Sizer().(scanner.FastSizer); !ok {
		t.Error("expected parallel sizer by default")
	}
	cfg.Sequential = true
	if _, ok := cfg.Sizer().(scanner.StackSizer); !ok {
		t.Error("expected sequential sizer")
	}
}
