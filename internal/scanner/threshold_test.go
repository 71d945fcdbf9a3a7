package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/lumipallolabs/diskprune/internal/model"
)

func scan(t *testing.T, s Sizer, cfg Config) model.ScanResult {
	t.Helper()
	sc := NewThresholdScanner(s)
	result, err := sc.Scan(context.Background(), cfg)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	return result
}

func TestScanReportsOnlyOversizedFile(t *testing.T) {
	tmp := t.TempDir()
	writeSized(t, filepath.Join(tmp, "bigfile"), 2*gib)
	writeSized(t, filepath.Join(tmp, "sub", "small1"), 10*mib)
	writeSized(t, filepath.Join(tmp, "sub", "small2"), 20*mib)

	for name, s := range sizers() {
		t.Run(name, func(t *testing.T) {
			result := scan(t, s, Config{Root: tmp, Threshold: gib, Limit: DefaultLimit})

			want := []model.Candidate{{Path: filepath.Join(tmp, "bigfile"), Size: 2147483648, IsDir: false}}
			if len(result.Candidates) != 1 || result.Candidates[0] != want[0] {
				t.Errorf("expected %+v, got %+v", want, result.Candidates)
			}
			if result.Capped {
				t.Error("did not expect the result to be capped")
			}
		})
	}
}

func TestScanReportsDirectoryAsUnit(t *testing.T) {
	tmp := t.TempDir()
	cache := filepath.Join(tmp, "cache")
	// ten files, none over 1 GiB, summing to exactly 1.5 GiB
	for i := 0; i < 9; i++ {
		writeSized(t, filepath.Join(cache, fmt.Sprintf("part%d", i)), 161061273)
	}
	writeSized(t, filepath.Join(cache, "part9"), 161061279)

	for name, s := range sizers() {
		t.Run(name, func(t *testing.T) {
			result := scan(t, s, Config{Root: tmp, Threshold: gib, Limit: DefaultLimit})

			want := model.Candidate{Path: cache, Size: 1610612736, IsDir: true}
			if len(result.Candidates) != 1 || result.Candidates[0] != want {
				t.Errorf("expected only %+v, got %+v", want, result.Candidates)
			}
		})
	}
}

func TestScanEnforcesCap(t *testing.T) {
	tmp := t.TempDir()
	for i := 0; i < 5000; i++ {
		writeSized(t, filepath.Join(tmp, fmt.Sprintf("f%04d", i)), 16)
	}

	result := scan(t, StackSizer{}, Config{Root: tmp, Threshold: 10, Limit: 1000})

	if result.Len() != 1000 {
		t.Errorf("expected exactly 1000 entries, got %d", result.Len())
	}
	if !result.Capped {
		t.Error("expected result to be marked capped")
	}
}

func TestScanInvariants(t *testing.T) {
	tmp := t.TempDir()
	writeSized(t, filepath.Join(tmp, "top.bin"), 5*mib)
	writeSized(t, filepath.Join(tmp, "tiny.txt"), 10)
	writeSized(t, filepath.Join(tmp, "build", "out1.o"), 3*mib)
	writeSized(t, filepath.Join(tmp, "build", "out2.o"), 3*mib)
	writeSized(t, filepath.Join(tmp, "docs", "notes.txt"), 100)
	writeSized(t, filepath.Join(tmp, "docs", "video", "talk.mp4"), 6*mib)
	writeSized(t, filepath.Join(tmp, "docs", "video", "small.srt"), 1*kib)
	writeSized(t, filepath.Join(tmp, "docs", "archive", "a.tar"), 2*mib)
	writeSized(t, filepath.Join(tmp, "docs", "archive", "nested", "b.tar"), 2*mib+1)

	const threshold = 4 * mib

	for name, s := range sizers() {
		t.Run(name, func(t *testing.T) {
			result := scan(t, s, Config{Root: tmp, Threshold: threshold, Limit: 50})

			if result.Len() == 0 {
				t.Fatal("expected candidates")
			}
			for i, c := range result.Candidates {
				if c.Size < threshold {
					t.Errorf("candidate %s below threshold: %d", c.Path, c.Size)
				}
				if i > 0 && result.Candidates[i-1].Size < c.Size {
					t.Errorf("result not sorted at %d", i)
				}
			}
			for _, dir := range result.Candidates {
				if !dir.IsDir {
					continue
				}
				prefix := dir.Path + string(os.PathSeparator)
				for _, c := range result.Candidates {
					if strings.HasPrefix(c.Path, prefix) {
						t.Errorf("%s reported inside reported directory %s", c.Path, dir.Path)
					}
				}
			}

			// docs is over threshold as a whole, so none of its parts appear
			paths := strings.Join(result.Paths(), "\n")
			if !strings.Contains(paths, filepath.Join(tmp, "docs")) {
				t.Errorf("expected docs directory reported, got %v", result.Paths())
			}
			if strings.Contains(paths, "talk.mp4") {
				t.Error("talk.mp4 should be covered by its reported ancestor")
			}
		})
	}
}

func TestScanIsIdempotent(t *testing.T) {
	tmp := t.TempDir()
	for i := 0; i < 20; i++ {
		writeSized(t, filepath.Join(tmp, fmt.Sprintf("d%d", i%4), fmt.Sprintf("f%d", i)), int64(i)*kib)
	}

	first := scan(t, NewFastSizer(4), Config{Root: tmp, Threshold: 8 * kib, Limit: 100})
	second := scan(t, NewFastSizer(4), Config{Root: tmp, Threshold: 8 * kib, Limit: 100})

	set := make(map[model.Candidate]bool)
	for _, c := range first.Candidates {
		set[c] = true
	}
	if len(first.Candidates) != len(second.Candidates) {
		t.Fatalf("result sizes differ: %d vs %d", len(first.Candidates), len(second.Candidates))
	}
	for _, c := range second.Candidates {
		if !set[c] {
			t.Errorf("second scan produced unexpected %+v", c)
		}
	}
}

func TestScanSkipsUnreadableEntries(t *testing.T) {
	canTestPermissions(t)
	tmp := t.TempDir()
	writeSized(t, filepath.Join(tmp, "big.bin"), 2*mib)
	writeSized(t, filepath.Join(tmp, "locked", "hidden.bin"), 4*mib)
	locked := filepath.Join(tmp, "locked")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	result := scan(t, StackSizer{}, Config{Root: tmp, Threshold: mib, Limit: 10})

	if result.Len() != 1 || result.Candidates[0].Path != filepath.Join(tmp, "big.bin") {
		t.Errorf("expected only big.bin, got %+v", result.Candidates)
	}
}

func TestScanRootErrors(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "plain.txt")
	writeSized(t, file, 10)

	tests := []struct {
		name   string
		root   string
		target error
	}{
		{"missing", filepath.Join(tmp, "nope"), os.ErrNotExist},
		{"file", file, ErrNotDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := NewThresholdScanner(StackSizer{})
			result, err := sc.Scan(context.Background(), DefaultConfig(tt.root))
			if err == nil {
				t.Fatal("expected root error")
			}
			var rootErr *RootError
			if !errors.As(err, &rootErr) {
				t.Fatalf("expected *RootError, got %T", err)
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("expected error wrapping %v, got %v", tt.target, err)
			}
			if !result.Empty() {
				t.Errorf("expected empty result, got %+v", result.Candidates)
			}
		})
	}
}

func TestScanExpandsHome(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("home lookup uses USERPROFILE on Windows")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeSized(t, filepath.Join(home, "Downloads", "movie.mkv"), 3*mib)

	result := scan(t, StackSizer{}, Config{Root: "~/Downloads", Threshold: mib, Limit: 10})

	if result.Root != filepath.Join(home, "Downloads") {
		t.Errorf("expected expanded root, got %s", result.Root)
	}
	if result.Len() != 1 || result.Candidates[0].Path != filepath.Join(home, "Downloads", "movie.mkv") {
		t.Errorf("unexpected candidates %+v", result.Candidates)
	}
}

func TestScanClosesProgress(t *testing.T) {
	tmp := t.TempDir()
	writeSized(t, filepath.Join(tmp, "a"), 2*mib)

	sc := NewThresholdScanner(StackSizer{})
	if _, err := sc.Scan(context.Background(), Config{Root: tmp, Threshold: mib, Limit: 10}); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	var last Progress
	for p := range sc.Progress() {
		last = p
	}
	if last.Found != 1 || last.BytesFlagged != 2*mib {
		t.Errorf("unexpected final progress %+v", last)
	}
}

func TestScanCancelled(t *testing.T) {
	tmp := t.TempDir()
	writeSized(t, filepath.Join(tmp, "a"), 2*mib)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc := NewThresholdScanner(StackSizer{})
	_, err := sc.Scan(ctx, Config{Root: tmp, Threshold: mib, Limit: 10})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExpandHomeWith(t *testing.T) {
	home := filepath.FromSlash("/home/op")
	if runtime.GOOS == "windows" {
		t.Skip("absolute unix-style paths")
	}

	tests := map[string]string{
		"~":           "/home/op",
		"~/":          "/home/op",
		"~/Downloads": "/home/op/Downloads",
		"/var/tmp/":   "/var/tmp",
		"~other/x":    "",
	}
	for in, want := range tests {
		got, err := ExpandHomeWith(in, home)
		if err != nil {
			t.Errorf("ExpandHomeWith(%q) failed: %v", in, err)
			continue
		}
		if want == "" {
			if strings.HasPrefix(got, home) {
				t.Errorf("ExpandHomeWith(%q) should not expand, got %s", in, got)
			}
			continue
		}
		if got != want {
			t.Errorf("ExpandHomeWith(%q) = %s, want %s", in, got, want)
		}
	}
}
