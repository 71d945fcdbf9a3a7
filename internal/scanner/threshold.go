package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lumipallolabs/diskprune/internal/logging"
	"github.com/lumipallolabs/diskprune/internal/model"
)

const (
	// DefaultThreshold is the minimum size reported by the large-entry scan
	DefaultThreshold uint64 = 1 << 30 // 1 GiB
	// DefaultLimit caps the number of candidates one scan collects
	DefaultLimit = 1000

	progressInterval = 64 // entries between progress updates
)

// ErrNotDirectory is returned when the scan root is not a directory
var ErrNotDirectory = errors.New("not a directory")

// Config parameterises one threshold scan
type Config struct {
	Root      string
	Threshold uint64
	Limit     int
}

// DefaultConfig returns a config for root with the default threshold and cap
func DefaultConfig(root string) Config {
	return Config{Root: root, Threshold: DefaultThreshold, Limit: DefaultLimit}
}

// RootError reports that the scan root itself could not be read
type RootError struct {
	Root string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("cannot scan %s: %v", e.Root, e.Err)
}

func (e *RootError) Unwrap() error {
	return e.Err
}

// ThresholdScanner finds files and directories meeting a size threshold.
// A directory at or over the threshold is reported as one unit and not
// descended into; smaller directories are descended so that oversized
// descendants are still found.
type ThresholdScanner struct {
	sizer      Sizer
	progressCh chan Progress
	progress   Progress
}

// NewThresholdScanner creates a single-use scanner backed by sizer
func NewThresholdScanner(sizer Sizer) *ThresholdScanner {
	if sizer == nil {
		sizer = StackSizer{}
	}
	return &ThresholdScanner{
		sizer:      sizer,
		progressCh: make(chan Progress, 100),
	}
}

// Progress returns the progress channel. It is closed when Scan returns.
func (s *ThresholdScanner) Progress() <-chan Progress {
	return s.progressCh
}

// Scan walks cfg.Root. It stops as soon as cfg.Limit candidates have been
// collected. Failures below the root are skipped; a failure on the root
// itself returns an empty result and a *RootError.
func (s *ThresholdScanner) Scan(ctx context.Context, cfg Config) (model.ScanResult, error) {
	defer close(s.progressCh)

	limit := cfg.Limit
	if limit < 1 {
		limit = DefaultLimit
	}

	root, err := ExpandHome(cfg.Root)
	if err != nil {
		return model.ScanResult{Root: cfg.Root}, &RootError{Root: cfg.Root, Err: err}
	}
	empty := model.ScanResult{Root: root}

	info, err := os.Stat(root)
	if err != nil {
		return empty, &RootError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return empty, &RootError{Root: root, Err: ErrNotDirectory}
	}

	logging.Scanner.Printf("threshold scan of %s (threshold=%d, limit=%d)", root, cfg.Threshold, limit)

	result := model.ScanResult{Root: root}
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			if dir == root {
				return empty, &RootError{Root: root, Err: err}
			}
			logging.Scanner.Printf("skip %s: %v", dir, err)
			continue
		}

		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				s.finish(&result)
				return result, err
			}

			path := filepath.Join(dir, e.Name())
			s.visit(path)

			m := s.sizer.Measure(path)
			LogSkips(m)
			if m.Err != nil {
				continue
			}

			switch {
			case m.Bytes >= cfg.Threshold:
				s.emit(&result, model.Candidate{Path: path, Size: m.Bytes, IsDir: m.IsDir})
			case m.IsDir:
				stack = append(stack, path)
			}

			if len(result.Candidates) >= limit {
				result.Capped = true
				logging.Scanner.Printf("result cap %d reached", limit)
				s.finish(&result)
				return result, nil
			}
		}
	}

	s.finish(&result)
	return result, nil
}

func (s *ThresholdScanner) visit(path string) {
	s.progress.EntriesVisited++
	s.progress.CurrentPath = path
	if s.progress.EntriesVisited%progressInterval == 0 {
		s.send()
	}
}

func (s *ThresholdScanner) emit(result *model.ScanResult, c model.Candidate) {
	result.Candidates = append(result.Candidates, c)
	s.progress.Found++
	s.progress.BytesFlagged += c.Size
	s.send()
}

func (s *ThresholdScanner) finish(result *model.ScanResult) {
	model.SortBySize(result.Candidates)
	s.send()
}

// send never blocks; a slow reader only misses intermediate updates
func (s *ThresholdScanner) send() {
	select {
	case s.progressCh <- s.progress:
	default:
	}
}

// Ensure ThresholdScanner implements Scanner
var _ Scanner = (*ThresholdScanner)(nil)
