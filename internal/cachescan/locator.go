package cachescan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lumipallolabs/diskprune/internal/logging"
	"github.com/lumipallolabs/diskprune/internal/model"
	"github.com/lumipallolabs/diskprune/internal/scanner"
)

// DefaultThreshold is lower than the large-entry default; cache debris
// accumulates in smaller pieces
const DefaultThreshold uint64 = 1 << 29 // 512 MiB

// Locator runs a shallow size check over the direct children of each
// cache root. It is single-use.
type Locator struct {
	roots   Roots
	sizer   scanner.Sizer
	workers int

	mu         sync.Mutex
	progress   scanner.Progress
	progressCh chan scanner.Progress
}

// NewLocator creates a locator over roots, sizing with sizer
func NewLocator(roots Roots, sizer scanner.Sizer) *Locator {
	if sizer == nil {
		sizer = scanner.StackSizer{}
	}
	return &Locator{
		roots:      roots,
		sizer:      sizer,
		workers:    runtime.NumCPU(),
		progressCh: make(chan scanner.Progress, 100),
	}
}

// Progress returns the progress channel. It is closed when Scan returns.
func (l *Locator) Progress() <-chan scanner.Progress {
	return l.progressCh
}

// Scan sizes every direct child of every resolved cache root and returns
// those at or over threshold. Unreadable roots and children are skipped.
func (l *Locator) Scan(ctx context.Context, threshold uint64) (model.ScanResult, error) {
	defer close(l.progressCh)

	dirs := l.roots.Resolve()
	logging.Scanner.Printf("cache scan over %d roots (threshold=%d)", len(dirs), threshold)

	var (
		result model.ScanResult
		seen   = make(map[string]bool)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, l.workers))

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				logging.Scanner.Printf("skip cache root %s: %v", dir, err)
			}
			continue
		}

		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			if seen[path] {
				continue
			}
			seen[path] = true

			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				m := l.sizer.Measure(path)
				scanner.LogSkips(m)
				l.visit(path)
				if m.Err != nil || m.Bytes < threshold {
					return nil
				}
				l.emit(&result, model.Candidate{Path: path, Size: m.Bytes, IsDir: m.IsDir})
				return nil
			})
		}
	}

	err := g.Wait()
	model.SortBySize(result.Candidates)
	l.send()
	return result, err
}

func (l *Locator) visit(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.progress.EntriesVisited++
	l.progress.CurrentPath = path
	l.sendLocked()
}

func (l *Locator) emit(result *model.ScanResult, c model.Candidate) {
	l.mu.Lock()
	defer l.mu.Unlock()
	result.Candidates = append(result.Candidates, c)
	l.progress.Found++
	l.progress.BytesFlagged += c.Size
	l.sendLocked()
}

func (l *Locator) send() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sendLocked()
}

func (l *Locator) sendLocked() {
	select {
	case l.progressCh <- l.progress:
	default:
	}
}
