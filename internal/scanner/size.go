package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/lumipallolabs/diskprune/internal/logging"
)

// SkipReason classifies why a node contributed nothing to an aggregate
type SkipReason int

const (
	SkipStat SkipReason = iota + 1
	SkipReadDir
	SkipNotExist
	SkipPermission
)

func (r SkipReason) String() string {
	switch r {
	case SkipStat:
		return "stat failed"
	case SkipReadDir:
		return "read dir failed"
	case SkipNotExist:
		return "not found"
	case SkipPermission:
		return "permission denied"
	default:
		return "unknown"
	}
}

// Skip records one node whose failure was absorbed
type Skip struct {
	Path   string
	Reason SkipReason
	Err    error
}

// Measurement is the outcome of sizing one path. Bytes is the partial sum
// over everything readable; Skips lists what was not.
type Measurement struct {
	Bytes uint64
	IsDir bool
	Err   error // set when path itself could not be statted
	Skips []Skip
}

func (m *Measurement) skip(path string, err error, enumerating bool) {
	m.Skips = append(m.Skips, Skip{Path: path, Reason: classify(err, enumerating), Err: err})
}

func classify(err error, enumerating bool) SkipReason {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return SkipNotExist
	case errors.Is(err, fs.ErrPermission):
		return SkipPermission
	case enumerating:
		return SkipReadDir
	default:
		return SkipStat
	}
}

// Sizer computes the aggregate size of a subtree. Implementations never
// fail; unreadable nodes contribute zero.
type Sizer interface {
	Measure(path string) Measurement
}

// Size returns the aggregate size of path using s
func Size(s Sizer, path string) uint64 {
	return s.Measure(path).Bytes
}

// stat follows symlinks and records a failure on m
func stat(m *Measurement, path string) (fs.FileInfo, bool) {
	info, err := os.Stat(path)
	if err != nil {
		m.Err = err
		m.skip(path, err, false)
		return nil, false
	}
	m.IsDir = info.IsDir()
	return info, true
}

// StackSizer walks sequentially with an explicit stack. It follows
// symlinks and does no cycle detection; a symlink loop never terminates.
type StackSizer struct{}

// Measure implements Sizer
func (StackSizer) Measure(path string) Measurement {
	var m Measurement
	info, ok := stat(&m, path)
	if !ok {
		return m
	}
	if !info.IsDir() {
		m.Bytes = uint64(info.Size())
		return m
	}

	stack := []string{path}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			m.skip(dir, err, true)
			continue
		}
		for _, e := range entries {
			child := filepath.Join(dir, e.Name())
			ci, err := os.Stat(child)
			if err != nil {
				m.skip(child, err, false)
				continue
			}
			if ci.IsDir() {
				stack = append(stack, child)
				continue
			}
			m.Bytes += uint64(ci.Size())
		}
	}
	return m
}

// FastSizer sizes subtrees in parallel with fastwalk. Symlinks are
// followed; fastwalk skips links that would loop.
type FastSizer struct {
	Workers int
}

// NewFastSizer creates a parallel sizer
func NewFastSizer(workers int) FastSizer {
	if workers < 1 {
		workers = max(4, runtime.NumCPU())
	}
	return FastSizer{Workers: workers}
}

// Measure implements Sizer
func (s FastSizer) Measure(path string) Measurement {
	var m Measurement
	info, ok := stat(&m, path)
	if !ok {
		return m
	}
	if !info.IsDir() {
		m.Bytes = uint64(info.Size())
		return m
	}

	var total atomic.Uint64
	var mu sync.Mutex
	record := func(p string, err error, enumerating bool) {
		mu.Lock()
		m.skip(p, err, enumerating)
		mu.Unlock()
	}

	conf := &fastwalk.Config{
		Follow:     true,
		NumWorkers: s.Workers,
	}
	walkErr := fastwalk.Walk(conf, path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			record(p, err, true)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		fi, err := fastwalk.StatDirEntry(p, d)
		if err != nil {
			record(p, err, false)
			return nil
		}
		if fi.IsDir() {
			// symlinked directory, fastwalk descends into it
			return nil
		}
		total.Add(uint64(fi.Size()))
		return nil
	})
	if walkErr != nil {
		record(path, walkErr, true)
	}

	m.Bytes = total.Load()
	return m
}

// LogSkips writes the absorbed failures of m to the scanner log
func LogSkips(m Measurement) {
	if !logging.Enabled {
		return
	}
	for _, s := range m.Skips {
		logging.Scanner.Printf("skip %s: %s (%v)", s.Path, s.Reason, s.Err)
	}
}

// Ensure both sizers implement Sizer
var (
	_ Sizer = StackSizer{}
	_ Sizer = FastSizer{}
)
