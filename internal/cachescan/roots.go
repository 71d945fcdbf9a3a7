package cachescan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lumipallolabs/diskprune/internal/logging"
	"github.com/lumipallolabs/diskprune/internal/scanner"
)

// ErrUnsupportedPattern is returned for cache-root specs that use anything
// other than a single whole-segment "*"
var ErrUnsupportedPattern = errors.New("unsupported cache root pattern")

const wildcard = "*"

// defaultSpecs are the well-known locations of regenerable application data
var defaultSpecs = []string{
	"~/.cache",
	"~/Library/Caches",
	"~/Library/Application Support/*/Cache",
	"~/Library/Application Support/*/Code Cache",
	"~/Library/Application Support/*/GPUCache",
	"~/Library/Developer/Xcode/DerivedData",
	"~/.config/*/Cache",
	"~/.config/*/Code Cache",
	"~/.var/app/*/cache",
	"~/.npm/_cacache",
	"~/.gradle/caches",
	"~/.m2/repository",
	"~/.cargo/registry",
	"~/go/pkg/mod",
	"~/.local/share/Trash",
}

// RootSpec is one cache-root specification: a literal directory, or a
// pattern where exactly one path segment is "*"
type RootSpec struct {
	raw  string
	base string // literal path, or the part before "*"
	rest string // part after "*", may be empty
	glob bool
}

// ParseRootSpec parses spec, expanding a leading "~" against home. Only
// the segments written in spec are checked for wildcards; home is always
// literal.
func ParseRootSpec(spec, home string) (RootSpec, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return RootSpec{}, fmt.Errorf("%w: empty spec", ErrUnsupportedPattern)
	}

	prefix, written := "", filepath.FromSlash(spec)
	if scanner.IsHomeRelative(spec) {
		prefix = "~" + string(filepath.Separator)
		written = strings.TrimLeft(written[1:], `/\`)
	}

	sep := string(filepath.Separator)
	parts := strings.Split(written, sep)
	star := -1
	for i, part := range parts {
		if part == wildcard {
			if star >= 0 {
				return RootSpec{}, fmt.Errorf("%w: %q has more than one wildcard", ErrUnsupportedPattern, spec)
			}
			star = i
			continue
		}
		if strings.ContainsAny(part, "*?[") {
			return RootSpec{}, fmt.Errorf("%w: %q has a partial wildcard segment", ErrUnsupportedPattern, spec)
		}
	}

	if star < 0 {
		path, err := scanner.ExpandHomeWith(spec, home)
		if err != nil {
			return RootSpec{}, err
		}
		return RootSpec{raw: spec, base: path}, nil
	}

	before := strings.Join(parts[:star], sep)
	if before == "" && prefix == "" && strings.HasPrefix(written, sep) {
		before = sep
	}
	base, err := scanner.ExpandHomeWith(prefix+before, home)
	if err != nil {
		return RootSpec{}, err
	}
	return RootSpec{
		raw:  spec,
		base: base,
		rest: filepath.Join(parts[star+1:]...),
		glob: true,
	}, nil
}

// String returns the spec as written
func (s RootSpec) String() string {
	return s.raw
}

// IsPattern reports whether the spec contains a wildcard segment
func (s RootSpec) IsPattern() bool {
	return s.glob
}

// Base returns the literal path, or the directory enumerated for a pattern
func (s RootSpec) Base() string {
	return s.base
}

// Resolve returns the concrete directories the spec currently names.
// A missing literal root or pattern base yields nothing.
func (s RootSpec) Resolve() []string {
	if !s.glob {
		return []string{s.base}
	}

	entries, err := os.ReadDir(s.base)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Scanner.Printf("skip pattern %s: %v", s.raw, err)
		}
		return nil
	}

	var paths []string
	for _, e := range entries {
		path := filepath.Join(s.base, e.Name(), s.rest)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

// Roots is an immutable set of cache-root specs
type Roots struct {
	specs []RootSpec
}

// NewRoots creates a root set from parsed specs
func NewRoots(specs ...RootSpec) Roots {
	return Roots{specs: append([]RootSpec(nil), specs...)}
}

// DefaultRoots returns the well-known cache locations under home
func DefaultRoots(home string) (Roots, error) {
	return ParseRoots(home, defaultSpecs...)
}

// ParseRoots parses each spec against home
func ParseRoots(home string, specs ...string) (Roots, error) {
	parsed := make([]RootSpec, 0, len(specs))
	for _, s := range specs {
		rs, err := ParseRootSpec(s, home)
		if err != nil {
			return Roots{}, err
		}
		parsed = append(parsed, rs)
	}
	return Roots{specs: parsed}, nil
}

// With returns a new set with extra appended; r is not modified
func (r Roots) With(extra ...RootSpec) Roots {
	specs := make([]RootSpec, 0, len(r.specs)+len(extra))
	specs = append(specs, r.specs...)
	specs = append(specs, extra...)
	return Roots{specs: specs}
}

// Specs returns a copy of the specs in order
func (r Roots) Specs() []RootSpec {
	return append([]RootSpec(nil), r.specs...)
}

// Len returns the number of specs
func (r Roots) Len() int {
	return len(r.specs)
}

// Resolve returns every concrete root directory, each at most once
func (r Roots) Resolve() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, spec := range r.specs {
		for _, dir := range spec.Resolve() {
			key := canonical(dir)
			if seen[key] {
				continue
			}
			seen[key] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// canonical resolves symlinks so aliases of one directory compare equal
func canonical(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}
