package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/lumipallolabs/diskprune/internal/cachescan"
	"github.com/lumipallolabs/diskprune/internal/logging"
	"github.com/lumipallolabs/diskprune/internal/model"
	"github.com/lumipallolabs/diskprune/internal/scanner"
	"github.com/lumipallolabs/diskprune/internal/stats"
)

// DefaultLogFile is written in the working directory when --debug is set
const DefaultLogFile = "diskprune-debug.log"

// Config is the resolved command-line configuration
type Config struct {
	Root           string
	Threshold      Size
	CacheThreshold Size
	Limit          int
	CacheRoots     []string // appended to the default cache roots
	Sequential     bool
	Debug          bool
	LogFile        string
	StatsPath      string
	CPUProfile     string
}

// Default returns the configuration used when no flags are given
func Default() Config {
	return Config{
		Root:           "~",
		Threshold:      Size(scanner.DefaultThreshold),
		CacheThreshold: Size(cachescan.DefaultThreshold),
		Limit:          scanner.DefaultLimit,
		LogFile:        DefaultLogFile,
		StatsPath:      stats.DefaultPath(),
	}
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	if c.Limit < 1 {
		return fmt.Errorf("limit must be at least 1, got %d", c.Limit)
	}
	if c.Threshold == 0 {
		return errors.New("threshold must be greater than zero")
	}
	if c.CacheThreshold == 0 {
		return errors.New("cache threshold must be greater than zero")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		logging.Debug.Printf("home directory unknown, \"~\" cache roots resolve against the working directory: %v", err)
	}
	for _, spec := range c.CacheRoots {
		if _, err := cachescan.ParseRootSpec(spec, home); err != nil {
			return err
		}
	}
	return nil
}

// ScanConfig returns the threshold-scan parameters for root
func (c Config) ScanConfig(root string) scanner.Config {
	if root == "" {
		root = c.Root
	}
	return scanner.Config{Root: root, Threshold: uint64(c.Threshold), Limit: c.Limit}
}

// Roots returns the default cache roots plus any configured extras
func (c Config) Roots(home string) (cachescan.Roots, error) {
	extra, err := cachescan.ParseRoots(home, c.CacheRoots...)
	if err != nil {
		return cachescan.Roots{}, err
	}
	defaults, err := cachescan.DefaultRoots(home)
	if err != nil {
		return cachescan.Roots{}, err
	}
	return defaults.With(extra.Specs()...), nil
}

// Sizer returns the size aggregator selected by the config
func (c Config) Sizer() scanner.Sizer {
	if c.Sequential {
		return scanner.StackSizer{}
	}
	return scanner.NewFastSizer(0)
}

// Size is a byte count flag accepting human forms like "1GiB" or "512MB"
type Size uint64

func (s *Size) String() string {
	return model.FormatSize(uint64(*s))
}

func (s *Size) Set(value string) error {
	n, err := model.ParseSize(value)
	if err != nil {
		return err
	}
	*s = Size(n)
	return nil
}

func (s *Size) Type() string {
	return "size"
}
