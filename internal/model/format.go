package model

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatSize formats bytes to a human readable IEC string (e.g. "1.5 GiB")
func FormatSize(bytes uint64) string {
	return humanize.IBytes(bytes)
}

// ParseSize parses sizes like "1GiB", "512 MB" or "1048576"
func ParseSize(s string) (uint64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("parse size: empty value")
	}
	n, err := humanize.ParseBytes(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse size %q: %w", s, err)
	}
	return n, nil
}
