package scanner

import (
	"context"

	"github.com/lumipallolabs/diskprune/internal/model"
)

// Progress reports scanning progress
type Progress struct {
	EntriesVisited int64
	Found          int
	BytesFlagged   uint64
	CurrentPath    string
}

// Scanner defines the interface for threshold scanning
type Scanner interface {
	// Scan walks cfg.Root and returns the entries meeting cfg.Threshold
	Scan(ctx context.Context, cfg Config) (model.ScanResult, error)

	// Progress returns a channel that receives progress updates
	Progress() <-chan Progress
}
