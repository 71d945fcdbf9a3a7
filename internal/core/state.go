package core

import (
	"time"

	"github.com/lumipallolabs/diskprune/internal/model"
)

// ScanPhase represents the current phase of scanning
type ScanPhase int

const (
	PhaseIdle ScanPhase = iota
	PhaseScanning
	PhaseComplete
)

// String returns a human-readable phase name
func (p ScanPhase) String() string {
	switch p {
	case PhaseScanning:
		return "Scanning"
	case PhaseComplete:
		return "Complete"
	default:
		return ""
	}
}

// ScanKind tells which scanner produced a result
type ScanKind int

const (
	KindLarge ScanKind = iota
	KindCaches
)

func (k ScanKind) String() string {
	if k == KindCaches {
		return "cache directories"
	}
	return "large files and folders"
}

// ScanState holds the current scan state
type ScanState struct {
	Phase          ScanPhase
	Kind           ScanKind
	Root           string
	StartTime      time.Time
	EntriesVisited int64
	Found          int
	BytesFlagged   uint64
	CurrentPath    string
}

// Elapsed returns time since scan started
func (s ScanState) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return time.Since(s.StartTime).Truncate(time.Second)
}

// FreedState tracks space recovered from deletions
type FreedState struct {
	Session  uint64 // Bytes freed this session
	Lifetime uint64 // Bytes freed all time
}

// AppState holds the complete application state (read-only view)
type AppState struct {
	Scan     ScanState
	Freed    FreedState
	Result   model.ScanResult
	LastRoot string
	Error    error
}
