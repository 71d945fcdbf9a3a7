package core

import (
	"github.com/lumipallolabs/diskprune/internal/cleanup"
	"github.com/lumipallolabs/diskprune/internal/model"
	"github.com/lumipallolabs/diskprune/internal/scanner"
)

// Event represents a state change from the controller
type Event interface {
	isEvent()
}

// ScanStartedEvent is emitted when a scan begins
type ScanStartedEvent struct {
	Kind ScanKind
	Path string
}

func (ScanStartedEvent) isEvent() {}

// ScanProgressEvent is emitted during scanning
type ScanProgressEvent struct {
	Progress scanner.Progress
}

func (ScanProgressEvent) isEvent() {}

// ScanCompletedEvent is emitted when scan finishes. Err is set for a root
// failure; Result then holds no candidates.
type ScanCompletedEvent struct {
	Kind   ScanKind
	Result model.ScanResult
	Err    error
}

func (ScanCompletedEvent) isEvent() {}

// DeleteProgressEvent is emitted after each item of a deletion plan
type DeleteProgressEvent struct {
	Index int
	Total int
	Item  model.Candidate
	Err   error
}

func (DeleteProgressEvent) isEvent() {}

// DeleteCompletedEvent is emitted once a plan has been fully processed
type DeleteCompletedEvent struct {
	Report cleanup.Report
	Freed  FreedState
}

func (DeleteCompletedEvent) isEvent() {}
