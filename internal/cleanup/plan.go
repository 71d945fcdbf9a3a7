package cleanup

import (
	"fmt"

	"github.com/lumipallolabs/diskprune/internal/logging"
	"github.com/lumipallolabs/diskprune/internal/model"
)

// Plan is the confirmed-pending set of candidates to delete
type Plan struct {
	Items []model.Candidate
}

// NewPlan resolves selected paths against result, keeping result order.
// Unknown and repeated paths are dropped.
func NewPlan(result model.ScanResult, selected []string) Plan {
	want := make(map[string]bool, len(selected))
	for _, p := range selected {
		want[p] = true
	}

	var plan Plan
	for _, c := range result.Candidates {
		if want[c.Path] {
			plan.Items = append(plan.Items, c)
			delete(want, c.Path)
		}
	}
	for p := range want {
		logging.Delete.Printf("ignoring selection outside result: %s", p)
	}
	return plan
}

// Len returns the number of items
func (p Plan) Len() int {
	return len(p.Items)
}

// Empty reports whether nothing was selected
func (p Plan) Empty() bool {
	return len(p.Items) == 0
}

// TotalSize returns the bytes the plan would free
func (p Plan) TotalSize() uint64 {
	var total uint64
	for _, c := range p.Items {
		total += c.Size
	}
	return total
}

// Prompt returns the confirmation question for the plan
func (p Plan) Prompt() string {
	return fmt.Sprintf("Delete %d item(s), %s total?", p.Len(), model.FormatSize(p.TotalSize()))
}

// Tally accumulates per-item results into a Report
type Tally struct {
	report Report
}

// NewTally starts a tally for plan
func NewTally(plan Plan) *Tally {
	return &Tally{report: Report{Outcome: OutcomeCompleted, Selected: plan.Len()}}
}

// Add records the result of deleting item
func (t *Tally) Add(item model.Candidate, err error) {
	if err != nil {
		logging.Delete.Printf("failed %s: %v", item.Path, err)
		t.report.Failed++
		t.report.Failures = append(t.report.Failures, Failure{Path: item.Path, Err: err})
		return
	}
	logging.Delete.Printf("removed %s (%d bytes)", item.Path, item.Size)
	t.report.Deleted++
	t.report.FreedBytes += item.Size
}

// Report returns a snapshot of the tally
func (t *Tally) Report() Report {
	r := t.report
	r.Failures = append([]Failure(nil), t.report.Failures...)
	return r
}
