package cleanup

import (
	"context"
	"fmt"

	"github.com/lumipallolabs/diskprune/internal/model"
)

// Outcome is how a workflow run ended
type Outcome int

const (
	OutcomeNothingFound Outcome = iota
	OutcomeNothingSelected
	OutcomeAborted
	OutcomeCompleted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNothingFound:
		return "nothing found"
	case OutcomeNothingSelected:
		return "no files selected"
	case OutcomeAborted:
		return "aborted"
	case OutcomeCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Presenter shows candidates and returns the paths the operator marked
type Presenter interface {
	Select(candidates []model.Candidate) ([]string, error)
}

// Confirmer asks a yes/no question about deleting count items
type Confirmer interface {
	Confirm(count int, prompt string) (bool, error)
}

// Failure is one path that could not be deleted
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

// Report is the final tally of a workflow run
type Report struct {
	Outcome    Outcome
	Selected   int
	Deleted    int
	Failed     int
	FreedBytes uint64
	Failures   []Failure
}

// Summary returns the line shown to the operator
func (r Report) Summary() string {
	if r.Outcome != OutcomeCompleted {
		return r.Outcome.String()
	}
	return fmt.Sprintf("Deleted %d item(s), %d failed, freed %s",
		r.Deleted, r.Failed, model.FormatSize(r.FreedBytes))
}

// Workflow runs present, confirm, delete and report over one result
type Workflow struct {
	presenter Presenter
	confirmer Confirmer
	deleter   *Deleter
}

// NewWorkflow creates a workflow. A nil deleter uses DefaultDeleter.
func NewWorkflow(p Presenter, c Confirmer, d *Deleter) *Workflow {
	if d == nil {
		d = DefaultDeleter()
	}
	return &Workflow{presenter: p, confirmer: c, deleter: d}
}

// Run drives one result through the workflow. ctx is only checked before
// deletion starts; a confirmed plan always runs to completion.
func (w *Workflow) Run(ctx context.Context, result model.ScanResult) (Report, error) {
	sorted := result.Sorted()
	if sorted.Empty() {
		return Report{Outcome: OutcomeNothingFound}, nil
	}

	selected, err := w.presenter.Select(sorted.Candidates)
	if err != nil {
		return Report{}, fmt.Errorf("select candidates: %w", err)
	}

	plan := NewPlan(sorted, selected)
	if plan.Empty() {
		return Report{Outcome: OutcomeNothingSelected}, nil
	}

	ok, err := w.confirmer.Confirm(plan.Len(), plan.Prompt())
	if err != nil {
		return Report{}, fmt.Errorf("confirm deletion: %w", err)
	}
	if !ok {
		return Report{Outcome: OutcomeAborted, Selected: plan.Len()}, nil
	}

	if err := ctx.Err(); err != nil {
		return Report{Outcome: OutcomeAborted, Selected: plan.Len()}, err
	}
	return w.Execute(plan, nil), nil
}

// Execute deletes every item in plan independently. onItem, if set, is
// called after each item.
func (w *Workflow) Execute(plan Plan, onItem func(i int, item model.Candidate, err error)) Report {
	return Execute(w.deleter, plan, onItem)
}

// Execute deletes every item in plan with d
func Execute(d *Deleter, plan Plan, onItem func(i int, item model.Candidate, err error)) Report {
	tally := NewTally(plan)
	for i, item := range plan.Items {
		err := d.Delete(item.Path)
		tally.Add(item, err)
		if onItem != nil {
			onItem(i, item, err)
		}
	}
	return tally.Report()
}
