package cleanup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lumipallolabs/diskprune/internal/model"
)

type stubPresenter struct {
	pick  func([]model.Candidate) []string
	calls int
	seen  []model.Candidate
}

func (p *stubPresenter) Select(candidates []model.Candidate) ([]string, error) {
	p.calls++
	p.seen = candidates
	if p.pick == nil {
		return nil, nil
	}
	return p.pick(candidates), nil
}

type stubConfirmer struct {
	answer bool
	calls  int
	count  int
	prompt string
}

func (c *stubConfirmer) Confirm(count int, prompt string) (bool, error) {
	c.calls++
	c.count = count
	c.prompt = prompt
	return c.answer, nil
}

func pickAll(cs []model.Candidate) []string {
	paths := make([]string, 0, len(cs))
	for _, c := range cs {
		paths = append(paths, c.Path)
	}
	return paths
}

// fixture creates a file, a directory tree and a second file under a temp
// dir and returns a matching scan result
func fixture(t *testing.T) (string, model.ScanResult) {
	t.Helper()
	root := t.TempDir()
	write := func(rel string, size int) string {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	a := write("a.bin", 300)
	write("dir/inner/x", 150)
	write("dir/y", 50)
	b := write("b.bin", 100)

	result := model.ScanResult{
		Root: root,
		Candidates: []model.Candidate{
			{Path: b, Size: 100},
			{Path: a, Size: 300},
			{Path: filepath.Join(root, "dir"), Size: 200, IsDir: true},
		},
	}
	return root, result
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func TestRunNothingFound(t *testing.T) {
	p := &stubPresenter{}
	c := &stubConfirmer{answer: true}

	report, err := NewWorkflow(p, c, NewDeleter()).Run(context.Background(), model.ScanResult{})
	if err != nil {
		t.Fatal(err)
	}
	if report.Outcome != OutcomeNothingFound {
		t.Errorf("expected nothing found, got %v", report.Outcome)
	}
	if p.calls != 0 || c.calls != 0 {
		t.Error("collaborators should not be called for an empty result")
	}
}

func TestRunEmptySelection(t *testing.T) {
	root, result := fixture(t)
	p := &stubPresenter{}
	c := &stubConfirmer{answer: true}

	report, err := NewWorkflow(p, c, NewDeleter()).Run(context.Background(), result)
	if err != nil {
		t.Fatal(err)
	}
	if report.Outcome != OutcomeNothingSelected {
		t.Errorf("expected nothing selected, got %v", report.Outcome)
	}
	if report.Summary() != "no files selected" {
		t.Errorf("unexpected summary %q", report.Summary())
	}
	if c.calls != 0 {
		t.Error("confirmation should not be requested")
	}
	for _, cand := range result.Candidates {
		if !exists(cand.Path) {
			t.Errorf("%s was removed", cand.Path)
		}
	}
	if !exists(filepath.Join(root, "dir", "inner", "x")) {
		t.Error("nested file was removed")
	}
}

func TestRunPresentsSorted(t *testing.T) {
	_, result := fixture(t)
	p := &stubPresenter{}

	if _, err := NewWorkflow(p, &stubConfirmer{}, NewDeleter()).Run(context.Background(), result); err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(p.seen); i++ {
		if p.seen[i-1].Size < p.seen[i].Size {
			t.Errorf("presented candidates not sorted: %+v", p.seen)
		}
	}
	if result.Candidates[0].Size != 100 {
		t.Error("input result was reordered")
	}
}

func TestRunDeclined(t *testing.T) {
	_, result := fixture(t)
	p := &stubPresenter{pick: pickAll}
	c := &stubConfirmer{answer: false}

	report, err := NewWorkflow(p, c, NewDeleter()).Run(context.Background(), result)
	if err != nil {
		t.Fatal(err)
	}
	if report.Outcome != OutcomeAborted {
		t.Errorf("expected aborted, got %v", report.Outcome)
	}
	if c.count != 3 {
		t.Errorf("confirmation should name 3 items, got %d", c.count)
	}
	for _, cand := range result.Candidates {
		if !exists(cand.Path) {
			t.Errorf("%s was removed after declining", cand.Path)
		}
	}
}

func TestRunDeletesSelection(t *testing.T) {
	root, result := fixture(t)
	p := &stubPresenter{pick: func(cs []model.Candidate) []string {
		return []string{cs[0].Path, cs[1].Path}
	}}
	c := &stubConfirmer{answer: true}

	report, err := NewWorkflow(p, c, NewDeleter()).Run(context.Background(), result)
	if err != nil {
		t.Fatal(err)
	}

	if report.Outcome != OutcomeCompleted || report.Deleted != 2 || report.Failed != 0 {
		t.Errorf("unexpected report %+v", report)
	}
	if report.FreedBytes != 500 {
		t.Errorf("expected 500 bytes freed, got %d", report.FreedBytes)
	}
	if exists(filepath.Join(root, "a.bin")) || exists(filepath.Join(root, "dir")) {
		t.Error("selected paths still exist")
	}
	if !exists(filepath.Join(root, "b.bin")) {
		t.Error("unselected file was removed")
	}
}

func TestRunDeletionIsolation(t *testing.T) {
	_, result := fixture(t)
	gone := result.Candidates[1].Path
	p := &stubPresenter{pick: func(cs []model.Candidate) []string {
		// removed concurrently after selection
		if err := os.Remove(gone); err != nil {
			t.Fatal(err)
		}
		return pickAll(cs)
	}}

	report, err := NewWorkflow(p, &stubConfirmer{answer: true}, NewDeleter()).Run(context.Background(), result)
	if err != nil {
		t.Fatal(err)
	}

	if report.Failed != 1 || report.Deleted != 2 {
		t.Fatalf("expected 2 deleted and 1 failed, got %+v", report)
	}
	if report.Failures[0].Path != gone {
		t.Errorf("failure recorded for %s, want %s", report.Failures[0].Path, gone)
	}
	if !errors.Is(report.Failures[0].Err, os.ErrNotExist) {
		t.Errorf("expected not-exist cause, got %v", report.Failures[0].Err)
	}
	for _, cand := range result.Candidates {
		if exists(cand.Path) {
			t.Errorf("%s still exists", cand.Path)
		}
	}
}

func TestExecuteCallsBack(t *testing.T) {
	_, result := fixture(t)
	plan := NewPlan(result, result.Paths())

	var visited []string
	report := Execute(NewDeleter(), plan, func(i int, item model.Candidate, err error) {
		if err != nil {
			t.Errorf("item %d failed: %v", i, err)
		}
		visited = append(visited, item.Path)
	})

	if len(visited) != 3 || report.Deleted != 3 {
		t.Errorf("expected 3 callbacks and deletions, got %d and %+v", len(visited), report)
	}
	if report.Summary() != "Deleted 3 item(s), 0 failed, freed 600 B" {
		t.Errorf("unexpected summary %q", report.Summary())
	}
}

func TestNewPlanFiltersSelection(t *testing.T) {
	_, result := fixture(t)
	plan := NewPlan(result, []string{
		result.Candidates[2].Path,
		"/not/in/result",
		result.Candidates[0].Path,
		result.Candidates[2].Path,
	})

	if plan.Len() != 2 {
		t.Fatalf("expected 2 planned items, got %+v", plan.Items)
	}
	if plan.Items[0].Path != result.Candidates[0].Path {
		t.Error("plan should follow result order")
	}
	if plan.TotalSize() != 300 {
		t.Errorf("expected 300 bytes planned, got %d", plan.TotalSize())
	}
}
