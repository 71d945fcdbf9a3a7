package core

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lumipallolabs/diskprune/internal/cachescan"
	"github.com/lumipallolabs/diskprune/internal/cleanup"
	"github.com/lumipallolabs/diskprune/internal/config"
	"github.com/lumipallolabs/diskprune/internal/logging"
	"github.com/lumipallolabs/diskprune/internal/model"
	"github.com/lumipallolabs/diskprune/internal/scanner"
	"github.com/lumipallolabs/diskprune/internal/stats"
)

// Controller manages the core application logic without UI dependencies
type Controller struct {
	mu sync.RWMutex

	// State
	scan   ScanState
	freed  FreedState
	result model.ScanResult
	err    error

	// Internal services
	cfg          config.Config
	roots        cachescan.Roots
	sizer        scanner.Sizer
	deleter      *cleanup.Deleter
	statsManager *stats.Manager
}

// NewController creates a new application controller
func NewController(cfg config.Config) (*Controller, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		logging.Debug.Printf("home directory unknown: %v", err)
	}
	roots, err := cfg.Roots(home)
	if err != nil {
		return nil, fmt.Errorf("cache roots: %w", err)
	}

	statsMgr := stats.NewManager(cfg.StatsPath)
	if err := statsMgr.Load(); err != nil {
		logging.Debug.Printf("Failed to load stats: %v", err)
	}

	return &Controller{
		cfg:          cfg,
		roots:        roots,
		sizer:        cfg.Sizer(),
		deleter:      cleanup.NewDeleter(home),
		statsManager: statsMgr,
		freed: FreedState{
			Lifetime: statsMgr.FreedLifetime(),
		},
	}, nil
}

// Config returns the configuration the controller was built with
func (c *Controller) Config() config.Config {
	return c.cfg
}

// Roots returns the cache roots used by cache scans
func (c *Controller) Roots() cachescan.Roots {
	return c.roots
}

// State returns a read-only snapshot of the current state
func (c *Controller) State() AppState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return AppState{
		Scan:     c.scan,
		Freed:    c.freed,
		Result:   c.result,
		LastRoot: c.lastRootLocked(),
		Error:    c.err,
	}
}

// ScanState returns the current scan state
func (c *Controller) ScanState() ScanState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scan
}

// FreedState returns the current freed space state
func (c *Controller) FreedState() FreedState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.freed
}

// Result returns the most recent scan result
func (c *Controller) Result() model.ScanResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// LastRoot returns the directory to offer as the default scan root
func (c *Controller) LastRoot() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRootLocked()
}

func (c *Controller) lastRootLocked() string {
	if root := c.statsManager.LastRoot(); root != "" {
		return root
	}
	return c.cfg.Root
}

// StartScan begins a threshold scan of root. An empty root uses the
// configured one.
func (c *Controller) StartScan(ctx context.Context, root string) <-chan Event {
	cfg := c.cfg.ScanConfig(root)
	s := scanner.NewThresholdScanner(c.sizer)

	return c.start(ctx, KindLarge, cfg.Root, s.Progress(), func(ctx context.Context) (model.ScanResult, error) {
		return s.Scan(ctx, cfg)
	})
}

// StartCacheScan begins a scan of the cache roots
func (c *Controller) StartCacheScan(ctx context.Context) <-chan Event {
	loc := cachescan.NewLocator(c.roots, c.sizer)
	threshold := uint64(c.cfg.CacheThreshold)

	return c.start(ctx, KindCaches, "", loc.Progress(), func(ctx context.Context) (model.ScanResult, error) {
		return loc.Scan(ctx, threshold)
	})
}

type scanFunc func(ctx context.Context) (model.ScanResult, error)

func (c *Controller) start(ctx context.Context, kind ScanKind, root string, progress <-chan scanner.Progress, scan scanFunc) <-chan Event {
	c.mu.Lock()
	c.scan = ScanState{
		Phase:     PhaseScanning,
		Kind:      kind,
		Root:      root,
		StartTime: time.Now(),
	}
	c.result = model.ScanResult{}
	c.err = nil
	c.mu.Unlock()

	eventCh := make(chan Event, 100)
	go c.runScan(ctx, kind, root, progress, scan, eventCh)
	return eventCh
}

// runScan executes the scan in a goroutine
func (c *Controller) runScan(ctx context.Context, kind ScanKind, root string, progress <-chan scanner.Progress, scan scanFunc, eventCh chan Event) {
	defer close(eventCh)

	logging.Debug.Printf("[Controller] Starting %s scan of %q", kind, root)
	eventCh <- ScanStartedEvent{Kind: kind, Path: root}

	// Listen for progress in separate goroutine
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progress {
			c.mu.Lock()
			c.scan.EntriesVisited = p.EntriesVisited
			c.scan.Found = p.Found
			c.scan.BytesFlagged = p.BytesFlagged
			c.scan.CurrentPath = p.CurrentPath
			c.mu.Unlock()

			eventCh <- ScanProgressEvent{Progress: p}
		}
	}()

	result, err := scan(ctx)
	<-done

	c.mu.Lock()
	c.result = result
	c.err = err
	if err != nil {
		c.scan.Phase = PhaseIdle
	} else {
		c.scan.Phase = PhaseComplete
	}
	c.mu.Unlock()

	if err != nil {
		logging.Debug.Printf("[Controller] Scan failed: %v", err)
	} else {
		logging.Debug.Printf("[Controller] Scan complete: %d candidates", result.Len())
		if kind == KindLarge {
			c.statsManager.SetLastRoot(result.Root)
		}
	}

	eventCh <- ScanCompletedEvent{Kind: kind, Result: result, Err: err}
}

// Delete removes every item in plan, one at a time. The plan always runs
// to completion.
func (c *Controller) Delete(plan cleanup.Plan) <-chan Event {
	eventCh := make(chan Event, plan.Len()+1)
	go c.runDelete(plan, eventCh)
	return eventCh
}

func (c *Controller) runDelete(plan cleanup.Plan, eventCh chan Event) {
	defer close(eventCh)

	logging.Delete.Printf("deleting %d item(s)", plan.Len())
	report := cleanup.Execute(c.deleter, plan, func(i int, item model.Candidate, err error) {
		eventCh <- DeleteProgressEvent{Index: i, Total: plan.Len(), Item: item, Err: err}
	})

	freed := c.record(plan, report)
	eventCh <- DeleteCompletedEvent{Report: report, Freed: freed}
}

// RunWorkflow drives the last scan result through a prompt-based
// select, confirm and delete cycle
func (c *Controller) RunWorkflow(ctx context.Context, p cleanup.Presenter, conf cleanup.Confirmer) (cleanup.Report, error) {
	result := c.Result()
	sel := &recordingPresenter{Presenter: p}

	report, err := cleanup.NewWorkflow(sel, conf, c.deleter).Run(ctx, result)
	if err != nil {
		return report, err
	}
	if report.Outcome == cleanup.OutcomeCompleted {
		c.record(cleanup.NewPlan(result, sel.selected), report)
	}
	return report, nil
}

// recordingPresenter remembers what the wrapped presenter returned
type recordingPresenter struct {
	cleanup.Presenter
	selected []string
}

func (r *recordingPresenter) Select(candidates []model.Candidate) ([]string, error) {
	paths, err := r.Presenter.Select(candidates)
	r.selected = paths
	return paths, err
}

// record applies a finished deletion to the result and the freed totals
func (c *Controller) record(plan cleanup.Plan, report cleanup.Report) FreedState {
	c.mu.Lock()
	c.freed.Session += report.FreedBytes
	c.freed.Lifetime += report.FreedBytes
	c.result = withoutDeleted(c.result, plan, report)
	freed := c.freed
	c.mu.Unlock()

	c.statsManager.AddFreed(report.FreedBytes)
	logging.Delete.Printf("done: %s", report.Summary())
	return freed
}

// withoutDeleted drops the successfully deleted items from result
func withoutDeleted(result model.ScanResult, plan cleanup.Plan, report cleanup.Report) model.ScanResult {
	failed := make(map[string]bool, len(report.Failures))
	for _, f := range report.Failures {
		failed[f.Path] = true
	}
	gone := make(map[string]bool, plan.Len())
	for _, item := range plan.Items {
		if !failed[item.Path] {
			gone[item.Path] = true
		}
	}

	out := result
	out.Candidates = nil
	for _, cand := range result.Candidates {
		if !gone[cand.Path] {
			out.Candidates = append(out.Candidates, cand)
		}
	}
	return out
}

// Stop cleans up resources
func (c *Controller) Stop() {
	if c.statsManager != nil {
		_ = c.statsManager.Close()
	}
}
