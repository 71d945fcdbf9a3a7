package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lumipallolabs/diskprune/internal/cleanup"
	"github.com/lumipallolabs/diskprune/internal/core"
	"github.com/lumipallolabs/diskprune/internal/logging"
	"github.com/lumipallolabs/diskprune/internal/model"
)

// screen is the step of the menu loop currently shown
type screen int

const (
	screenMenu screen = iota
	screenDirInput
	screenScanning
	screenResults
	screenConfirm
	screenDeleting
	screenReport
)

// Message types for Bubble Tea
type (
	scanEventMsg   struct{ event core.Event }
	deleteEventMsg struct{ event core.Event }
)

const maxReportedFailures = 8

// App is the main TUI application model
type App struct {
	// Core controller (business logic)
	ctrl *core.Controller
	ctx  context.Context

	// UI Components
	header  Header
	menu    Menu
	input   DirInput
	list    CandidateList
	summary SummaryPanel
	confirm ConfirmDialog
	overlay HelpOverlay
	help    help.Model
	spinner spinner.Model
	bar     progress.Model

	keys   KeyMap
	screen screen

	// Event channels from the controller
	scanEventCh   <-chan core.Event
	deleteEventCh <-chan core.Event

	// Data
	kind     core.ScanKind
	result   model.ScanResult
	deleted  int
	lastItem string
	report   cleanup.Report

	// Dimensions
	width  int
	height int
}

// NewApp creates a new application instance. ctx bounds every scan the
// app starts.
func NewApp(ctx context.Context, ctrl *core.Controller) App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(ColorDir)

	header := NewHeader()
	header.SetFreed(ctrl.FreedState())
	keys := DefaultKeyMap()

	return App{
		ctrl:    ctrl,
		ctx:     ctx,
		header:  header,
		menu:    NewMenu(),
		input:   NewDirInput(),
		list:    NewCandidateList(),
		summary: NewSummaryPanel(),
		confirm: NewConfirmDialog(),
		overlay: NewHelpOverlay(keys),
		help:    help.New(),
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient()),
		keys:    keys,
		screen:  screenMenu,
	}
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	return tea.SetWindowTitle("DISKPRUNE")
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if a.screen != screenScanning {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case scanEventMsg:
		return a.handleScanEvent(msg.event)

	case deleteEventMsg:
		return a.handleDeleteEvent(msg.event)
	}

	return a, nil
}

// handleKey handles keyboard input
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A confirmed plan always runs to completion
	if a.screen == screenDeleting {
		return a, nil
	}
	if key.Matches(msg, a.keys.ForceQuit) {
		return a, tea.Quit
	}

	// Help overlay takes precedence
	if a.overlay.IsVisible() {
		if key.Matches(msg, a.keys.Help) || key.Matches(msg, a.keys.Back) {
			a.overlay.SetVisible(false)
		}
		return a, nil
	}

	// The directory prompt owns every printable key
	if a.screen == screenDirInput {
		return a.handleDirInputKey(msg)
	}

	if key.Matches(msg, a.keys.Help) {
		a.overlay.Toggle()
		return a, nil
	}

	switch a.screen {
	case screenMenu:
		return a.handleMenuKey(msg)
	case screenScanning:
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
	case screenResults:
		return a.handleResultsKey(msg)
	case screenConfirm:
		return a.handleConfirmKey(msg)
	case screenReport:
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		if key.Matches(msg, a.keys.Select) || key.Matches(msg, a.keys.Back) {
			a.toMenu(a.report.Summary())
		}
	}
	return a, nil
}

func (a App) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Up):
		a.menu.MoveUp()
	case key.Matches(msg, a.keys.Down):
		a.menu.MoveDown()
	case key.Matches(msg, a.keys.Select):
		switch a.menu.Selected() {
		case ActionLargeScan:
			a.screen = screenDirInput
			return a, a.input.Reset(a.ctrl.LastRoot())
		case ActionCacheScan:
			return a.startCacheScan()
		case ActionQuit:
			return a, tea.Quit
		}
	}
	return a, nil
}

func (a App) handleDirInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.toMenu("")
		return a, nil
	case key.Matches(msg, a.keys.Select):
		return a.startScan(a.input.Value())
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Back):
		a.toMenu("")
		return a, nil
	case key.Matches(msg, a.keys.Toggle):
		a.list.Toggle()
		return a, nil
	case key.Matches(msg, a.keys.MarkAll):
		a.list.MarkAll()
		return a, nil
	case key.Matches(msg, a.keys.ClearAll):
		a.list.ClearMarks()
		return a, nil
	case key.Matches(msg, a.keys.Open):
		return a, a.openInExplorer()
	case key.Matches(msg, a.keys.Delete):
		plan := cleanup.NewPlan(a.result, a.list.Marked())
		if plan.Empty() {
			a.toMenu(cleanup.OutcomeNothingSelected.String())
			return a, nil
		}
		a.confirm.SetPlan(plan)
		a.screen = screenConfirm
		return a, nil
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return a, cmd
}

func (a App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Yes):
		return a.startDelete(a.confirm.Plan())
	case key.Matches(msg, a.keys.No):
		a.toMenu("deletion " + cleanup.OutcomeAborted.String())
	}
	return a, nil
}

// toMenu returns to the menu showing notice
func (a *App) toMenu(notice string) {
	a.screen = screenMenu
	a.menu.SetNotice(notice)
	a.header.SetTarget("")
	a.header.SetVolume(nil)
}

// startScan begins a threshold scan of root
func (a App) startScan(root string) (tea.Model, tea.Cmd) {
	a.kind = core.KindLarge
	a.screen = screenScanning
	a.header.SetTarget(root)
	a.scanEventCh = a.ctrl.StartScan(a.ctx, root)
	return a, tea.Batch(a.listenForScanEvents(), a.spinner.Tick)
}

// startCacheScan begins a scan of the cache roots
func (a App) startCacheScan() (tea.Model, tea.Cmd) {
	a.kind = core.KindCaches
	a.screen = screenScanning
	a.header.SetTarget("cache directories")
	a.scanEventCh = a.ctrl.StartCacheScan(a.ctx)
	return a, tea.Batch(a.listenForScanEvents(), a.spinner.Tick)
}

// handleScanEvent processes scan events and continues listening
func (a App) handleScanEvent(event core.Event) (tea.Model, tea.Cmd) {
	e, ok := event.(core.ScanCompletedEvent)
	if !ok {
		return a, a.listenForScanEvents()
	}
	a.scanEventCh = nil

	if e.Err != nil {
		logging.Debug.Printf("[TUI] scan failed: %v", e.Err)
		a.toMenu(fmt.Sprintf("Error: %v", e.Err))
		return a, nil
	}
	if e.Result.Empty() {
		a.toMenu(fmt.Sprintf("%s: %s", cleanup.OutcomeNothingFound, e.Kind))
		return a, nil
	}

	a.result = e.Result
	a.list.SetCandidates(e.Result.Candidates)
	a.summary.SetResult(e.Result)
	a.header.SetVolume(volumeFor(e.Result.Root))
	a.screen = screenResults
	a.updateLayout()
	return a, nil
}

// volumeFor returns the volume holding root, or the home volume for
// results without a single root
func volumeFor(root string) *model.Volume {
	if root == "" {
		root, _ = os.UserHomeDir()
	}
	v, err := model.VolumeFor(root)
	if err != nil {
		logging.Debug.Printf("[TUI] volume info for %q: %v", root, err)
		return nil
	}
	return &v
}

// startDelete runs plan through the controller
func (a App) startDelete(plan cleanup.Plan) (tea.Model, tea.Cmd) {
	a.screen = screenDeleting
	a.deleted = 0
	a.lastItem = ""
	a.deleteEventCh = a.ctrl.Delete(plan)
	return a, a.listenForDeleteEvents()
}

// handleDeleteEvent processes delete events and continues listening
func (a App) handleDeleteEvent(event core.Event) (tea.Model, tea.Cmd) {
	switch e := event.(type) {
	case core.DeleteProgressEvent:
		a.deleted = e.Index + 1
		a.lastItem = e.Item.Path
		return a, a.listenForDeleteEvents()

	case core.DeleteCompletedEvent:
		a.deleteEventCh = nil
		a.report = e.Report
		a.header.SetFreed(e.Freed)
		a.result = a.ctrl.Result()
		a.screen = screenReport
		return a, nil
	}
	return a, a.listenForDeleteEvents()
}

// listenForScanEvents creates a command that listens for scan events
func (a App) listenForScanEvents() tea.Cmd {
	return listen(a.scanEventCh, func(e core.Event) tea.Msg { return scanEventMsg{event: e} })
}

// listenForDeleteEvents creates a command that listens for delete events
func (a App) listenForDeleteEvents() tea.Cmd {
	return listen(a.deleteEventCh, func(e core.Event) tea.Msg { return deleteEventMsg{event: e} })
}

func listen(eventCh <-chan core.Event, wrap func(core.Event) tea.Msg) tea.Cmd {
	if eventCh == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-eventCh
		if !ok {
			return nil // Channel closed
		}
		return wrap(event)
	}
}

// openInExplorer reveals the candidate under the cursor
func (a App) openInExplorer() tea.Cmd {
	c, ok := a.list.Current()
	if !ok {
		return nil
	}
	path := c.Path
	return func() tea.Msg {
		logging.Debug.Printf("openInExplorer: opening %s", path)
		if err := openInFileManager(path); err != nil {
			logging.Debug.Printf("openInExplorer: error: %v", err)
		}
		return nil
	}
}

// updateLayout calculates component sizes based on window dimensions
func (a *App) updateLayout() {
	bodyHeight := max(a.height-2, 1) // header + help bar

	a.header.SetWidth(a.width)
	a.menu.SetSize(a.width, bodyHeight)
	a.input.SetSize(a.width, bodyHeight)
	a.confirm.SetSize(a.width, bodyHeight)
	a.overlay.SetSize(a.width, a.height)
	a.help.Width = a.width
	a.bar.Width = max(min(a.width-20, 60), 10)

	// Table on top, summary below
	listHeight := max(bodyHeight*11/20, 5)
	a.list.SetSize(a.width, listHeight-2)
	a.summary.SetSize(a.width, max(bodyHeight-listHeight-1, 3))
}

// View implements tea.Model
func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	if a.overlay.IsVisible() {
		return a.overlay.View()
	}

	body := a.bodyView()
	bodyHeight := max(a.height-2, 1)

	return lipgloss.JoinVertical(lipgloss.Left,
		a.header.View(),
		lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body),
		a.helpView(),
	)
}

func (a App) bodyView() string {
	bodyHeight := max(a.height-2, 1)

	switch a.screen {
	case screenDirInput:
		return a.input.View()
	case screenScanning:
		return lipgloss.Place(a.width, bodyHeight, lipgloss.Center, lipgloss.Center, a.scanningView())
	case screenResults:
		title := TitleStyle.Render(fmt.Sprintf(" %s", a.kind))
		if a.result.Root != "" {
			title += MutedStyle.Render(" in " + a.result.Root)
		}
		marked := MutedStyle.Render(fmt.Sprintf("  %d marked, %s",
			len(a.list.Marked()), model.FormatSize(a.list.MarkedSize())))
		return lipgloss.JoinVertical(lipgloss.Left,
			title+marked,
			a.list.View(),
			a.summary.View(),
		)
	case screenConfirm:
		return a.confirm.View()
	case screenDeleting:
		return lipgloss.Place(a.width, bodyHeight, lipgloss.Center, lipgloss.Center, a.deletingView())
	case screenReport:
		return lipgloss.Place(a.width, bodyHeight, lipgloss.Center, lipgloss.Center, a.reportView())
	default:
		return a.menu.View()
	}
}

func (a App) scanningView() string {
	state := a.ctrl.ScanState()
	line := fmt.Sprintf("%s Scanning %s...", a.spinner.View(), a.kind)
	stats := fmt.Sprintf("%d entries · %d found · %s flagged · %s",
		state.EntriesVisited, state.Found, model.FormatSize(state.BytesFlagged), state.Elapsed())
	current := truncateLeft(state.CurrentPath, 60)

	return BoxStyle.BorderForeground(ColorDir).Render(lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render(line),
		"",
		StatsStyle.Render(stats),
		MutedStyle.Render(current),
	))
}

func (a App) deletingView() string {
	total := a.confirm.Plan().Len()
	pct := 0.0
	if total > 0 {
		pct = float64(a.deleted) / float64(total)
	}
	return BoxStyle.BorderForeground(ColorDanger).Render(lipgloss.JoinVertical(lipgloss.Left,
		DangerStyle.Render(fmt.Sprintf("Deleting %d/%d", a.deleted, total)),
		"",
		a.bar.ViewAs(pct),
		MutedStyle.Render(truncateLeft(a.lastItem, 60)),
	))
}

func (a App) reportView() string {
	lines := []string{SuccessStyle.Bold(true).Render(a.report.Summary())}
	if len(a.report.Failures) > 0 {
		lines = append(lines, "", DangerStyle.Render("Failed:"))
		for i, f := range a.report.Failures {
			if i == maxReportedFailures {
				lines = append(lines, MutedStyle.Render(fmt.Sprintf("... and %d more", len(a.report.Failures)-i)))
				break
			}
			lines = append(lines, ErrorStyle.Render(truncateLeft(f.Error(), 80)))
		}
	}
	lines = append(lines, "", MutedStyle.Render("enter to return to the menu"))
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (a App) helpView() string {
	var keys help.KeyMap
	switch a.screen {
	case screenResults:
		keys = a.keys
	case screenConfirm:
		keys = confirmKeys{a.keys}
	default:
		keys = menuKeys{a.keys}
	}
	return HelpStyle.Render(a.help.View(keys))
}

// truncateLeft keeps the tail of s, which is the informative part of a path
func truncateLeft(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 2 {
		return s
	}
	return "…" + string(r[len(r)-n+1:])
}
