package ui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lumipallolabs/diskprune/internal/model"
)

const (
	markWidth = 3
	sizeWidth = 10
	kindWidth = 5
	typeWidth = 8
)

// CandidateList shows scan candidates in a table and tracks which ones the
// operator marked for deletion
type CandidateList struct {
	table      table.Model
	candidates []model.Candidate
	marked     map[string]bool
	types      map[string]string
	width      int
}

// NewCandidateList creates an empty list
func NewCandidateList() CandidateList {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(ColorPrimary).
		Bold(true)
	t.SetStyles(styles)

	return CandidateList{
		table:  t,
		marked: make(map[string]bool),
		types:  make(map[string]string),
	}
}

func columns(width int) []table.Column {
	pathWidth := max(width-markWidth-sizeWidth-kindWidth-typeWidth-10, 20)
	return []table.Column{
		{Title: "", Width: markWidth},
		{Title: "Size", Width: sizeWidth},
		{Title: "Kind", Width: kindWidth},
		{Title: "Type", Width: typeWidth},
		{Title: "Path", Width: pathWidth},
	}
}

// SetCandidates replaces the listed candidates and clears all marks. The
// candidates must already be sorted.
func (l *CandidateList) SetCandidates(candidates []model.Candidate) {
	l.candidates = candidates
	l.marked = make(map[string]bool)
	for _, c := range candidates {
		if _, ok := l.types[c.Path]; !ok && !c.IsDir {
			l.types[c.Path] = FileType(c.Path)
		}
	}
	l.refresh()
	l.table.SetCursor(0)
}

// SetSize sets the table dimensions
func (l *CandidateList) SetSize(w, h int) {
	l.width = w
	l.table.SetColumns(columns(w))
	l.table.SetWidth(w)
	l.table.SetHeight(max(h, 3))
}

// Len returns the number of listed candidates
func (l CandidateList) Len() int {
	return len(l.candidates)
}

// Current returns the candidate under the cursor
func (l CandidateList) Current() (model.Candidate, bool) {
	i := l.table.Cursor()
	if i < 0 || i >= len(l.candidates) {
		return model.Candidate{}, false
	}
	return l.candidates[i], true
}

// Toggle flips the mark on the candidate under the cursor
func (l *CandidateList) Toggle() {
	c, ok := l.Current()
	if !ok {
		return
	}
	if l.marked[c.Path] {
		delete(l.marked, c.Path)
	} else {
		l.marked[c.Path] = true
	}
	l.refresh()
}

// MarkAll marks every candidate
func (l *CandidateList) MarkAll() {
	for _, c := range l.candidates {
		l.marked[c.Path] = true
	}
	l.refresh()
}

// ClearMarks unmarks every candidate
func (l *CandidateList) ClearMarks() {
	l.marked = make(map[string]bool)
	l.refresh()
}

// Marked returns the marked paths in list order
func (l CandidateList) Marked() []string {
	var paths []string
	for _, c := range l.candidates {
		if l.marked[c.Path] {
			paths = append(paths, c.Path)
		}
	}
	return paths
}

// MarkedSize returns the summed size of marked candidates
func (l CandidateList) MarkedSize() uint64 {
	var total uint64
	for _, c := range l.candidates {
		if l.marked[c.Path] {
			total += c.Size
		}
	}
	return total
}

// Update forwards navigation keys to the table
func (l CandidateList) Update(msg tea.Msg) (CandidateList, tea.Cmd) {
	var cmd tea.Cmd
	l.table, cmd = l.table.Update(msg)
	return l, cmd
}

// View renders the table
func (l CandidateList) View() string {
	return l.table.View()
}

func (l *CandidateList) refresh() {
	rows := make([]table.Row, 0, len(l.candidates))
	for _, c := range l.candidates {
		mark := "[ ]"
		if l.marked[c.Path] {
			mark = "[x]"
		}
		kind := "file"
		if c.IsDir {
			kind = "dir"
		}
		rows = append(rows, table.Row{
			mark,
			model.FormatSize(c.Size),
			kind,
			l.types[c.Path],
			c.Path,
		})
	}
	l.table.SetRows(rows)
}
