package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lumipallolabs/diskprune/internal/cachescan"
	"github.com/lumipallolabs/diskprune/internal/cleanup"
	"github.com/lumipallolabs/diskprune/internal/model"
	"github.com/lumipallolabs/diskprune/internal/ui"
)

const (
	colSize = iota
	colKind
	colType
	colPath
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	sizeStyle   = cellStyle.Align(lipgloss.Right)
	dirStyle    = cellStyle.Foreground(ui.ColorDir)
)

// candidateTable lays out candidates, optionally with a leading index column
func candidateTable(candidates []model.Candidate, numbered bool) *table.Table {
	headers := []string{"Size", "Kind", "Type", "Path"}
	offset := 0
	if numbered {
		headers = append([]string{"#"}, headers...)
		offset = 1
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ui.ColorBorder)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == colSize+offset || (numbered && col == 0):
				return sizeStyle
			case col == colPath+offset && row < len(candidates) && candidates[row].IsDir:
				return dirStyle
			default:
				return cellStyle
			}
		})

	for i, c := range candidates {
		kind, typ := "file", ""
		if c.IsDir {
			kind = "dir"
		} else {
			typ = ui.FileType(c.Path)
		}
		cells := []string{model.FormatSize(c.Size), kind, typ, c.Path}
		if numbered {
			cells = append([]string{strconv.Itoa(i + 1)}, cells...)
		}
		t.Row(cells...)
	}
	return t
}

// renderResult prints result as a table followed by the total
func renderResult(w io.Writer, result model.ScanResult) error {
	if result.Empty() {
		_, err := fmt.Fprintln(w, cleanup.OutcomeNothingFound)
		return err
	}
	if _, err := fmt.Fprintln(w, candidateTable(result.Candidates, false).Render()); err != nil {
		return err
	}
	return renderTotal(w, result)
}

func renderTotal(w io.Writer, result model.ScanResult) error {
	line := fmt.Sprintf("%d item(s), %s total", result.Len(), model.FormatSize(result.TotalSize()))
	if result.Capped {
		line += " (result cap reached)"
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// renderReport prints the deletion summary and each failure
func renderReport(w io.Writer, r cleanup.Report) error {
	if _, err := fmt.Fprintln(w, r.Summary()); err != nil {
		return err
	}
	for _, f := range r.Failures {
		if _, err := fmt.Fprintf(w, "  failed: %v\n", f); err != nil {
			return err
		}
	}
	return nil
}

// renderRoots prints each cache root spec with the directories it
// currently resolves to
func renderRoots(w io.Writer, roots cachescan.Roots) error {
	for _, spec := range roots.Specs() {
		if _, err := fmt.Fprintln(w, spec); err != nil {
			return err
		}
		for _, dir := range spec.Resolve() {
			note := ""
			if _, err := os.Stat(dir); err != nil {
				note = "  (missing)"
			}
			if _, err := fmt.Fprintf(w, "  %s%s\n", dir, note); err != nil {
				return err
			}
		}
	}
	return nil
}
