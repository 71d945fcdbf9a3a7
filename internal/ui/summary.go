package ui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeffwilliams/squarify"
	"github.com/lumipallolabs/diskprune/internal/model"
)

const (
	minBlockWidth   = 8  // fits a short label
	minBlockHeight  = 3  // border + 1 line text
	maxVisibleItems = 12 // remainder grouped into "N more"
)

// Block is one laid-out rectangle of the summary
type Block struct {
	Candidate     *model.Candidate
	X, Y          int
	Width, Height int
	// For the grouped remainder
	IsGrouped  bool
	GroupCount int
	GroupSize  uint64
}

// summaryItem adapts a candidate to squarify.TreeSizer
type summaryItem struct {
	candidate *model.Candidate
	size      float64
	children  []*summaryItem
}

// Size implements squarify.TreeSizer
func (s *summaryItem) Size() float64 {
	return s.size
}

// NumChildren implements squarify.TreeSizer
func (s *summaryItem) NumChildren() int {
	return len(s.children)
}

// Child implements squarify.TreeSizer
func (s *summaryItem) Child(i int) squarify.TreeSizer {
	return s.children[i]
}

// SummaryPanel draws the largest candidates as a treemap with the total
type SummaryPanel struct {
	candidates []model.Candidate
	total      uint64
	capped     bool
	blocks     []Block
	width      int
	height     int
}

// NewSummaryPanel creates an empty summary
func NewSummaryPanel() SummaryPanel {
	return SummaryPanel{}
}

// SetResult lays out the candidates of a sorted result
func (s *SummaryPanel) SetResult(result model.ScanResult) {
	s.candidates = result.Candidates
	s.total = result.TotalSize()
	s.capped = result.Capped
	s.layout()
}

// SetSize sets the panel dimensions
func (s *SummaryPanel) SetSize(w, h int) {
	s.width = w
	s.height = h
	s.layout()
}

// Blocks returns the current layout
func (s SummaryPanel) Blocks() []Block {
	return s.blocks
}

func (s *SummaryPanel) contentSize() (int, int) {
	return max(s.width-2, 1), max(s.height-1, 1) // room for border and total line
}

// layout places the largest candidates with squarify, shrinking the
// visible count until every block fits a label
func (s *SummaryPanel) layout() {
	s.blocks = nil
	if len(s.candidates) == 0 || s.width <= 2 || s.height <= 2 {
		return
	}

	contentW, contentH := s.contentSize()
	items := make([]*summaryItem, 0, len(s.candidates))
	for i := range s.candidates {
		size := float64(s.candidates[i].Size)
		if size < 1 {
			size = 1
		}
		items = append(items, &summaryItem{candidate: &s.candidates[i], size: size})
	}

	rect := squarify.Rect{X: 0, Y: 0, W: float64(contentW), H: float64(contentH)}

	for visible := min(len(items), maxVisibleItems); visible >= 1; visible-- {
		grouped := len(items) - visible
		mainRect := rect
		if grouped > 0 {
			mainRect.H = float64(contentH - minBlockHeight)
			if mainRect.H < 1 {
				break
			}
		}

		blocks := squarifyItems(items[:visible], mainRect)
		if visible > 1 && !allFit(blocks) {
			continue
		}

		s.blocks = blocks
		if grouped > 0 {
			var groupSize uint64
			for _, it := range items[visible:] {
				groupSize += it.candidate.Size
			}
			endY := 0
			for _, b := range blocks {
				endY = max(endY, b.Y+b.Height)
			}
			s.blocks = append(s.blocks, Block{
				X:          0,
				Y:          endY,
				Width:      contentW,
				Height:     max(contentH-endY, 1),
				IsGrouped:  true,
				GroupCount: grouped,
				GroupSize:  groupSize,
			})
		}
		return
	}
}

func squarifyItems(items []*summaryItem, rect squarify.Rect) []Block {
	root := &summaryItem{children: items}
	for _, it := range items {
		root.size += it.size
	}

	sq, metas := squarify.Squarify(root, rect, squarify.Options{
		MaxDepth: 1,
		Sort:     true,
	})

	contentW, contentH := int(rect.W), int(rect.H)
	var blocks []Block
	for i, b := range sq {
		item, ok := b.TreeSizer.(*summaryItem)
		if !ok || i >= len(metas) || metas[i].Depth != 0 {
			continue
		}

		// Round all edges so adjacent blocks share boundaries
		x := int(math.Round(b.X))
		y := int(math.Round(b.Y))
		w := min(int(math.Round(b.X+b.W)), contentW) - x
		h := min(int(math.Round(b.Y+b.H)), contentH) - y
		if w < 1 || h < 1 {
			continue
		}
		blocks = append(blocks, Block{Candidate: item.candidate, X: x, Y: y, Width: w, Height: h})
	}
	return blocks
}

func allFit(blocks []Block) bool {
	for _, b := range blocks {
		if b.Width < minBlockWidth || b.Height < minBlockHeight {
			return false
		}
	}
	return len(blocks) > 0
}

// View renders the treemap above a total line
func (s SummaryPanel) View() string {
	if len(s.candidates) == 0 {
		return PanelStyle.Width(max(s.width-2, 1)).Render("No candidates")
	}

	contentW, contentH := s.contentSize()
	canvas := make([][]string, contentH)
	for y := range canvas {
		canvas[y] = make([]string, contentW)
		for x := range canvas[y] {
			canvas[y][x] = " "
		}
	}

	for _, b := range s.blocks {
		rendered := strings.Split(renderBlock(b), "\n")
		for dy, line := range rendered {
			y := b.Y + dy
			if y >= contentH {
				break
			}
			// Place the rendered line cell by cell; styled text stays in the first cell
			canvas[y][b.X] = line
			for dx := 1; dx < b.Width && b.X+dx < contentW; dx++ {
				canvas[y][b.X+dx] = ""
			}
		}
	}

	lines := make([]string, contentH)
	for y := range canvas {
		lines[y] = strings.Join(canvas[y], "")
	}

	total := fmt.Sprintf("%d candidates, %s total", len(s.candidates), model.FormatSize(s.total))
	if s.capped {
		total += MutedStyle.Render("  (result cap reached)")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(lines, "\n"),
		StatsStyle.Render(total),
	)
}

// renderBlock renders one block as a bordered box of exactly its size
func renderBlock(b Block) string {
	var label, sizeStr string
	fg, border := ColorFile, ColorBorder
	switch {
	case b.IsGrouped:
		label = fmt.Sprintf("%d more", b.GroupCount)
		sizeStr = model.FormatSize(b.GroupSize)
		fg = ColorMuted
	case b.Candidate != nil:
		label = filepath.Base(b.Candidate.Path)
		sizeStr = model.FormatSize(b.Candidate.Size)
		if b.Candidate.IsDir {
			fg, border = ColorDir, ColorDir
		}
	}

	innerW := max(b.Width-2, 0)
	innerH := max(b.Height-2, 0)

	text := label
	if innerH > 1 && sizeStr != "" {
		text = label + "\n" + sizeStr
	}

	return lipgloss.NewStyle().
		Width(innerW).
		Height(innerH).
		MaxWidth(b.Width).
		MaxHeight(b.Height).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(fg).
		Render(text)
}
