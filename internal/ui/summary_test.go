package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jeffwilliams/squarify"
	"github.com/lumipallolabs/diskprune/internal/model"
)

func resultOf(sizes ...uint64) model.ScanResult {
	var r model.ScanResult
	for i, size := range sizes {
		r.Candidates = append(r.Candidates, model.Candidate{
			Path: fmt.Sprintf("/data/item%02d", i),
			Size: size,
		})
	}
	model.SortBySize(r.Candidates)
	return r
}

func TestSquarifyDirect(t *testing.T) {
	root := &summaryItem{
		size: 300,
		children: []*summaryItem{
			{size: 100},
			{size: 100},
			{size: 100},
		},
	}

	rect := squarify.Rect{X: 0, Y: 0, W: 76, H: 22}
	blocks, metas := squarify.Squarify(root, rect, squarify.Options{
		MaxDepth: 1,
		Sort:     true,
	})

	// Children of the root come back at depth 0
	depth0 := 0
	for i := range blocks {
		if i < len(metas) && metas[i].Depth == 0 {
			depth0++
		}
	}
	if depth0 != 3 {
		t.Errorf("Expected 3 depth-0 blocks, got %d", depth0)
	}
}

func TestSummaryBlocksTile(t *testing.T) {
	panel := NewSummaryPanel()
	panel.SetSize(40, 12)
	panel.SetResult(resultOf(100, 100, 100))

	blocks := panel.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(blocks))
	}

	contentW, contentH := panel.contentSize()
	totalArea := 0
	for _, b := range blocks {
		totalArea += b.Width * b.Height
	}
	coverage := float64(totalArea) / float64(contentW*contentH)
	if coverage < 0.90 {
		t.Errorf("Blocks only cover %.1f%% of area, expected at least 90%%", coverage*100)
	}
}

func TestSummaryBlocksStayInBounds(t *testing.T) {
	panel := NewSummaryPanel()
	panel.SetResult(resultOf(500, 300, 200, 80, 40, 20, 10, 5, 2, 1))

	for _, size := range [][2]int{{120, 30}, {60, 15}, {30, 8}} {
		panel.SetSize(size[0], size[1])
		contentW, contentH := panel.contentSize()
		for i, b := range panel.Blocks() {
			if b.X < 0 || b.Y < 0 || b.X+b.Width > contentW || b.Y+b.Height > contentH {
				t.Errorf("%dx%d: block %d at (%d,%d) %dx%d leaves %dx%d",
					size[0], size[1], i, b.X, b.Y, b.Width, b.Height, contentW, contentH)
			}
		}
	}
}

func TestSummaryGroupsRemainder(t *testing.T) {
	sizes := make([]uint64, 20)
	for i := range sizes {
		sizes[i] = 100
	}

	panel := NewSummaryPanel()
	panel.SetSize(100, 30)
	panel.SetResult(resultOf(sizes...))

	blocks := panel.Blocks()
	if len(blocks) < 2 {
		t.Fatalf("Expected shown blocks and a group, got %d blocks", len(blocks))
	}
	group := blocks[len(blocks)-1]
	if !group.IsGrouped {
		t.Fatal("Last block should hold the remainder")
	}
	shown := len(blocks) - 1
	if shown > maxVisibleItems {
		t.Errorf("Showed %d blocks, max is %d", shown, maxVisibleItems)
	}
	if group.GroupCount+shown != len(sizes) {
		t.Errorf("%d shown + %d grouped, want %d", shown, group.GroupCount, len(sizes))
	}
	if group.GroupSize != uint64(group.GroupCount)*100 {
		t.Errorf("GroupSize = %d", group.GroupSize)
	}
}

func TestSummaryView(t *testing.T) {
	panel := NewSummaryPanel()
	panel.SetSize(60, 12)
	if !strings.Contains(panel.View(), "No candidates") {
		t.Error("empty summary should say so")
	}

	r := resultOf(3<<20, 1<<20)
	r.Capped = true
	panel.SetResult(r)
	view := panel.View()
	if !strings.Contains(view, "2 candidates, 4.0 MiB total") {
		t.Errorf("missing total line in:\n%s", view)
	}
	if !strings.Contains(view, "result cap reached") {
		t.Error("capped result should be flagged")
	}
}
