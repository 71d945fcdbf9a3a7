package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lumipallolabs/diskprune/internal/core"
	"github.com/lumipallolabs/diskprune/internal/model"
)

const headerProgressBarWidth = 20 // Width of disk usage progress bar

// Header displays the app name, scan target, freed space and volume usage
type Header struct {
	width  int
	target string
	freed  core.FreedState
	volume *model.Volume
}

// NewHeader creates a new header component
func NewHeader() Header {
	return Header{}
}

// SetTarget sets the label describing what is being scanned
func (h *Header) SetTarget(target string) {
	h.target = target
}

// SetFreed sets the freed space statistics
func (h *Header) SetFreed(freed core.FreedState) {
	h.freed = freed
}

// SetVolume sets the volume shown on the right; nil hides it
func (h *Header) SetVolume(v *model.Volume) {
	h.volume = v
}

// SetWidth sets the header width
func (h *Header) SetWidth(w int) {
	h.width = w
}

// View renders the header
func (h Header) View() string {
	appName := AppNameStyle.Render("DISKPRUNE")

	var target string
	if h.target != "" {
		target = MutedStyle.Render(h.target)
	}

	// Freed stats (show when either counter > 0)
	var freedStats string
	if h.freed.Session > 0 || h.freed.Lifetime > 0 {
		freedLabel := MutedStyle.Render("Freed: ")
		freedSession := lipgloss.NewStyle().Foreground(ColorFreed).Render(model.FormatSize(h.freed.Session) + " session")
		freedSep := MutedStyle.Render(" | ")
		freedTotal := MutedStyle.Render(model.FormatSize(h.freed.Lifetime) + " total")
		freedStats = freedLabel + freedSession + freedSep + freedTotal
	}

	var stats, statsCompact string
	if v := h.volume; v != nil && v.TotalBytes > 0 {
		usedPct := v.UsedPercent()
		filled := int(usedPct / 100 * float64(headerProgressBarWidth))
		filled = min(max(filled, 0), headerProgressBarWidth)
		bar := strings.Repeat("█", filled) + strings.Repeat("░", headerProgressBarWidth-filled)

		stats = StatsStyle.Render(fmt.Sprintf("Used: %s / %s  [%s] %.0f%%",
			model.FormatSize(v.UsedBytes()), model.FormatSize(v.TotalBytes), bar, usedPct))
		statsCompact = StatsStyle.Render(fmt.Sprintf("Used: %s / %s",
			model.FormatSize(v.UsedBytes()), model.FormatSize(v.TotalBytes)))
	}

	sep := lipgloss.NewStyle().Foreground(ColorBorder).Render(" │ ")
	left := appName
	if target != "" {
		left += sep + target
	}

	total := func() int {
		return lipgloss.Width(left) + lipgloss.Width(freedStats) + lipgloss.Width(stats) + 4
	}

	// For narrow terminals, progressively hide elements
	if h.width < total() && statsCompact != "" {
		stats = statsCompact
	}
	if h.width < total() {
		freedStats = ""
	}
	if h.width < total() {
		stats = ""
	}

	remaining := max(h.width-total()+4, 2)
	leftGap := max(remaining/2, 1)
	rightGap := max(remaining-leftGap, 1)

	line := left + strings.Repeat(" ", leftGap) + freedStats + strings.Repeat(" ", rightGap) + stats
	return HeaderStyle.MaxHeight(1).Render(line)
}
