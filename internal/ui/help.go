package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

const helpKeyColumnWidth = 12

type helpSection struct {
	title    string
	bindings []key.Binding
}

// HelpOverlay lists every key binding, grouped by screen, in a centered box
type HelpOverlay struct {
	sections []helpSection
	visible  bool
	width    int
	height   int
}

// NewHelpOverlay builds the overlay from keys
func NewHelpOverlay(keys KeyMap) HelpOverlay {
	return HelpOverlay{sections: []helpSection{
		{"NAVIGATION", []key.Binding{keys.Up, keys.Down, keys.Select, keys.Back}},
		{"RESULTS", []key.Binding{keys.Toggle, keys.MarkAll, keys.ClearAll, keys.Delete, keys.Open}},
		{"CONFIRM", []key.Binding{keys.Yes, keys.No}},
		{"OTHER", []key.Binding{keys.Help, keys.Quit}},
	}}
}

func (h *HelpOverlay) Toggle() {
	h.visible = !h.visible
}

func (h *HelpOverlay) SetVisible(visible bool) {
	h.visible = visible
}

func (h HelpOverlay) IsVisible() bool {
	return h.visible
}

func (h *HelpOverlay) SetSize(w, height int) {
	h.width = w
	h.height = height
}

// View renders the overlay, or "" when hidden
func (h HelpOverlay) View() string {
	if !h.visible {
		return ""
	}

	sectionStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Bold(true).
		MarginTop(1)
	keyStyle := HelpKey.Width(helpKeyColumnWidth)
	descStyle := lipgloss.NewStyle().Foreground(ColorText)

	lines := []string{TitleStyle.Render("Keyboard Shortcuts")}
	for _, s := range h.sections {
		lines = append(lines, sectionStyle.Render(s.title))
		for _, b := range s.bindings {
			help := b.Help()
			lines = append(lines, keyStyle.Render(help.Key)+descStyle.Render(help.Desc))
		}
	}

	box := BoxStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
}
