package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MenuAction is what a menu entry does
type MenuAction int

const (
	ActionLargeScan MenuAction = iota
	ActionCacheScan
	ActionQuit
)

type menuItem struct {
	action MenuAction
	label  string
	hint   string
}

var menuItems = []menuItem{
	{ActionLargeScan, "Find large files and folders", "pick a directory, list entries over the threshold"},
	{ActionCacheScan, "Find cache directories", "check well-known cache locations"},
	{ActionQuit, "Quit", ""},
}

// Menu is the top-level action selector
type Menu struct {
	selected int
	notice   string
	width    int
	height   int
}

// NewMenu creates a new menu component
func NewMenu() Menu {
	return Menu{}
}

// SetNotice sets the message shown under the menu, e.g. the last outcome
func (m *Menu) SetNotice(notice string) {
	m.notice = notice
}

// Notice returns the current notice
func (m Menu) Notice() string {
	return m.notice
}

// Selected returns the highlighted action
func (m Menu) Selected() MenuAction {
	return menuItems[m.selected].action
}

// SetSize sets the dimensions for centering
func (m *Menu) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// MoveUp moves selection up
func (m *Menu) MoveUp() {
	if m.selected > 0 {
		m.selected--
	}
}

// MoveDown moves selection down
func (m *Menu) MoveDown() {
	if m.selected < len(menuItems)-1 {
		m.selected++
	}
}

// View renders the menu
func (m Menu) View() string {
	var content strings.Builder

	content.WriteString(TitleStyle.MarginBottom(1).Render("What do you want to clean up?"))
	content.WriteString("\n")

	for i, item := range menuItems {
		if i == m.selected {
			content.WriteString(MenuItemSelected.Render(item.label))
		} else {
			content.WriteString(MenuItemStyle.Render(item.label))
		}
		content.WriteString("\n")
	}

	if hint := menuItems[m.selected].hint; hint != "" {
		content.WriteString(MutedStyle.MarginTop(1).Render(hint))
		content.WriteString("\n")
	}
	if m.notice != "" {
		content.WriteString(StatsStyle.MarginTop(1).Render(m.notice))
	}

	box := BoxStyle.Render(strings.TrimSuffix(content.String(), "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
