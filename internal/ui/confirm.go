package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lumipallolabs/diskprune/internal/cleanup"
)

// ConfirmDialog asks the operator to confirm a deletion plan
type ConfirmDialog struct {
	plan   cleanup.Plan
	width  int
	height int
}

// NewConfirmDialog creates an empty dialog
func NewConfirmDialog() ConfirmDialog {
	return ConfirmDialog{}
}

// SetPlan sets the plan being confirmed
func (c *ConfirmDialog) SetPlan(plan cleanup.Plan) {
	c.plan = plan
}

// Plan returns the plan being confirmed
func (c ConfirmDialog) Plan() cleanup.Plan {
	return c.plan
}

// SetSize sets the dimensions for centering
func (c *ConfirmDialog) SetSize(w, h int) {
	c.width = w
	c.height = h
}

// View renders the dialog
func (c ConfirmDialog) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		DangerStyle.Render(c.plan.Prompt()),
		"",
		MutedStyle.Render("Directories are removed with everything inside them."),
		MutedStyle.Render("This cannot be undone."),
		"",
		HelpKey.Render("y")+StatsStyle.Render(" delete   ")+HelpKey.Render("n")+StatsStyle.Render(" cancel"),
	)
	box := BoxStyle.BorderForeground(ColorDanger).Render(content)
	return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center, box)
}
