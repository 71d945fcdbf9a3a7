package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DirInput asks for the directory to scan. The returned string is not
// expanded or validated.
type DirInput struct {
	input    textinput.Model
	fallback string
	width    int
	height   int
}

// NewDirInput creates a directory prompt
func NewDirInput() DirInput {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 4096
	ti.Width = 50
	return DirInput{input: ti}
}

// Reset prepares the prompt with fallback as the default answer
func (d *DirInput) Reset(fallback string) tea.Cmd {
	d.fallback = fallback
	d.input.SetValue("")
	d.input.Placeholder = fallback
	return d.input.Focus()
}

// Value returns the operator input, or the default when left empty
func (d DirInput) Value() string {
	if v := strings.TrimSpace(d.input.Value()); v != "" {
		return v
	}
	return d.fallback
}

// SetSize sets the dimensions for centering
func (d *DirInput) SetSize(w, h int) {
	d.width = w
	d.height = h
	d.input.Width = max(min(w-12, 80), 20)
}

// Update forwards key input to the text field
func (d DirInput) Update(msg tea.Msg) (DirInput, tea.Cmd) {
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

// View renders the prompt
func (d DirInput) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("Directory to scan"),
		"",
		d.input.View(),
		"",
		MutedStyle.Render("enter scan  esc back  (empty uses "+d.fallback+")"),
	)
	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, BoxStyle.Render(content))
}
