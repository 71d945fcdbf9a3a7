package ui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary    = lipgloss.Color("#C084FC") // soft violet
	ColorSuccess    = lipgloss.Color("#39FF14")
	ColorDanger     = lipgloss.Color("#FF5555")
	ColorMuted      = lipgloss.Color("#6B7280")
	ColorBorder     = lipgloss.Color("#4A5568")
	ColorBackground = lipgloss.Color("#1F1F23")
	ColorDir        = lipgloss.Color("#00FFFF") // cyan for directories
	ColorFile       = lipgloss.Color("#A0A0A0")
	ColorText       = lipgloss.Color("#E4E4E7")
	ColorFreed      = lipgloss.Color("#5EEAD4") // teal
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Background(ColorBackground).
			Padding(0, 1)

	AppNameStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	StatsStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// Menu
	MenuItemStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			PaddingLeft(1).
			PaddingRight(1)

	MenuItemSelected = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(ColorPrimary).
				Bold(true).
				PaddingLeft(1).
				PaddingRight(1)

	// Boxes and panels
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	// Status lines
	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	DangerStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	// Help bar
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	HelpKey = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
)
