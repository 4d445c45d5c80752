package theme

import (
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/parkicle/pkg/station"
)

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Title    lipgloss.Style
	Text     lipgloss.Style
	Dim      lipgloss.Style
	Accent   lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	Cell         lipgloss.Style
	CellSelected lipgloss.Style
	Panel        lipgloss.Style

	available lipgloss.Style
	charging  lipgloss.Style
	illegal   lipgloss.Style
}

// NewStyles builds the style set for t.
func NewStyles(t Theme) Styles {
	c := func(hex string) lipgloss.Color { return lipgloss.Color(hex) }
	return Styles{
		Title:    lipgloss.NewStyle().Foreground(c(t.Title)).Bold(true),
		Text:     lipgloss.NewStyle().Foreground(c(t.Foreground)),
		Dim:      lipgloss.NewStyle().Foreground(c(t.Dim)),
		Accent:   lipgloss.NewStyle().Foreground(c(t.Accent)).Bold(true),
		Warning:  lipgloss.NewStyle().Foreground(c(t.Warning)).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(c(t.Error)).Bold(true),
		HelpKey:  lipgloss.NewStyle().Foreground(c(t.HelpKey)),
		HelpDesc: lipgloss.NewStyle().Foreground(c(t.HelpDesc)),

		Cell: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Border)).
			Padding(0, 1),
		CellSelected: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(c(t.BorderFocus)).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.BorderFocus)).
			Padding(1, 2),

		available: lipgloss.NewStyle().Foreground(c(t.Available)),
		charging:  lipgloss.NewStyle().Foreground(c(t.Charging)).Bold(true),
		illegal:   lipgloss.NewStyle().Foreground(c(t.Illegal)).Bold(true),
	}
}

// Status returns the style for a station status.
func (s Styles) Status(st station.Status) lipgloss.Style {
	switch st {
	case station.StatusCharging:
		return s.charging
	case station.StatusIllegal:
		return s.illegal
	default:
		return s.available
	}
}
