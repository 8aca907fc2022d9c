package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/nerdwave-nick/pokeview/internal/compare"
)

// palette maps the colour names used by the comparison and tag tables to
// terminal colours.
var palette = map[string]lipgloss.Color{
	"black":       lipgloss.Color("#000000"),
	"white":       lipgloss.Color("#FFFFFF"),
	"gray":        lipgloss.Color("#808080"),
	"lightgray":   lipgloss.Color("#D3D3D3"),
	"darkgray":    lipgloss.Color("#A9A9A9"),
	"orange":      lipgloss.Color("#FFA500"),
	"blue":        lipgloss.Color("#1F4FD8"),
	"lightblue":   lipgloss.Color("#ADD8E6"),
	"darkblue":    lipgloss.Color("#00008B"),
	"green":       lipgloss.Color("#1E8C3A"),
	"lightgreen":  lipgloss.Color("#90EE90"),
	"purple":      lipgloss.Color("#800080"),
	"lightpurple": lipgloss.Color("#CBC3E3"),
	"darkpurple":  lipgloss.Color("#4B2A63"),
	"yellow":      lipgloss.Color("#F5D90A"),
	"brown":       lipgloss.Color("#8B5A2B"),
	"pink":        lipgloss.Color("#FFB6C1"),
	"red":         lipgloss.Color("#D62828"),
	"cyan":        lipgloss.Color("#00CED1"),
}

func color(name string) lipgloss.Color {
	if c, ok := palette[name]; ok {
		return c
	}
	return palette[compare.Neutral]
}

type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Label    lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Disabled lipgloss.Style
	Active   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFCB05")),
		Header:   lipgloss.NewStyle().Bold(true).Underline(true),
		Label:    lipgloss.NewStyle().Bold(true).Width(18),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D62828")),
		Disabled: lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")).Strikethrough(true),
		Active:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B4CCA")),
	}
}

// chip paints a type tag with its background and readable text colour.
func chip(tag string) string {
	st := compare.TagStyle(tag)
	return lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		MarginRight(1).
		Background(color(st.Background)).
		Foreground(color(st.Foreground)).
		Render(titleCase(tag))
}
