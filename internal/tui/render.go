package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nerdwave-nick/pokeview/internal/compare"
	"github.com/nerdwave-nick/pokeview/internal/moves"
	"github.com/nerdwave-nick/pokeview/internal/pokeapi"
	"github.com/nerdwave-nick/pokeview/internal/sprites"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const barWidth = 30

var caser = cases.Title(language.English)

func titleCase(s string) string {
	return caser.String(s)
}

func optFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

// RenderSummary renders the header, attributes, type chips and cry of a
// record. Missing values of the Error record show as "-".
func RenderSummary(s Styles, rec *pokeapi.Record, cry string) string {
	var sb strings.Builder
	sb.WriteString(s.Title.Render(fmt.Sprintf("#%d - %s", rec.ID, rec.DisplayName())))
	sb.WriteString("\n")
	if rec.Failed() {
		sb.WriteString(s.Error.Render("could not load record: " + rec.Cause.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	artwork := "-"
	if rec.ArtworkURL != nil {
		artwork = *rec.ArtworkURL
	}
	sb.WriteString(s.Label.Render("Artwork") + artwork + "\n")
	sb.WriteString(s.Label.Render("Height") + optFloat(rec.Height) + "\n")
	sb.WriteString(s.Label.Render("Weight") + optFloat(rec.Weight) + "\n")
	sb.WriteString(s.Label.Render("Number of Moves") + optInt(rec.MoveCount) + "\n")

	sb.WriteString(s.Label.Render("Types"))
	if len(rec.Types) == 0 {
		sb.WriteString("-")
	}
	for _, t := range rec.Types {
		sb.WriteString(chip(t))
	}
	sb.WriteString("\n")

	sb.WriteString(s.Label.Render("Cry"))
	if url, ok := rec.Cry(cry); ok {
		sb.WriteString(url)
		if rec.HasCryChoice() {
			sb.WriteString(s.Muted.Render(fmt.Sprintf(" (%s, c to switch)", cry)))
		}
	} else {
		sb.WriteString("-")
	}
	sb.WriteString("\n")
	return sb.String()
}

// RenderSprite renders the sprite browser state. Toggles that were forced
// off are shown struck through.
func RenderSprite(s Styles, tree *sprites.Tree, res sprites.Resolved) string {
	var sb strings.Builder
	sb.WriteString(s.Header.Render("Sprites"))
	sb.WriteString("\n")
	if len(tree.Generations()) == 0 {
		sb.WriteString(s.Muted.Render("no sprites available"))
		sb.WriteString("\n")
		return sb.String()
	}
	sb.WriteString(s.Label.Render("Generation") + res.Generation + "\n")
	sb.WriteString(s.Label.Render("Version") + res.Version + "\n")
	sb.WriteString(s.Label.Render("Variant") +
		toggle(s, "Back Sprite", res.Back, res.BackAvailable) + "  " +
		toggle(s, "Shiny", res.Shiny, res.ShinyAvailable) + "\n")
	if res.Found {
		sb.WriteString(s.Label.Render("Image") + res.URL + "\n")
	} else {
		sb.WriteString(s.Label.Render("Image") + s.Muted.Render("no image available") + "\n")
	}
	return sb.String()
}

func toggle(s Styles, name string, on, available bool) string {
	switch {
	case !available:
		return s.Disabled.Render(name)
	case on:
		return s.Active.Render("[x] " + name)
	default:
		return "[ ] " + name
	}
}

// RenderBars draws a comparison series as horizontal bars.
func RenderBars(s Styles, series compare.Series) string {
	var sb strings.Builder
	sb.WriteString(s.Header.Render(series.Metric + " Comparison"))
	sb.WriteString("\n")
	top := series.Max()
	for _, p := range series.Points {
		label := lipgloss.NewStyle().Width(14).Render(p.Label)
		if p.Value == nil {
			sb.WriteString(label + s.Muted.Render("-") + "\n")
			continue
		}
		n := 0
		if top > 0 {
			n = int(*p.Value / top * barWidth)
		}
		if n == 0 && *p.Value > 0 {
			n = 1
		}
		bar := lipgloss.NewStyle().Foreground(color(p.Color)).Render(strings.Repeat("█", n))
		sb.WriteString(fmt.Sprintf("%s%s %s\n", label, bar, optFloat(p.Value)))
	}
	return sb.String()
}

var moveHeaders = []string{"ID", "Move", "Type", "Power", "Accuracy", "PP", "Class"}

func moveRow(r moves.Row) []string {
	return []string{
		strconv.Itoa(r.ID),
		pokeapi.MoveRef{Name: r.Name}.DisplayName(),
		r.Type,
		optInt(r.Power),
		optInt(r.Accuracy),
		optInt(r.PP),
		r.DamageClass,
	}
}

// RenderMoves prints a static move table with its progress line.
func RenderMoves(s Styles, snap moves.Snapshot) string {
	rows := make([][]string, 0, len(snap.Rows))
	for _, r := range snap.Rows {
		rows = append(rows, moveRow(r))
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(moveHeaders...).
		Rows(rows...)

	var sb strings.Builder
	sb.WriteString(t.String())
	sb.WriteString("\n")
	sb.WriteString(s.Muted.Render(progressLine(snap)))
	sb.WriteString("\n")
	return sb.String()
}

func progressLine(snap moves.Snapshot) string {
	line := snap.Progress
	if snap.Skipped > 0 {
		line += fmt.Sprintf(" (%d skipped)", snap.Skipped)
	}
	return line
}
