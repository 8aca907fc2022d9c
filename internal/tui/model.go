package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nerdwave-nick/pokeview/internal/compare"
	"github.com/nerdwave-nick/pokeview/internal/metrics"
	"github.com/nerdwave-nick/pokeview/internal/moves"
	"github.com/nerdwave-nick/pokeview/internal/pokeapi"
	"github.com/nerdwave-nick/pokeview/internal/sprites"
)

const helpLine = "←/→ prev/next • 0-9 enter jump • m more moves • c cry • g/v generation/version • b back • s shiny • q quit"

type recordMsg struct {
	id  int
	rec *pokeapi.Record
	err error
}

type batchMsg struct {
	id    int
	batch moves.BatchResult
	err   error
}

// Model is the interactive record browser.
type Model struct {
	ctx     context.Context
	fetcher *pokeapi.Fetcher
	page    *moves.Page
	table   table.Model
	styles  Styles

	id        int
	rec       *pokeapi.Record
	loading   bool
	advancing bool
	cancel    context.CancelFunc

	input  string
	status string
	cry    string
	sel    sprites.Selection
}

func New(ctx context.Context, fetcher *pokeapi.Fetcher, startID, parallelism int, m *metrics.Metrics) Model {
	page := moves.NewPage(startID, nil)
	page.Parallelism = parallelism
	page.Metrics = m

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Move", Width: 20},
			{Title: "Type", Width: 10},
			{Title: "Power", Width: 6},
			{Title: "Accuracy", Width: 9},
			{Title: "PP", Width: 4},
			{Title: "Class", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	return Model{
		ctx:     ctx,
		fetcher: fetcher,
		page:    page,
		table:   t,
		styles:  DefaultStyles(),
		id:      startID,
	}
}

func (m Model) Init() tea.Cmd {
	return m.fetchCmd(m.id)
}

func (m Model) fetchCmd(id int) tea.Cmd {
	ctx, fetcher := m.ctx, m.fetcher
	return func() tea.Msg {
		rec, err := fetcher.Fetch(ctx, id)
		return recordMsg{id: id, rec: rec, err: err}
	}
}

func (m Model) advanceCmd(ctx context.Context) tea.Cmd {
	page, id, client := m.page, m.id, m.fetcher.Client()
	return func() tea.Msg {
		batch, err := page.Advance(ctx, id, client)
		return batchMsg{id: id, batch: batch, err: err}
	}
}

// load switches to id. The move page is cleared right away so rows of the
// previous record never show next to the new one.
func (m Model) load(id int) (Model, tea.Cmd) {
	if err := m.fetcher.ValidateID(id); err != nil {
		m.status = err.Error()
		return m, nil
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.id = id
	m.rec = nil
	m.loading = true
	m.advancing = false
	m.status = ""
	m.page.Reset(id, nil)
	m.table.SetRows(nil)
	return m, m.fetchCmd(id)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.rec = msg.rec
		m.cry = msg.rec.DefaultCry()
		m.sel, _ = sprites.First(msg.rec.Sprites)
		m.page.Reset(msg.id, msg.rec.Moves)
		return m, nil

	case batchMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.advancing = false
		m.cancel = nil
		if msg.err != nil {
			if !errors.Is(msg.err, context.Canceled) && !errors.Is(msg.err, moves.ErrStaleRecord) {
				m.status = msg.err.Error()
			}
			return m, nil
		}
		m.table.SetRows(tableRows(m.page.Rows()))
		if n := len(msg.batch.Skipped); n > 0 {
			m.status = fmt.Sprintf("%d moves could not be loaded", n)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		m.input += key
		return m, nil
	}
	if m.input != "" {
		switch key {
		case "enter":
			id, err := strconv.Atoi(m.input)
			m.input = ""
			if err != nil {
				m.status = err.Error()
				return m, nil
			}
			return m.load(id)
		case "backspace":
			m.input = m.input[:len(m.input)-1]
			return m, nil
		case "esc":
			m.input = ""
			return m, nil
		}
	}

	switch key {
	case "q", "ctrl+c":
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	case "left", "h":
		if m.id > 1 {
			return m.load(m.id - 1)
		}
	case "right", "l":
		if m.id < m.fetcher.MaxID() {
			return m.load(m.id + 1)
		}
	case "m":
		if m.rec == nil || m.advancing || m.page.Done() {
			return m, nil
		}
		ctx, cancel := context.WithCancel(m.ctx)
		m.cancel = cancel
		m.advancing = true
		return m, m.advanceCmd(ctx)
	case "up", "down", "k", "j", "pgup", "pgdown":
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	if m.rec == nil || m.rec.Failed() {
		return m, nil
	}
	switch key {
	case "c":
		if m.rec.HasCryChoice() {
			m.cry = next(m.rec.CryLabels(), m.cry)
		}
	case "g":
		m.sel.Generation = next(m.rec.Sprites.Generations(), m.sel.Generation)
		if versions := m.rec.Sprites.Versions(m.sel.Generation); len(versions) > 0 {
			m.sel.Version = versions[0]
		}
		m.sel = m.resolve().Selection
	case "v":
		m.sel.Version = next(m.rec.Sprites.Versions(m.sel.Generation), m.sel.Version)
		m.sel = m.resolve().Selection
	case "b":
		if m.resolve().BackAvailable {
			m.sel.Back = !m.sel.Back
		}
	case "s":
		if m.resolve().ShinyAvailable {
			m.sel.Shiny = !m.sel.Shiny
		}
	}
	return m, nil
}

func (m Model) resolve() sprites.Resolved {
	return sprites.Resolve(m.rec.Sprites, m.sel)
}

// next returns the entry after cur, wrapping around.
func next(list []string, cur string) string {
	if len(list) == 0 {
		return cur
	}
	i := slices.Index(list, cur)
	return list[(i+1)%len(list)]
}

func tableRows(rows []moves.Row) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, table.Row(moveRow(r)))
	}
	return out
}

func (m Model) View() string {
	var sb strings.Builder
	switch {
	case m.loading || m.rec == nil:
		sb.WriteString(m.styles.Title.Render(fmt.Sprintf("#%d", m.id)))
		sb.WriteString("\n")
		sb.WriteString(m.styles.Muted.Render("loading..."))
		sb.WriteString("\n")
	default:
		left := RenderSummary(m.styles, m.rec, m.cry)
		if !m.rec.Failed() {
			left += "\n" + RenderSprite(m.styles, m.rec.Sprites, m.resolve())
		}
		right := RenderBars(m.styles, compare.Heights(m.rec)) + "\n" + RenderBars(m.styles, compare.Weights(m.rec))
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().MarginRight(4).Render(left), right))
		sb.WriteString("\n\n")

		sb.WriteString(m.styles.Header.Render("Moves"))
		sb.WriteString("\n")
		sb.WriteString(m.table.View())
		sb.WriteString("\n")
		progress := progressLine(m.page.Snapshot())
		if m.advancing {
			progress += " loading..."
		}
		sb.WriteString(m.styles.Muted.Render(progress))
		sb.WriteString("\n")
	}

	if m.input != "" {
		sb.WriteString("\ngo to #" + m.input)
	}
	if m.status != "" {
		sb.WriteString("\n" + m.styles.Error.Render(m.status))
	}
	sb.WriteString("\n" + m.styles.Muted.Render(helpLine) + "\n")
	return sb.String()
}

// Run starts the browser on startID and blocks until the user quits.
func Run(ctx context.Context, fetcher *pokeapi.Fetcher, startID, parallelism int, m *metrics.Metrics) error {
	if err := fetcher.ValidateID(startID); err != nil {
		return err
	}
	p := tea.NewProgram(New(ctx, fetcher, startID, parallelism, m), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	slog.Debug("browser closed")
	return nil
}
