package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tenthousand/internal/storage"
)

// Scoreboard layout constants
const (
	maxRows       = 100 // Max rows to load per view
	tableMinWidth = 50  // Minimum table width
)

// ScoreSource is the part of the store the scoreboard reads.
type ScoreSource interface {
	RecentGames(ctx context.Context, limit int) ([]storage.GameSummary, error)
	Leaderboard(ctx context.Context, limit int) ([]storage.LeaderEntry, error)
}

// scoreView is one tab of the scoreboard.
type scoreView int

const (
	viewLeaderboard scoreView = iota
	viewRecent
	viewCount
)

func (v scoreView) title() string {
	if v == viewRecent {
		return "Recent games"
	}
	return "Leaderboard"
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextView key.Binding
	PrevView key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.Refresh, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.PrevView},
		{k.Refresh, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev view"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	source   ScoreSource
	view     scoreView
	rows     []table.Row
	err      error
	table    table.Model
	help     help.Model
	keys     ScoreboardKeyMap
	width    int
	height   int
	quitting bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(source ScoreSource, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		source: source,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// columns returns the table columns for the current view.
func (m *ScoreboardModel) columns() []table.Column {
	if m.view == viewRecent {
		return []table.Column{
			{Title: "Game", Width: 10},
			{Title: "Status", Width: 10},
			{Title: "Round", Width: 6},
			{Title: "Players", Width: 8},
			{Title: "Winner", Width: 14},
			{Title: "Updated", Width: 14},
		}
	}

	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: 16},
		{Title: "Games", Width: 6},
		{Title: "Wins", Width: 6},
		{Title: "Win %", Width: 6},
		{Title: "Best", Width: 8},
	}
	// Give spare width to the name column
	if spare := m.width - 4 - tableMinWidth; spare > 0 {
		columns[1].Width += min(spare, 10)
	}
	return columns
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	height := m.height - 8 // Leave room for header, help, and margins
	if height < 5 {
		height = 5
	}

	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads the current view from the source.
func (m *ScoreboardModel) load() {
	m.rows, m.err = nil, nil
	if m.source == nil {
		m.table.SetRows(nil)
		return
	}

	ctx := context.Background()
	switch m.view {
	case viewRecent:
		games, err := m.source.RecentGames(ctx, maxRows)
		if err != nil {
			m.err = err
			break
		}
		for _, g := range games {
			winner := g.Winner
			if winner == "" {
				winner = "-"
			}
			m.rows = append(m.rows, table.Row{
				shortID(g.ID),
				g.Status,
				fmt.Sprintf("%d", g.Round),
				fmt.Sprintf("%d", g.Players),
				winner,
				g.UpdatedAt.Local().Format("Jan 02 15:04"),
			})
		}
	default:
		board, err := m.source.Leaderboard(ctx, maxRows)
		if err != nil {
			m.err = err
			break
		}
		for i, e := range board {
			rate := 0
			if e.Games > 0 {
				rate = e.Wins * 100 / e.Games
			}
			m.rows = append(m.rows, table.Row{
				fmt.Sprintf("#%d", i+1),
				e.Name,
				fmt.Sprintf("%d", e.Games),
				fmt.Sprintf("%d", e.Wins),
				fmt.Sprintf("%d%%", rate),
				fmt.Sprintf("%d", e.BestTotal),
			})
		}
	}

	m.table.SetRows(m.rows)
	// Reset cursor to top
	m.table.GotoTop()
}

// switchView moves to another tab and reloads it.
func (m *ScoreboardModel) switchView(delta int) {
	m.view = scoreView((int(m.view) + delta + int(viewCount)) % int(viewCount))
	// Columns differ per view; rows must be cleared before the columns shrink
	m.table.SetRows(nil)
	m.table.SetColumns(m.columns())
	m.load()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextView):
			m.switchView(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevView):
			m.switchView(-1)
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetRows(m.rows)
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.MarginBottom(1).Render(centerText("TEN THOUSAND - "+strings.ToUpper(m.view.title()), m.width)))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(panelStyle.Render(m.renderTableContent()))

	// Help bar
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTabs renders the view switcher.
func (m ScoreboardModel) renderTabs() string {
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, 0, int(viewCount))
	for v := range viewCount {
		if v == m.view {
			tabs = append(tabs, activeTabStyle.Render(v.title()))
		} else {
			tabs = append(tabs, mutedStyle.Render(" "+v.title()+" "))
		}
	}
	return centerText(strings.Join(tabs, " "), m.width)
}

// renderTableContent renders the table, an error, or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.err != nil:
		return errorStyle.Padding(2, 4).Render("Could not load scores: " + m.err.Error())
	case len(m.rows) == 0 && m.view == viewRecent:
		return emptyStyle.Render("No games recorded yet.\nRun `tenk play` to start one!")
	case len(m.rows) == 0:
		return emptyStyle.Render("Nobody has won a game yet.")
	}
	return m.table.View()
}

// IsQuitting returns true if user wants to quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
func RunScoreboard(source ScoreSource, width, height int) error {
	p := tea.NewProgram(
		NewScoreboardModel(source, width, height),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

// shortID trims a UUID to its first block for display.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
