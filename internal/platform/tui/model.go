package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tenthousand/internal/game"
	"github.com/vovakirdan/tui-tenthousand/internal/turn"
)

// Layout constants
const (
	logLines     = 8  // Events kept in the log panel
	minLogWidth  = 40 // Narrowest log panel
	defaultWidth = 80
)

// eventMsg carries one session event into the update loop.
type eventMsg game.Event

// closedMsg is sent once the subscription has ended.
type closedMsg struct{}

// startErrMsg reports a failed Start.
type startErrMsg struct{ err error }

// Model is the Bubble Tea model for one game of 10,000.
// Every seat at the keyboard shares it; the session rejects input while a bot plays.
type Model struct {
	session   *game.Session
	sub       *game.Subscription
	keys      KeyMap
	help      help.Model
	standings table.Model
	log       []game.Event
	status    string
	width     int
	height    int
	closed    bool
	quitting  bool
}

// NewModel creates a model for s and subscribes to its events.
// The session is started by Init.
func NewModel(s *game.Session, width, height int) Model {
	if width <= 0 {
		width = defaultWidth
	}

	h := help.New()
	h.Width = width

	m := Model{
		session: s,
		sub:     s.Subscribe(game.DefaultBuffer),
		keys:    DefaultKeyMap(),
		help:    h,
		width:   width,
		height:  height,
	}
	m.standings = m.createTable()
	m.updateStandings()
	return m
}

// createTable creates the standings table.
func (m *Model) createTable() table.Model {
	columns := []table.Column{
		{Title: " ", Width: 2},
		{Title: "Player", Width: 14},
		{Title: "Seat", Width: 12},
		{Title: "Total", Width: 7},
		{Title: "On board", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(len(m.session.Players())+1),
	)

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

// updateStandings refreshes the table from the session.
func (m *Model) updateStandings() {
	players := m.session.Players()
	current := m.session.CurrentPlayer()

	rows := make([]table.Row, len(players))
	cursor := 0
	for i, p := range players {
		marker := ""
		if p.ID == current.ID {
			marker = ">"
			cursor = i
		}
		entered := "no"
		if p.HasEntered {
			entered = "yes"
		}
		rows[i] = table.Row{marker, p.Name, p.Difficulty.Title(), fmt.Sprintf("%d", p.BankedTotal), entered}
	}
	m.standings.SetRows(rows)
	m.standings.SetCursor(cursor)
}

// Init starts the game and begins listening for events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(startCmd(m.session), waitForEvent(m.sub))
}

func startCmd(s *game.Session) tea.Cmd {
	return func() tea.Msg {
		if err := s.Start(); err != nil {
			return startErrMsg{err}
		}
		return nil
	}
}

// waitForEvent blocks until the next event or the end of the subscription.
func waitForEvent(sub *game.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-sub.Events():
			return eventMsg(evt)
		case <-sub.Done():
			return closedMsg{}
		}
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		return m.handleEvent(game.Event(msg))

	case startErrMsg:
		m.status = msg.err.Error()
		return m, nil

	case closedMsg:
		m.closed = true
		return m, nil
	}

	return m, nil
}

// handleKey maps keys to session intents.
// Rejected intents come back as Advisory events, so errors are not handled here.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.session.Abandon()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Roll):
		_ = m.session.Roll()

	case key.Matches(msg, m.keys.Bank):
		_ = m.session.Bank()

	case key.Matches(msg, m.keys.Select):
		if id, ok := dieFromKey(msg); ok {
			_ = m.session.SelectDie(id)
		}

	case key.Matches(msg, m.keys.Next):
		_ = m.session.AcknowledgeNextPlayer()
	}
	return m, nil
}

// handleEvent records evt and waits for the next one.
func (m Model) handleEvent(evt game.Event) (tea.Model, tea.Cmd) {
	switch evt.Type {
	case game.EventAdvisory, game.EventError:
		m.status = describeEvent(evt)
	default:
		m.status = ""
	}

	m.log = append(m.log, evt)
	if len(m.log) > logLines {
		m.log = m.log[len(m.log)-logLines:]
	}
	m.updateStandings()
	return m, waitForEvent(m.sub)
}

// View renders the game screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.session.Snapshot()
	st := m.session.Turn()
	current := m.session.CurrentPlayer()

	var b strings.Builder

	title := fmt.Sprintf("TEN THOUSAND  -  Round %d  -  first to exactly %d", snap.Round, snap.Target)
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	b.WriteString(panelStyle.Render(m.standings.View()))
	b.WriteString("\n\n")

	if winner, ok := m.session.Winner(); ok {
		b.WriteString(winStyle.Render(fmt.Sprintf("%s wins with %d!", winner.Name, winner.BankedTotal)))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Press q to leave."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.renderTurn(current, st))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.renderLog())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTurn renders the dice and totals for the player holding the turn.
func (m Model) renderTurn(p game.PlayerView, st turn.State) string {
	var b strings.Builder

	who := p.Name
	if p.IsBot {
		who = fmt.Sprintf("%s (%s bot)", p.Name, p.Difficulty.Title())
	}
	b.WriteString(accentStyle.Render(who))
	b.WriteString(mutedStyle.Render("  " + phaseHint(st, p.IsBot)))
	b.WriteString("\n")

	b.WriteString(renderDice(st.Dice))
	b.WriteString("\n")

	line := fmt.Sprintf("Turn %d  (held %d + selection %d)", st.TurnTotal(), st.LockedScore, st.SelectionScore)
	if n := st.DiceToRoll(); n > 0 {
		line += fmt.Sprintf("  -  next roll: %d dice", n)
	}
	if !st.HasEntered && st.Rules.EntryThreshold > 0 {
		line += fmt.Sprintf("  -  needs %d to get on the board", st.Rules.EntryThreshold)
	}
	b.WriteString(line)
	b.WriteString("\n")
	return b.String()
}

// renderLog renders the most recent events.
func (m Model) renderLog() string {
	lines := make([]string, 0, len(m.log))
	for _, evt := range m.log {
		lines = append(lines, eventStyle(evt).Render(describeEvent(evt)))
	}
	if m.closed {
		lines = append(lines, mutedStyle.Render("(session ended)"))
	}
	if len(lines) == 0 {
		lines = append(lines, mutedStyle.Render("Waiting for the first roll..."))
	}

	width := m.width - 4
	if width < minLogWidth {
		width = minLogWidth
	}
	return panelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// phaseHint tells the player what they can do next.
func phaseHint(st turn.State, isBot bool) string {
	if isBot {
		return "is thinking..."
	}
	switch st.Phase {
	case turn.PhaseAwaitingRoll:
		return "roll to start the turn"
	case turn.PhaseRolling:
		return "rolling..."
	case turn.PhaseAwaitingSelection, turn.PhaseAwaitingBankOrContinue:
		if st.CanBankNow() {
			return "bank or keep rolling"
		}
		return "keep rolling"
	case turn.PhaseTurnLost, turn.PhaseScoreExceeded, turn.PhaseBanked:
		return "press enter to pass the dice"
	default:
		return ""
	}
}

// Run starts the Bubble Tea program for s.
func Run(s *game.Session, width, height int) error {
	p := tea.NewProgram(
		NewModel(s, width, height),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
