package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tenthousand/internal/config"
	"github.com/vovakirdan/tui-tenthousand/internal/dice"
	"github.com/vovakirdan/tui-tenthousand/internal/game"
	"github.com/vovakirdan/tui-tenthousand/internal/storage"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDieFromKey(t *testing.T) {
	tests := []struct {
		key  string
		want int
		ok   bool
	}{
		{"1", 1, true},
		{"6", 6, true},
		{"0", 0, false},
		{"7", 0, false},
		{"r", 0, false},
		{"enter", 0, false},
	}
	for _, tt := range tests {
		got, ok := dieFromKey(keyMsg(tt.key))
		if got != tt.want || ok != tt.ok {
			t.Errorf("dieFromKey(%q) = %d, %v; want %d, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDescribeEvent(t *testing.T) {
	tests := []struct {
		evt  game.Event
		want string
	}{
		{game.Event{Type: game.EventTurnStarted, Player: "Ann", Round: 2, Total: 650}, "Round 2: Ann to play (total 650)"},
		{game.Event{Type: game.EventDiceRolled, Player: "Ann", Dice: []dice.Die{{ID: 1, Value: 5, Locked: true}, {ID: 2, Value: 3}, {ID: 3, Value: 1}}}, "Ann rolled 3 1"},
		{game.Event{Type: game.EventBanked, Player: "Ann", Points: 400, Total: 1050}, "Ann banked 400, total 1050"},
		{game.Event{Type: game.EventGameOver, Player: "Bob", Total: 10000}, "Bob wins with exactly 10000!"},
		{game.Event{Type: game.EventAdvisory, Message: "waiting for Dot"}, "waiting for Dot"},
		{game.Event{Type: game.EventError, Message: "roller failed", Retriable: true}, "roller failed (try again)"},
	}
	for _, tt := range tests {
		if got := describeEvent(tt.evt); got != tt.want {
			t.Errorf("describeEvent(%s) = %q, want %q", tt.evt.Type, got, tt.want)
		}
	}
}

func TestRenderDice(t *testing.T) {
	out := renderDice([]dice.Die{{ID: 1, Value: 5, Locked: true}, {ID: 2, Value: 1, Selected: true}, {ID: 3, Value: 4}})
	for _, want := range []string{"5", "1", "4", "#1", "#2", "#3"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderDice output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(renderDice(nil), "no dice") {
		t.Error("empty chain should say so")
	}
}

// pump feeds every buffered event into the model.
func pump(t *testing.T, m Model) Model {
	t.Helper()
	for {
		select {
		case evt := <-m.sub.Events():
			next, _ := m.Update(eventMsg(evt))
			m = next.(Model)
		default:
			return m
		}
	}
}

func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	next, _ := m.Update(keyMsg(k))
	return pump(t, next.(Model))
}

func TestModelPlaysHumanTurn(t *testing.T) {
	s, err := game.NewSession(game.Options{
		ID:        "tui",
		Roller:    dice.NewScriptedRoller([]int{1, 1, 1, 2, 3, 4}),
		Scheduler: game.NewImmediateScheduler(),
	}, []game.Seat{{ID: "ann", Name: "Ann"}, {ID: "bob", Name: "Bob"}})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	m := NewModel(s, 100, 40)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	m = pump(t, m)
	if len(m.log) != 1 || m.log[0].Type != game.EventTurnStarted {
		t.Fatalf("log after start = %v", m.log)
	}

	m = press(t, m, "r")
	if got := s.Turn().TurnTotal(); got != 1000 {
		t.Fatalf("turn total = %d, want 1000", got)
	}
	if view := m.View(); !strings.Contains(view, "Turn 1000") || !strings.Contains(view, "Ann") {
		t.Errorf("view does not show the turn:\n%s", view)
	}

	m = press(t, m, "b")
	m = press(t, m, "enter")
	if got := s.CurrentPlayer().Name; got != "Bob" {
		t.Fatalf("current player = %s, want Bob", got)
	}
	if m.status != "" {
		t.Errorf("status = %q, want empty", m.status)
	}
	if row := m.standings.Rows()[0]; row[3] != "1000" || row[4] != "yes" {
		t.Errorf("Ann's standings row = %v", row)
	}

	// Bob cannot bank before rolling.
	m = press(t, m, "b")
	if m.status == "" {
		t.Error("expected an advisory after an invalid bank")
	}

	m = press(t, m, "?")
	if !m.help.ShowAll {
		t.Error("? should expand the help")
	}

	next, cmd := m.Update(keyMsg("q"))
	m = next.(Model)
	if cmd == nil || !m.quitting || m.View() != "" {
		t.Error("q should quit and clear the view")
	}
	if err := s.Roll(); err == nil {
		t.Error("session should be abandoned after quit")
	}
}

func TestModelShowsWinner(t *testing.T) {
	snap := game.Snapshot{
		GameID:         "tui-win",
		Target:         1000,
		EntryThreshold: 0,
		Round:          3,
		Players:        []game.PlayerView{{ID: "ann", Name: "Ann", BankedTotal: 900, HasEntered: true}},
	}
	s, err := game.Restore(snap, game.Options{
		Roller:    dice.NewScriptedRoller([]int{1, 2, 3, 4, 6, 6}),
		Scheduler: game.NewImmediateScheduler(),
	}, nil)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	m := NewModel(s, 80, 30)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	m = press(t, pump(t, m), "r")
	m = press(t, m, "b")

	if !s.IsOver() {
		t.Fatal("game should be over")
	}
	if view := m.View(); !strings.Contains(view, "Ann wins with 1000") {
		t.Errorf("winner missing from view:\n%s", view)
	}
}

func TestSeatUser(t *testing.T) {
	players := []config.PlayerConfig{
		{Name: "Dot", Bot: config.DifficultyExpert},
		{Name: "You"},
		{Name: "Friend"},
	}
	got := seatUser(players, "alice")
	if got[1].Name != "alice" || got[2].Name != "Friend" || got[0].Name != "Dot" {
		t.Errorf("seatUser = %+v", got)
	}
	if players[1].Name != "You" {
		t.Error("seatUser modified its input")
	}
	if same := seatUser(players, ""); same[1].Name != "You" {
		t.Error("empty user should keep names")
	}
}

type fakeScores struct {
	games []storage.GameSummary
	board []storage.LeaderEntry
	err   error
}

func (f fakeScores) RecentGames(context.Context, int) ([]storage.GameSummary, error) {
	return f.games, f.err
}

func (f fakeScores) Leaderboard(context.Context, int) ([]storage.LeaderEntry, error) {
	return f.board, f.err
}

func TestScoreboardViews(t *testing.T) {
	src := fakeScores{
		games: []storage.GameSummary{
			{ID: "3f2a9c1e-aaaa-bbbb-cccc-000000000000", Status: storage.StatusCompleted, Round: 14, Players: 2, Winner: "Ann", UpdatedAt: time.Now()},
			{ID: "short", Status: storage.StatusActive, Round: 2, Players: 3},
		},
		board: []storage.LeaderEntry{{Name: "Ann", Games: 4, Wins: 3, BestTotal: 10000}},
	}

	m := NewScoreboardModel(src, 100, 30)
	if m.view != viewLeaderboard || len(m.rows) != 1 {
		t.Fatalf("initial view = %v with %d rows", m.view, len(m.rows))
	}
	if m.rows[0][4] != "75%" {
		t.Errorf("win rate = %s, want 75%%", m.rows[0][4])
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.view != viewRecent || len(m.rows) != 2 {
		t.Fatalf("after tab: view = %v with %d rows", m.view, len(m.rows))
	}
	if m.rows[0][0] != "3f2a9c1e" || m.rows[1][4] != "-" {
		t.Errorf("recent rows = %v", m.rows)
	}
	if !strings.Contains(m.View(), "RECENT GAMES") {
		t.Error("title should name the view")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if next.(ScoreboardModel).view != viewLeaderboard {
		t.Error("tab should wrap around")
	}

	next, cmd := m.Update(keyMsg("q"))
	if cmd == nil || !next.(ScoreboardModel).IsQuitting() {
		t.Error("q should quit")
	}
}

func TestScoreboardEmptyAndError(t *testing.T) {
	m := NewScoreboardModel(fakeScores{}, 80, 24)
	if !strings.Contains(m.View(), "Nobody has won") {
		t.Errorf("empty leaderboard view:\n%s", m.View())
	}

	m = NewScoreboardModel(fakeScores{err: errors.New("locked")}, 80, 24)
	if !strings.Contains(m.View(), "locked") {
		t.Errorf("error view:\n%s", m.View())
	}

	m = NewScoreboardModel(nil, 80, 24)
	if len(m.rows) != 0 {
		t.Error("nil source should show no rows")
	}
}
