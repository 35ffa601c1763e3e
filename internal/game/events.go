package game

import (
	"github.com/vovakirdan/tui-tenthousand/internal/dice"
	"github.com/vovakirdan/tui-tenthousand/internal/scoring"
	"github.com/vovakirdan/tui-tenthousand/internal/turn"
)

// EventType identifies a session event.
type EventType string

const (
	EventTurnStarted     EventType = "TurnStarted"
	EventDiceRolled      EventType = EventType(turn.EvtDiceRolled)
	EventHotDice         EventType = EventType(turn.EvtHotDice)
	EventSelectionScored EventType = EventType(turn.EvtSelectionScored)
	EventTurnLost        EventType = EventType(turn.EvtTurnLost)
	EventScoreExceeded   EventType = EventType(turn.EvtScoreExceeded)
	EventBanked          EventType = EventType(turn.EvtBanked)
	EventGameOver        EventType = EventType(turn.EvtGameOver)
	EventAdvisory        EventType = "Advisory"
	EventError           EventType = "Error"
)

// Event is what the presentation layer renders.
// Bot and human turns produce identical events for identical dice.
type Event struct {
	Seq       uint64
	Type      EventType
	PlayerID  string
	Player    string
	Round     int
	Dice      []dice.Die
	Points    int
	Category  scoring.Category
	TurnTotal int
	Total     int
	WinnerID  string // GameOver
	Message   string // Advisory, Error
	Retriable bool   // Error
}
