package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tenthousand/internal/dice"
	"github.com/vovakirdan/tui-tenthousand/internal/game"
)

// Shared palette, same codes as the scoreboard table.
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	winStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// dieStyles renders a die by state: plain, selected this roll, or held from an earlier roll.
var dieStyles = struct {
	plain, selected, locked lipgloss.Style
}{
	plain: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("7")).
		Padding(0, 1),
	selected: lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(lipgloss.Color("11")).
		Foreground(lipgloss.Color("11")).
		Bold(true).
		Padding(0, 1),
	locked: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Foreground(lipgloss.Color("245")).
		Faint(true).
		Padding(0, 1),
}

// renderDie draws one die with its ID underneath.
func renderDie(d dice.Die) string {
	style := dieStyles.plain
	switch {
	case d.Locked:
		style = dieStyles.locked
	case d.Selected:
		style = dieStyles.selected
	}
	face := style.Render(fmt.Sprintf("%d", d.Value))
	label := lipgloss.PlaceHorizontal(lipgloss.Width(face), lipgloss.Center, mutedStyle.Render(fmt.Sprintf("#%d", d.ID)))
	return lipgloss.JoinVertical(lipgloss.Left, face, label)
}

// renderDice draws the whole chain in ID order.
func renderDice(ds []dice.Die) string {
	if len(ds) == 0 {
		return mutedStyle.Render("(no dice on the table)")
	}
	parts := make([]string, 0, len(ds)*2)
	for i, d := range ds {
		if i > 0 {
			parts = append(parts, " ")
		}
		parts = append(parts, renderDie(d))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// describeEvent turns an event into a log line.
func describeEvent(evt game.Event) string {
	switch evt.Type {
	case game.EventTurnStarted:
		return fmt.Sprintf("Round %d: %s to play (total %d)", evt.Round, evt.Player, evt.Total)
	case game.EventDiceRolled:
		return fmt.Sprintf("%s rolled %s", evt.Player, diceValues(evt.Dice))
	case game.EventHotDice:
		return fmt.Sprintf("%s has hot dice! All six roll again", evt.Player)
	case game.EventSelectionScored:
		return fmt.Sprintf("%s scored %d with %s (turn %d)", evt.Player, evt.Points, evt.Category, evt.TurnTotal)
	case game.EventTurnLost:
		return fmt.Sprintf("%s rolled nothing and lost the turn", evt.Player)
	case game.EventScoreExceeded:
		return fmt.Sprintf("%s went past the target with %d, turn forfeited", evt.Player, evt.Total)
	case game.EventBanked:
		return fmt.Sprintf("%s banked %d, total %d", evt.Player, evt.Points, evt.Total)
	case game.EventGameOver:
		return fmt.Sprintf("%s wins with exactly %d!", evt.Player, evt.Total)
	case game.EventAdvisory:
		return evt.Message
	case game.EventError:
		if evt.Retriable {
			return fmt.Sprintf("%s (try again)", evt.Message)
		}
		return evt.Message
	default:
		return string(evt.Type)
	}
}

// eventStyle picks the log colour for an event.
func eventStyle(evt game.Event) lipgloss.Style {
	switch evt.Type {
	case game.EventError, game.EventTurnLost, game.EventScoreExceeded:
		return errorStyle
	case game.EventGameOver, game.EventBanked:
		return winStyle
	case game.EventHotDice, game.EventTurnStarted:
		return accentStyle
	case game.EventAdvisory:
		return mutedStyle
	default:
		return lipgloss.NewStyle()
	}
}

func diceValues(ds []dice.Die) string {
	vals := make([]string, 0, len(ds))
	for _, d := range ds {
		if d.Locked {
			continue
		}
		vals = append(vals, fmt.Sprintf("%d", d.Value))
	}
	return strings.Join(vals, " ")
}

// centerText centers text within width, measuring printable cells.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
