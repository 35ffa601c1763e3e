// Package game runs a full game of 10,000: player order, rounds, banked
// totals and the hand-off between human and bot turns.
//
// A Session is the single owner of the turn in progress. Every transition,
// whether a human intent or a scheduled bot step, runs under one mutex and
// goes through turn.Apply. Delayed work is handed to a Scheduler outside the
// lock and carries the transition token it was scheduled under; work whose
// token is stale when it fires is dropped.
package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-tenthousand/internal/bot"
	"github.com/vovakirdan/tui-tenthousand/internal/config"
	"github.com/vovakirdan/tui-tenthousand/internal/dice"
	"github.com/vovakirdan/tui-tenthousand/internal/turn"
)

// ErrTransient marks a failure that leaves the state unchanged and can be retried.
var ErrTransient = errors.New("game: transient failure")

// maxBotRetries bounds how often a bot retries a failed roll before it
// forfeits the turn.
const maxBotRetries = 3

// Options configures a Session. Zero values get working defaults.
type Options struct {
	ID         string
	Rules      turn.Rules
	RollDelay  time.Duration
	ThinkDelay time.Duration
	Roller     dice.Roller
	Scheduler  Scheduler
	Recorder   Recorder
	Logger     *log.Logger
}

// Seat describes one player. A nil Policy means a human.
type Seat struct {
	ID         string
	Name       string
	Difficulty config.Difficulty
	Policy     bot.Policy
}

// PolicyFunc resolves the policy for a bot seat when restoring a game.
type PolicyFunc func(d config.Difficulty) (bot.Policy, error)

type player struct {
	id         string
	name       string
	difficulty config.Difficulty
	policy     bot.Policy
	banked     int
	entered    bool
}

func (p *player) isBot() bool {
	return p.policy != nil
}

func (p *player) view() PlayerView {
	return PlayerView{
		ID:          p.id,
		Name:        p.name,
		IsBot:       p.isBot(),
		Difficulty:  p.difficulty,
		BankedTotal: p.banked,
		HasEntered:  p.entered,
	}
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

// Session is one game of 10,000.
type Session struct {
	mu sync.Mutex

	id         string
	rules      turn.Rules
	rollDelay  time.Duration
	thinkDelay time.Duration
	roller     dice.Roller
	sched      Scheduler
	rec        Recorder
	log        *log.Logger

	players []*player
	current int
	round   int
	state   turn.State

	started   bool
	restored  bool
	over      bool
	abandoned bool
	winnerID  string

	token    uint64 // Bumped on every transition
	seq      uint64 // Event sequence
	retries  int
	stalls   int        // Consecutive turns forfeited without a resolved roll
	rollFrom turn.State // State before the roll awaiting resolution

	pending []scheduled
	subs    []*Subscription
}

// NewSession creates a game for the given seats. Play begins with Start.
func NewSession(opts Options, seats []Seat) (*Session, error) {
	if len(seats) == 0 {
		return nil, errors.New("game: at least one seat is required")
	}
	if len(seats) > config.MaxPlayers {
		return nil, fmt.Errorf("game: at most %d seats, got %d", config.MaxPlayers, len(seats))
	}

	rules := opts.Rules
	if rules == (turn.Rules{}) {
		rules = turn.DefaultRules()
	}
	if rules.Target <= 0 || rules.EntryThreshold < 0 || rules.EntryThreshold >= rules.Target {
		return nil, fmt.Errorf("game: invalid rules: target %d, entry %d", rules.Target, rules.EntryThreshold)
	}

	s := &Session{
		id:         opts.ID,
		rules:      rules,
		rollDelay:  opts.RollDelay,
		thinkDelay: opts.ThinkDelay,
		roller:     opts.Roller,
		sched:      opts.Scheduler,
		rec:        opts.Recorder,
		log:        opts.Logger,
		round:      1,
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.roller == nil {
		s.roller = dice.NewRandRoller(time.Now().UnixNano())
	}
	if s.sched == nil {
		s.sched = NewTimerScheduler()
	}
	if s.rec == nil {
		s.rec = NopRecorder{}
	}
	if s.log == nil {
		s.log = log.New(io.Discard)
	}

	seen := make(map[string]bool, len(seats))
	for i, seat := range seats {
		if seat.Name == "" {
			return nil, fmt.Errorf("game: seat %d has no name", i+1)
		}
		id := seat.ID
		if id == "" {
			id = uuid.NewString()
		}
		if seen[id] {
			return nil, fmt.Errorf("game: duplicate player id %q", id)
		}
		seen[id] = true
		s.players = append(s.players, &player{
			id:         id,
			name:       seat.Name,
			difficulty: seat.Difficulty,
			policy:     seat.Policy,
		})
	}
	s.state = turn.NewState(rules, 0, false)
	return s, nil
}

// Restore rebuilds a session from a snapshot taken between turns.
// The current player starts a fresh turn once Start is called.
func Restore(snap Snapshot, opts Options, policyFor PolicyFunc) (*Session, error) {
	if snap.Over {
		return nil, fmt.Errorf("game: game %s is already over", snap.GameID)
	}
	if snap.CurrentIndex < 0 || snap.CurrentIndex >= len(snap.Players) {
		return nil, fmt.Errorf("game: current index %d out of range", snap.CurrentIndex)
	}

	seats := make([]Seat, 0, len(snap.Players))
	for _, p := range snap.Players {
		seat := Seat{ID: p.ID, Name: p.Name, Difficulty: p.Difficulty}
		if p.IsBot {
			if policyFor == nil {
				return nil, fmt.Errorf("game: no policy for bot %q", p.Name)
			}
			pol, err := policyFor(p.Difficulty)
			if err != nil {
				return nil, fmt.Errorf("game: restore %q: %w", p.Name, err)
			}
			seat.Policy = pol
		}
		seats = append(seats, seat)
	}

	opts.ID = snap.GameID
	opts.Rules = turn.Rules{Target: snap.Target, EntryThreshold: snap.EntryThreshold}
	s, err := NewSession(opts, seats)
	if err != nil {
		return nil, err
	}

	for i, p := range snap.Players {
		s.players[i].banked = p.BankedTotal
		s.players[i].entered = p.HasEntered
	}
	s.current = snap.CurrentIndex
	if snap.Round > 0 {
		s.round = snap.Round
	}
	s.restored = true
	return s, nil
}

// ID returns the game identifier.
func (s *Session) ID() string {
	return s.id
}

// Subscribe returns a new event subscription.
func (s *Session) Subscribe(buffer int) *Subscription {
	sub := newSubscription(buffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
	return sub
}

// Start begins the first turn.
func (s *Session) Start() error {
	return s.do(func() error {
		if s.abandoned {
			return s.fail(advisory("the game was abandoned"))
		}
		if s.started {
			return s.fail(advisory("the game has already started"))
		}
		s.started = true
		if !s.restored {
			s.record("create game", s.rec.CreateGame(context.Background(), s.snapshot()))
		}
		s.log.Info("game started", "game", s.id, "players", len(s.players), "target", s.rules.Target)
		s.beginTurn()
		return nil
	})
}

// Roll throws the dice for the human whose turn it is.
func (s *Session) Roll() error {
	return s.do(func() error {
		if err := s.humanTurn(); err != nil {
			return err
		}
		return s.roll()
	})
}

// SelectDie adds a die to the current selection.
func (s *Session) SelectDie(id int) error {
	return s.do(func() error {
		if err := s.humanTurn(); err != nil {
			return err
		}
		if err := s.apply(turn.SelectDie{ID: id}); err != nil {
			return s.fail(err)
		}
		s.settle()
		return nil
	})
}

// Bank commits the turn total.
func (s *Session) Bank() error {
	return s.do(func() error {
		if err := s.humanTurn(); err != nil {
			return err
		}
		if err := s.apply(turn.Bank{}); err != nil {
			return s.fail(err)
		}
		s.settle()
		return nil
	})
}

// AcknowledgeNextPlayer passes a resolved turn to the next player.
func (s *Session) AcknowledgeNextPlayer() error {
	return s.do(func() error {
		if err := s.humanTurn(); err != nil {
			return err
		}
		if !s.state.Phase.Resolved() {
			return s.fail(advisory("the turn is still in progress"))
		}
		s.advance()
		return nil
	})
}

// Abandon ends the game. The turn in progress is discarded, nothing more is
// persisted, and already scheduled work is dropped when it fires.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.abandoned {
		return
	}
	s.abandoned = true
	s.token++
	s.pending = nil
	s.state = turn.NewState(s.rules, 0, false)
	s.log.Info("game abandoned", "game", s.id, "round", s.round)

	for _, sub := range s.subs {
		sub.Close()
	}
	s.subs = nil
}

// CurrentPlayer returns the player whose turn it is.
func (s *Session) CurrentPlayer() PlayerView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players[s.current].view()
}

// Players returns every seat in play order.
func (s *Session) Players() []PlayerView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerViews()
}

// Round returns the current round, starting at 1.
func (s *Session) Round() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

// Turn returns a copy of the turn in progress.
func (s *Session) Turn() turn.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// IsOver reports whether a player has won.
func (s *Session) IsOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}

// Winner returns the winning player once the game is over.
func (s *Session) Winner() (PlayerView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.over {
		return PlayerView{}, false
	}
	for _, p := range s.players {
		if p.id == s.winnerID {
			return p.view(), true
		}
	}
	return PlayerView{}, false
}

// Snapshot returns the persisted view of the game.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// do runs fn under the lock, then hands scheduled work to the scheduler.
func (s *Session) do(fn func() error) error {
	s.mu.Lock()
	err := fn()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, p := range pending {
		s.sched.After(p.delay, p.fn)
	}
	return err
}

// schedule queues step to run after d, guarded by the current token.
func (s *Session) schedule(d time.Duration, step func()) {
	tok := s.token
	s.pending = append(s.pending, scheduled{delay: d, fn: func() {
		_ = s.do(func() error {
			if s.abandoned || s.token != tok {
				s.log.Debug("dropping stale work", "game", s.id, "token", tok, "current", s.token)
				return nil
			}
			step()
			return nil
		})
	}})
}

func (s *Session) humanTurn() error {
	switch {
	case s.abandoned:
		return s.fail(advisory("the game was abandoned"))
	case !s.started:
		return s.fail(advisory("the game has not started"))
	case s.over:
		return s.fail(advisory("the game is over"))
	}
	if p := s.players[s.current]; p.isBot() {
		return s.fail(advisory("waiting for %s", p.name))
	}
	return nil
}

func (s *Session) beginTurn() {
	p := s.players[s.current]
	s.state = turn.NewState(s.rules, p.banked, p.entered)
	s.token++
	s.retries = 0
	s.log.Debug("turn started", "game", s.id, "player", p.name, "round", s.round, "banked", p.banked)
	s.emit(Event{Type: EventTurnStarted, Total: p.banked})

	if p.isBot() {
		s.schedule(s.thinkDelay, s.botStep)
	}
}

// advance passes the turn on. The hand-off was persisted when the turn resolved.
func (s *Session) advance() {
	s.current, s.round = s.nextSeat()
	s.beginTurn()
}

func (s *Session) nextSeat() (current, round int) {
	current = (s.current + 1) % len(s.players)
	round = s.round
	if current == 0 {
		round++
	}
	return current, round
}

// roll asks the roller for values and applies them. Resolution follows
// after the roll delay.
func (s *Session) roll() error {
	if !s.state.Phase.CanRoll() {
		return s.fail(advisory("cannot roll while %s", s.state.Phase))
	}

	values, err := s.roller.Roll(s.state.DiceToRoll())
	if err != nil {
		return s.fail(fmt.Errorf("%w: %w", ErrTransient, err))
	}
	prev := s.state
	if err := s.apply(turn.Roll{Values: values}); err != nil {
		return s.fail(err)
	}
	s.rollFrom = prev
	s.schedule(s.rollDelay, s.resolve)
	return nil
}

// resolve scores the pending roll. If the reducer refuses, the turn goes
// back to where it was before the roll so it can be rolled again.
func (s *Session) resolve() {
	if err := s.apply(turn.Resolve{}); err != nil {
		p := s.players[s.current]
		s.state = s.rollFrom
		s.token++
		s.log.Error("cannot resolve roll, rolling back", "game", s.id, "player", p.name, "err", err)
		s.emit(Event{Type: EventError, Message: err.Error(), Retriable: true})
		if p.isBot() {
			s.botFailed(err)
		}
		return
	}
	s.retries = 0
	s.stalls = 0
	s.settle()
}

// apply runs one reducer step for the current player and publishes its events.
func (s *Session) apply(a turn.Action) error {
	next, events, err := turn.Apply(s.state, a)
	if err != nil {
		return err
	}

	p := s.players[s.current]
	s.state = next
	s.token++
	s.log.Debug("transition", "game", s.id, "player", p.name, "action", fmt.Sprintf("%T", a), "phase", next.Phase)

	for _, e := range events {
		evt := Event{
			Type:      EventType(e.Type),
			Dice:      e.Dice,
			Points:    e.Points,
			Category:  e.Category,
			TurnTotal: e.TurnTotal,
			Total:     e.Total,
		}
		if e.Type == turn.EvtGameOver {
			evt.WinnerID = p.id
		}
		s.emit(evt)
	}
	return nil
}

// settle updates the player record after a transition and queues the next
// bot step when a bot holds the turn.
func (s *Session) settle() {
	p := s.players[s.current]
	st := s.state
	ctx := context.Background()

	switch {
	case st.Phase == turn.PhaseGameOver:
		p.banked = st.BankedTotal
		p.entered = true
		s.over = true
		s.winnerID = p.id
		s.record("save score", s.rec.SaveScore(ctx, s.id, p.id, s.round, st.TurnTotal(), p.banked))
		s.record("complete game", s.rec.CompleteGame(ctx, s.id, p.id))
		s.log.Info("game over", "game", s.id, "winner", p.name, "round", s.round)
		return

	case st.Phase.Resolved():
		turnScore := 0
		if st.Phase == turn.PhaseBanked {
			turnScore = st.TurnTotal()
		}
		p.banked = st.BankedTotal
		p.entered = st.HasEntered
		s.record("save score", s.rec.SaveScore(ctx, s.id, p.id, s.round, turnScore, p.banked))
		next, round := s.nextSeat()
		s.record("save progress", s.rec.SaveProgress(ctx, s.id, round, next))
	}

	if p.isBot() {
		if st.Phase.Resolved() && s.stalls >= len(s.players) {
			s.log.Error("no roll resolved for a full round, game stalled", "game", s.id, "round", s.round)
			return
		}
		s.schedule(s.thinkDelay, s.botStep)
	}
}

// botStep takes one action on behalf of the bot holding the turn.
func (s *Session) botStep() {
	if s.over {
		return
	}
	p := s.players[s.current]
	if !p.isBot() {
		return
	}

	switch st := s.state; {
	case st.Phase.Resolved():
		s.advance()
	case st.Phase == turn.PhaseAwaitingRoll:
		s.botRoll()
	case st.Phase.CanBank():
		d := p.policy.Decide(s.viewFor(p))
		s.log.Debug("bot decision", "game", s.id, "player", p.name, "decision", d, "turn", st.TurnTotal())
		if d == bot.DecisionBank {
			err := s.apply(turn.Bank{})
			if err == nil {
				s.settle()
				return
			}
			if !errors.Is(err, turn.ErrInvalidAction) {
				s.fail(err)
				return
			}
			s.log.Warn("bot bank refused, rolling", "game", s.id, "player", p.name, "reason", err)
		}
		s.botRoll()
	}
}

func (s *Session) botRoll() {
	if err := s.roll(); err != nil && retriable(err) {
		s.botFailed(err)
	}
}

// botFailed retries the bot's roll, then forfeits the turn so play moves on.
func (s *Session) botFailed(err error) {
	if s.retries < maxBotRetries {
		s.retries++
		s.schedule(s.thinkDelay, s.botStep)
		return
	}
	s.stalls++
	s.log.Error("bot cannot roll, forfeiting turn", "game", s.id, "player", s.players[s.current].name, "err", err)
	if ferr := s.apply(turn.Forfeit{}); ferr != nil {
		s.fail(ferr)
		return
	}
	s.settle()
}

func (s *Session) viewFor(p *player) bot.View {
	leader := 0
	for _, other := range s.players {
		if other != p && other.banked > leader {
			leader = other.banked
		}
	}
	return bot.View{
		TurnTotal:      s.state.TurnTotal(),
		BankedTotal:    p.banked,
		HasEntered:     p.entered,
		DiceToRoll:     s.state.DiceToRoll(),
		Target:         s.rules.Target,
		EntryThreshold: s.rules.EntryThreshold,
		LeaderTotal:    leader,
	}
}

// fail publishes err as an Advisory or Error event and returns it.
func (s *Session) fail(err error) error {
	var iae *turn.InvalidActionError
	switch {
	case errors.As(err, &iae):
		s.emit(Event{Type: EventAdvisory, Message: iae.Reason})
	case retriable(err):
		s.log.Warn("roll failed", "game", s.id, "err", err)
		s.emit(Event{Type: EventError, Message: err.Error(), Retriable: true})
	default:
		s.log.Error("invariant violation", "game", s.id, "phase", s.state.Phase, "err", err)
		s.emit(Event{Type: EventError, Message: err.Error()})
	}
	return err
}

func retriable(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, turn.ErrRollRejected)
}

func advisory(format string, args ...any) error {
	return &turn.InvalidActionError{Reason: fmt.Sprintf(format, args...)}
}

// emit stamps evt and delivers it to every live subscription.
func (s *Session) emit(evt Event) {
	p := s.players[s.current]
	s.seq++
	evt.Seq = s.seq
	evt.PlayerID = p.id
	evt.Player = p.name
	evt.Round = s.round

	live := s.subs[:0]
	for _, sub := range s.subs {
		if sub.closed() {
			continue
		}
		sub.send(evt)
		live = append(live, sub)
	}
	s.subs = live
}

func (s *Session) record(op string, err error) {
	if err != nil {
		s.log.Warn("persistence failed", "game", s.id, "op", op, "err", err)
	}
}

func (s *Session) playerViews() []PlayerView {
	out := make([]PlayerView, len(s.players))
	for i, p := range s.players {
		out[i] = p.view()
	}
	return out
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		GameID:         s.id,
		Target:         s.rules.Target,
		EntryThreshold: s.rules.EntryThreshold,
		Round:          s.round,
		CurrentIndex:   s.current,
		WinnerID:       s.winnerID,
		Over:           s.over,
		Players:        s.playerViews(),
	}
}
