package dice

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
)

// ErrScriptExhausted is returned by ScriptedRoller when no scripted values remain.
var ErrScriptExhausted = errors.New("dice: scripted rolls exhausted")

// Roller produces face values for n dice.
// Implementations may fail; callers treat failures as retriable.
type Roller interface {
	Roll(n int) ([]int, error)
}

// RandRoller rolls dice from a seeded math/rand source.
// Identical seeds produce identical roll sequences.
type RandRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandRoller creates a roller seeded with seed.
func NewRandRoller(seed int64) *RandRoller {
	return &RandRoller{rng: rand.New(rand.NewSource(seed))}
}

// Roll returns n values in 1..Sides.
func (r *RandRoller) Roll(n int) ([]int, error) {
	if n < 1 || n > Count {
		return nil, fmt.Errorf("dice: cannot roll %d dice", n)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int, n)
	for i := range out {
		out[i] = r.rng.Intn(Sides) + 1
	}
	return out, nil
}

// ScriptedRoller replays a fixed sequence of rolls. Used for replays and tests.
// Each call consumes the next scripted roll; the count must match n.
type ScriptedRoller struct {
	mu    sync.Mutex
	rolls [][]int
	next  int
}

// NewScriptedRoller creates a roller that returns rolls in order.
func NewScriptedRoller(rolls ...[]int) *ScriptedRoller {
	return &ScriptedRoller{rolls: rolls}
}

// Roll returns the next scripted roll.
func (s *ScriptedRoller) Roll(n int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.rolls) {
		return nil, ErrScriptExhausted
	}
	roll := s.rolls[s.next]
	if len(roll) != n {
		return nil, fmt.Errorf("dice: scripted roll %d has %d values, want %d", s.next, len(roll), n)
	}
	s.next++

	out := make([]int, n)
	copy(out, roll)
	return out, nil
}

// Remaining returns how many scripted rolls are left.
func (s *ScriptedRoller) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rolls) - s.next
}
