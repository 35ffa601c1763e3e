package game

import (
	"sync"
	"time"
)

// Scheduler runs deferred work. Delays belong to presentation only:
// the logical transition is the same whether fn runs now or later.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler runs work on its own goroutine after the delay.
type TimerScheduler struct{}

// NewTimerScheduler creates a wall-clock scheduler.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

// After runs fn once d has elapsed.
func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// ImmediateScheduler ignores delays and runs work synchronously.
// Work scheduled while a callback is running is queued and run by the
// outermost call, so long chains of bot actions never grow the stack.
type ImmediateScheduler struct {
	mu      sync.Mutex
	queue   []func()
	running bool
}

// NewImmediateScheduler creates a zero-delay scheduler.
func NewImmediateScheduler() *ImmediateScheduler {
	return &ImmediateScheduler{}
}

// After runs fn before returning, unless a drain is already in progress.
func (s *ImmediateScheduler) After(_ time.Duration, fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true

	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		next()
		s.mu.Lock()
	}
	s.running = false
	s.mu.Unlock()
}

// ManualScheduler holds work until the caller runs it.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []Pending
}

// Pending is a unit of work held by a ManualScheduler.
type Pending struct {
	Delay time.Duration
	Run   func()
}

// NewManualScheduler creates a scheduler driven by RunNext.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// After queues fn.
func (s *ManualScheduler) After(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, Pending{Delay: d, Run: fn})
}

// Len returns the number of queued callbacks.
func (s *ManualScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// RunNext runs the oldest queued callback. It reports false when none is queued.
func (s *ManualScheduler) RunNext() bool {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return false
	}
	next := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()

	next.Run()
	return true
}

// RunAll runs callbacks, including newly queued ones, until none remain.
// It returns how many ran.
func (s *ManualScheduler) RunAll() int {
	n := 0
	for s.RunNext() {
		n++
	}
	return n
}
