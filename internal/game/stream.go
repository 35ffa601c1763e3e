package game

import "sync"

// DefaultBuffer is the event buffer used when Subscribe is given a size below 1.
const DefaultBuffer = 64

// Subscription receives session events on a buffered channel.
// Sends never block: when the buffer is full the oldest event is dropped.
type Subscription struct {
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

func newSubscription(buffer int) *Subscription {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &Subscription{
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
}

// Events returns the channel to receive events from.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Done returns a channel that closes when the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close ends the subscription. Safe to call multiple times.
func (s *Subscription) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

func (s *Subscription) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// send delivers evt, dropping the oldest buffered event if needed.
func (s *Subscription) send(evt Event) {
	if s.closed() {
		return
	}

	select {
	case s.events <- evt:
	default:
		// Buffer full, drop oldest and retry
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- evt:
		default:
		}
	}
}
