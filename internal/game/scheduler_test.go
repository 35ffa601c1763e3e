package game

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestImmediateSchedulerTrampolines(t *testing.T) {
	s := NewImmediateScheduler()
	var order []string

	s.After(time.Second, func() {
		order = append(order, "outer start")
		s.After(time.Second, func() { order = append(order, "inner") })
		order = append(order, "outer end")
	})

	want := []string{"outer start", "outer end", "inner"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("run order mismatch (-want +got):\n%s", diff)
	}
}

func TestImmediateSchedulerLongChain(t *testing.T) {
	s := NewImmediateScheduler()
	n := 0
	var step func()
	step = func() {
		n++
		if n < 100000 {
			s.After(0, step)
		}
	}
	s.After(0, step)
	if n != 100000 {
		t.Errorf("ran %d steps, want 100000", n)
	}
}

func TestManualScheduler(t *testing.T) {
	s := NewManualScheduler()
	ran := 0
	s.After(time.Millisecond, func() {
		ran++
		s.After(time.Millisecond, func() { ran++ })
	})

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if got := s.RunAll(); got != 2 {
		t.Errorf("RunAll() = %d, want 2", got)
	}
	if ran != 2 || s.RunNext() {
		t.Errorf("ran = %d, queue should be empty", ran)
	}
}

func TestTimerSchedulerRuns(t *testing.T) {
	done := make(chan struct{})
	NewTimerScheduler().After(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer callback never ran")
	}
}

func TestSubscriptionDropsOldest(t *testing.T) {
	sub := newSubscription(2)
	for i := uint64(1); i <= 3; i++ {
		sub.send(Event{Seq: i})
	}

	got := []uint64{(<-sub.Events()).Seq, (<-sub.Events()).Seq}
	if diff := cmp.Diff([]uint64{2, 3}, got); diff != "" {
		t.Errorf("buffered events mismatch (-want +got):\n%s", diff)
	}

	sub.Close()
	sub.Close()
	sub.send(Event{Seq: 4})
	select {
	case evt := <-sub.Events():
		t.Errorf("closed subscription received %+v", evt)
	default:
	}
}

func TestSubscribeDefaultBuffer(t *testing.T) {
	sub := newSubscription(0)
	if cap(sub.events) != DefaultBuffer {
		t.Errorf("buffer = %d, want %d", cap(sub.events), DefaultBuffer)
	}
}
