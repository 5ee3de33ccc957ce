package schedule

import (
	"sync"
	"testing"
	"time"
)

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

type fakeClock struct {
	now    time.Duration
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now += d
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			t.f()
		}
	}
}

// queue simulates the UI thread: dispatched callbacks wait until Drain.
type queue struct{ fns []func() }

func (q *queue) Dispatch(fn func()) { q.fns = append(q.fns, fn) }

func (q *queue) Drain() {
	fns := q.fns
	q.fns = nil
	for _, fn := range fns {
		fn()
	}
}

func TestTaskRunsOnceAfterDelay(t *testing.T) {
	clock := &fakeClock{}
	s := NewWithClock(clock, Immediate)
	runs := 0
	task := s.After("capture", 100*time.Millisecond, func() { runs++ })

	clock.Advance(99 * time.Millisecond)
	if runs != 0 {
		t.Fatal("task ran before its delay")
	}
	clock.Advance(time.Millisecond)
	if runs != 1 {
		t.Fatalf("expected one run, got %d", runs)
	}
	clock.Advance(time.Second)
	if runs != 1 {
		t.Fatalf("task ran again: %d", runs)
	}
	if task.Pending() {
		t.Fatal("finished task should not be pending")
	}
	if task.Cancel() {
		t.Fatal("cancel after run should report false")
	}
}

func TestCancelBeforeFire(t *testing.T) {
	clock := &fakeClock{}
	s := NewWithClock(clock, Immediate)
	ran := false
	task := s.After("toast", time.Second, func() { ran = true })
	if !task.Cancel() {
		t.Fatal("expected cancel to succeed")
	}
	clock.Advance(2 * time.Second)
	if ran {
		t.Fatal("cancelled task ran")
	}
}

func TestCancelBetweenFireAndDispatch(t *testing.T) {
	clock := &fakeClock{}
	q := &queue{}
	s := NewWithClock(clock, q.Dispatch)
	ran := false
	task := s.After("capture", 100*time.Millisecond, func() { ran = true })

	clock.Advance(100 * time.Millisecond)
	if len(q.fns) != 1 {
		t.Fatalf("expected one queued dispatch, got %d", len(q.fns))
	}
	if !task.Cancel() {
		t.Fatal("task should still be cancellable before the UI thread runs it")
	}
	q.Drain()
	if ran {
		t.Fatal("callback ran after cancel")
	}
}

func TestGroupCloseCancelsPending(t *testing.T) {
	clock := &fakeClock{}
	s := NewWithClock(clock, Immediate)
	g := s.NewGroup()

	var ran []string
	g.After("early", 10*time.Millisecond, func() { ran = append(ran, "early") })
	g.After("late", time.Second, func() { ran = append(ran, "late") })
	if got := g.Pending(); got != 2 {
		t.Fatalf("pending = %d, want 2", got)
	}

	clock.Advance(10 * time.Millisecond)
	if got := g.Pending(); got != 1 {
		t.Fatalf("pending after first run = %d, want 1", got)
	}

	g.Close()
	clock.Advance(time.Second)
	if len(ran) != 1 || ran[0] != "early" {
		t.Fatalf("ran = %v, want [early]", ran)
	}

	rejected := g.After("after-close", time.Millisecond, func() { ran = append(ran, "after-close") })
	if rejected.Pending() {
		t.Fatal("task scheduled on a closed group should not be pending")
	}
	clock.Advance(time.Second)
	if len(ran) != 1 {
		t.Fatalf("closed group ran a task: %v", ran)
	}
}

func TestRealClockDispatches(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	s := New(nil)
	s.After("real", time.Millisecond, wg.Done)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run on the wall clock")
	}
}
