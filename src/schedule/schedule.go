// Package schedule runs one-shot delayed callbacks on the UI thread. Every
// task carries a cancellation handle, and a Group ties tasks to the lifetime
// of the window that scheduled them.
package schedule

import (
	"log"
	"sync"
	"time"
)

// Dispatcher runs fn on the UI thread. In the application this is fyne.Do.
type Dispatcher func(fn func())

// Immediate runs fn on the calling goroutine.
func Immediate(fn func()) { fn() }

// Timer is the part of *time.Timer the scheduler needs.
type Timer interface {
	Stop() bool
}

// Clock creates timers.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Scheduler creates tasks.
type Scheduler struct {
	clock    Clock
	dispatch Dispatcher
}

// New returns a scheduler on the wall clock. A nil dispatch runs callbacks
// on the timer goroutine.
func New(dispatch Dispatcher) *Scheduler {
	return NewWithClock(realClock{}, dispatch)
}

// NewWithClock is New with an explicit clock.
func NewWithClock(clock Clock, dispatch Dispatcher) *Scheduler {
	if clock == nil {
		clock = realClock{}
	}
	if dispatch == nil {
		dispatch = Immediate
	}
	return &Scheduler{clock: clock, dispatch: dispatch}
}

type taskState int

const (
	statePending taskState = iota
	stateCancelled
	stateDone
)

// Task is a scheduled callback.
type Task struct {
	name  string
	mu    sync.Mutex
	state taskState
	timer Timer
	done  func()
}

// After schedules fn to run once on the UI thread after d.
func (s *Scheduler) After(name string, d time.Duration, fn func()) *Task {
	t := &Task{name: name}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer = s.clock.AfterFunc(d, func() {
		s.dispatch(func() { t.run(fn) })
	})
	return t
}

func (t *Task) run(fn func()) {
	t.mu.Lock()
	if t.state != statePending {
		t.mu.Unlock()
		log.Printf("schedule: %s skipped, task no longer pending", t.name)
		return
	}
	t.state = stateDone
	done := t.done
	t.mu.Unlock()

	if done != nil {
		done()
	}
	fn()
}

// Cancel prevents the callback from running. It returns false when the task
// already ran or was already cancelled. A task whose timer fired but whose
// dispatch has not executed yet is still cancelled.
func (t *Task) Cancel() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	if t.state != statePending {
		t.mu.Unlock()
		return false
	}
	t.state = stateCancelled
	timer := t.timer
	done := t.done
	t.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if done != nil {
		done()
	}
	return true
}

// Pending reports whether the task has neither run nor been cancelled.
func (t *Task) Pending() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == statePending
}

// Group owns tasks on behalf of a window. Closing the group cancels every
// task that has not run yet.
type Group struct {
	s      *Scheduler
	mu     sync.Mutex
	tasks  map[*Task]struct{}
	closed bool
}

// NewGroup returns an empty group bound to s.
func (s *Scheduler) NewGroup() *Group {
	return &Group{s: s, tasks: make(map[*Task]struct{})}
}

// After schedules fn within the group. On a closed group the returned task
// is already cancelled.
func (g *Group) After(name string, d time.Duration, fn func()) *Task {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		log.Printf("schedule: %s rejected, owner already closed", name)
		return &Task{name: name, state: stateCancelled}
	}

	t := g.s.After(name, d, fn)
	t.mu.Lock()
	t.done = func() { g.forget(t) }
	pending := t.state == statePending
	t.mu.Unlock()
	if pending {
		g.tasks[t] = struct{}{}
	}
	return t
}

func (g *Group) forget(t *Task) {
	g.mu.Lock()
	delete(g.tasks, t)
	g.mu.Unlock()
}

// Pending returns the number of tasks that may still run.
func (g *Group) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tasks)
}

// Close cancels all pending tasks and rejects new ones.
func (g *Group) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	tasks := make([]*Task, 0, len(g.tasks))
	for t := range g.tasks {
		tasks = append(tasks, t)
	}
	g.mu.Unlock()

	for _, t := range tasks {
		t.Cancel()
	}
}
