package eventloop

import (
	"context"
	"errors"
	"log"

	"screen-annotate/src/config"
	"screen-annotate/src/hotkey"
	"screen-annotate/src/schedule"
	"screen-annotate/src/session"
	"screen-annotate/src/singleinstance"
)

// Actions are the session entry points the loop triggers. They run on the
// UI thread.
type Actions interface {
	ShowLauncher() error
	CaptureFull() error
	CaptureRegion() error
}

// Loop is the single coordinator for hotkey presses and commands delegated
// by second launches. Everything it triggers is hopped onto the UI thread.
type Loop struct {
	actions  Actions
	dispatch schedule.Dispatcher
	hotkeyCh chan singleinstance.Command
}

// New creates a loop. dispatch is the UI-thread hop (fyne.Do).
func New(actions Actions, dispatch schedule.Dispatcher) *Loop {
	if dispatch == nil {
		dispatch = schedule.Immediate
	}
	return &Loop{
		actions:  actions,
		dispatch: dispatch,
		hotkeyCh: make(chan singleinstance.Command, 4),
	}
}

// StartHotkeys registers the configured global hotkeys and posts their
// presses into the loop. Combos set to "off" are skipped.
func (l *Loop) StartHotkeys(full, region string) (stop func(), err error) {
	var bindings []hotkey.Binding
	if config.HotkeyEnabled(full) {
		bindings = append(bindings, hotkey.Binding{Combo: full, OnPress: func() { l.Trigger(singleinstance.CommandFull) }})
	}
	if config.HotkeyEnabled(region) {
		bindings = append(bindings, hotkey.Binding{Combo: region, OnPress: func() { l.Trigger(singleinstance.CommandRegion) }})
	}
	if len(bindings) == 0 {
		log.Printf("eventloop: no hotkeys configured")
		return func() {}, nil
	}
	return hotkey.Listen(bindings)
}

// Trigger posts a command without blocking. Presses that arrive while the
// queue is full are dropped.
func (l *Loop) Trigger(cmd singleinstance.Command) {
	select {
	case l.hotkeyCh <- cmd:
	default:
		log.Printf("eventloop: %s dropped, queue full", cmd)
	}
}

// Run processes hotkey presses and, when srv is non-nil, delegated
// commands. It blocks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context, srv singleinstance.Server) error {
	var reqCh chan singleinstance.Conn
	if srv != nil {
		reqCh = make(chan singleinstance.Conn, 4)
		go func() {
			for {
				conn, err := srv.Next(ctx)
				if err != nil {
					close(reqCh)
					return
				}
				reqCh <- conn
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-l.hotkeyCh:
			if err := l.apply(ctx, cmd); err != nil {
				log.Printf("eventloop: hotkey %s: %v", cmd, err)
			}
		case conn, ok := <-reqCh:
			if !ok {
				return nil
			}
			l.handleConn(ctx, conn)
		}
	}
}

func (l *Loop) handleConn(ctx context.Context, conn singleinstance.Conn) {
	defer conn.Close()
	cmd := conn.Command()
	err := l.apply(ctx, cmd)
	switch {
	case err == nil:
		_ = conn.RespondOK()
	case errors.Is(err, session.ErrBusy):
		log.Printf("eventloop: %s rejected, busy", cmd)
		_ = conn.RespondError("busy")
	default:
		log.Printf("eventloop: %s failed: %v", cmd, err)
		_ = conn.RespondError(err.Error())
	}
}

// apply runs cmd on the UI thread and waits for its result.
func (l *Loop) apply(ctx context.Context, cmd singleinstance.Command) error {
	done := make(chan error, 1)
	l.dispatch(func() {
		switch cmd {
		case singleinstance.CommandShow:
			done <- l.actions.ShowLauncher()
		case singleinstance.CommandFull:
			done <- l.actions.CaptureFull()
		case singleinstance.CommandRegion:
			done <- l.actions.CaptureRegion()
		default:
			done <- errors.New("unsupported command " + string(cmd))
		}
	})
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
