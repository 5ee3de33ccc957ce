// Package session owns the capture workflow: which of launcher, selector and
// editor is active, the delayed grab, and what happens after save or cancel.
//
// Every method must be called on the UI thread.
package session

import (
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"screen-annotate/src/logutil"
	"screen-annotate/src/schedule"
	"screen-annotate/src/screenshot"
	"screen-annotate/src/selection"
)

var (
	ErrBusy = errors.New("busy")
	ErrQuit = errors.New("application is shutting down")
)

// Phase is the single active surface of the application.
type Phase int

const (
	PhaseTray Phase = iota
	PhaseLauncher
	PhaseCapturing
	PhaseSelecting
	PhaseEditing
	PhaseQuit
)

func (p Phase) String() string {
	switch p {
	case PhaseLauncher:
		return "launcher"
	case PhaseCapturing:
		return "capturing"
	case PhaseSelecting:
		return "selecting"
	case PhaseEditing:
		return "editing"
	case PhaseQuit:
		return "quit"
	default:
		return "tray"
	}
}

// Kind is the capture flavour.
type Kind int

const (
	KindFull Kind = iota
	KindRegion
)

func (k Kind) String() string {
	if k == KindRegion {
		return "region"
	}
	return "full"
}

// Launcher is the floating panel.
type Launcher interface {
	Show()
	Hide()
}

// Window is an open selector or editor. Close must not report back through
// the window's done callback.
type Window interface {
	Close()
}

// EditorOutcome is what the editor reports when the user saves or cancels.
type EditorOutcome struct {
	Saved bool
	Image image.Image
}

// Views are the windows the session drives. The GUI implements them.
type Views interface {
	Launcher() Launcher
	// OpenSelector shows the region selector over frame. onDone is called
	// once, with the selector already closed.
	OpenSelector(frame *image.RGBA, onDone func(selection.Result)) Window
	// OpenEditor shows the editor. The editor closes itself when onDone
	// returns nil; a non-nil error keeps it open.
	OpenEditor(img *image.RGBA, onDone func(EditorOutcome) error) Window
	ShowToast(msg string, d time.Duration)
	Notify(title, msg string)
}

// Saver persists the annotated image.
type Saver interface {
	Save(img image.Image) (string, error)
}

type Options struct {
	// CaptureDelay is the wait between hiding the launcher and grabbing.
	CaptureDelay  time.Duration
	ToastDuration time.Duration
	// CopyToClipboard, when set, receives the PNG bytes of every saved image.
	CopyToClipboard func(png []byte) error
	// OnPhase is told about every phase change.
	OnPhase func(Phase)
	OnQuit  func()
}

type Session struct {
	views   Views
	grabber screenshot.Grabber
	sched   *schedule.Scheduler
	store   Saver
	opts    Options

	phase Phase
	// returnToLauncher records whether the launcher was visible when the
	// current capture started.
	returnToLauncher bool
	tasks            *schedule.Group
	selector         Window
	editor           Window
}

func New(views Views, grabber screenshot.Grabber, sched *schedule.Scheduler, store Saver, opts Options) *Session {
	if opts.CaptureDelay <= 0 {
		opts.CaptureDelay = 100 * time.Millisecond
	}
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = 1500 * time.Millisecond
	}
	return &Session{views: views, grabber: grabber, sched: sched, store: store, opts: opts}
}

func (s *Session) Phase() Phase { return s.phase }

// Busy reports whether a capture, selection or edit is in progress.
func (s *Session) Busy() bool {
	switch s.phase {
	case PhaseCapturing, PhaseSelecting, PhaseEditing:
		return true
	}
	return false
}

func (s *Session) setPhase(p Phase) {
	if s.phase == p {
		return
	}
	log.Printf("session: %s -> %s", s.phase, p)
	s.phase = p
	if s.opts.OnPhase != nil {
		s.opts.OnPhase(p)
	}
}

func (s *Session) ShowLauncher() error {
	switch {
	case s.phase == PhaseQuit:
		return ErrQuit
	case s.Busy():
		log.Printf("session: show launcher ignored while %s", s.phase)
		return ErrBusy
	}
	s.views.Launcher().Show()
	s.setPhase(PhaseLauncher)
	return nil
}

// HideLauncher sends the launcher to the tray.
func (s *Session) HideLauncher() {
	if s.phase != PhaseLauncher {
		return
	}
	s.views.Launcher().Hide()
	s.setPhase(PhaseTray)
}

func (s *Session) CaptureFull() error { return s.capture(KindFull) }

func (s *Session) CaptureRegion() error { return s.capture(KindRegion) }

func (s *Session) capture(kind Kind) error {
	switch {
	case s.phase == PhaseQuit:
		return ErrQuit
	case s.Busy():
		log.Printf("session: %s capture rejected while %s", kind, s.phase)
		return ErrBusy
	}

	s.returnToLauncher = s.phase == PhaseLauncher
	s.views.Launcher().Hide()
	s.setPhase(PhaseCapturing)

	s.tasks = s.sched.NewGroup()
	s.tasks.After("capture-"+kind.String(), s.opts.CaptureDelay, func() { s.grab(kind) })
	return nil
}

func (s *Session) grab(kind Kind) {
	if s.phase != PhaseCapturing {
		return
	}
	frame, err := s.grabber.Full()
	if err != nil {
		log.Printf("session: grab failed: %v", err)
		s.views.Notify("Capture failed", err.Error())
		s.finish()
		return
	}

	switch kind {
	case KindRegion:
		s.setPhase(PhaseSelecting)
		s.selector = s.views.OpenSelector(frame, func(res selection.Result) {
			s.onSelection(frame, res)
		})
	default:
		s.openEditor(frame)
	}
}

func (s *Session) onSelection(frame *image.RGBA, res selection.Result) {
	if s.phase != PhaseSelecting {
		return
	}
	s.selector = nil
	if res.Outcome != selection.Selected {
		log.Printf("session: region selection %s", res.Outcome)
		s.finish()
		return
	}

	// The frame is the screen as it was before the overlay appeared, so the
	// region is cut from it instead of grabbing the overlay.
	img, err := screenshot.Crop(frame, res.Rect)
	if err != nil {
		log.Printf("session: crop %s failed: %v", res.Rect, err)
		s.views.Notify("Capture failed", err.Error())
		s.finish()
		return
	}
	s.openEditor(img)
}

func (s *Session) openEditor(img *image.RGBA) {
	s.setPhase(PhaseEditing)
	s.editor = s.views.OpenEditor(img, s.onEditorDone)
}

func (s *Session) onEditorDone(out EditorOutcome) error {
	if s.phase != PhaseEditing {
		return nil
	}
	if !out.Saved {
		log.Printf("session: editor cancelled")
		s.editor = nil
		s.finish()
		return nil
	}

	path, err := s.store.Save(out.Image)
	if err != nil {
		log.Printf("session: save failed: %v", err)
		s.views.ShowToast(fmt.Sprintf("✗ Save failed:\n%v", err), s.opts.ToastDuration)
		return err
	}

	if s.opts.CopyToClipboard != nil {
		s.copyToClipboard(out.Image)
	}
	s.views.ShowToast("✓ Saved to:\n"+path, s.opts.ToastDuration)
	log.Printf("session: saved %s", logutil.Sanitize(path))

	s.editor = nil
	s.finish()
	return nil
}

func (s *Session) copyToClipboard(img image.Image) {
	data, err := screenshot.EncodePNG(img)
	if err == nil {
		err = s.opts.CopyToClipboard(data)
	}
	if err != nil {
		log.Printf("session: clipboard copy failed: %v", err)
	}
}

// finish ends the current capture and goes back to where it started.
func (s *Session) finish() {
	if s.tasks != nil {
		s.tasks.Close()
		s.tasks = nil
	}
	if s.returnToLauncher {
		s.views.Launcher().Show()
		s.setPhase(PhaseLauncher)
	} else {
		s.setPhase(PhaseTray)
	}
	s.returnToLauncher = false
}

// Quit cancels pending work, closes every window and calls OnQuit once.
func (s *Session) Quit() {
	if s.phase == PhaseQuit {
		return
	}
	if s.tasks != nil {
		s.tasks.Close()
		s.tasks = nil
	}
	if s.selector != nil {
		s.selector.Close()
		s.selector = nil
	}
	if s.editor != nil {
		s.editor.Close()
		s.editor = nil
	}
	s.views.Launcher().Hide()
	s.setPhase(PhaseQuit)
	if s.opts.OnQuit != nil {
		s.opts.OnQuit()
	}
}
