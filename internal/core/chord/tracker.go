// Package chord detects "hold modifier, tap cycle key" gestures and decides
// when a cycled-to pane gets focus.
package chord

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/cyclepanes/internal/core/pane"
)

// State is the tracker state.
type State int

const (
	Idle State = iota
	ModifierHeld
	OverlayOpen
)

func (s State) String() string {
	switch s {
	case ModifierHeld:
		return "modifier-held"
	case OverlayOpen:
		return "overlay-open"
	default:
		return "idle"
	}
}

// Cycler resolves cycle targets.
type Cycler interface {
	Advance(ctx context.Context, dir pane.Direction) (pane.Pane, bool, error)
	Order(ctx context.Context) ([]pane.Pane, int, error)
}

// Focuser applies focus to a pane.
type Focuser interface {
	Focus(ctx context.Context, p pane.Pane) error
}

// Overlay is the chooser presenting the resolved cycle order.
type Overlay interface {
	Open(order []pane.Pane, selected int)
	Close()
}

// Options are the settings the tracker reads on every event.
type Options struct {
	FocusOnRelease bool // queue targets until the modifier is released
	ShowOverlay    bool // allow the chooser overlay
}

// Tracker is the key chord state machine. It is not safe for concurrent
// use; feed it events from one event loop.
type Tracker struct {
	cycler  Cycler
	focuser Focuser
	overlay Overlay
	options func() Options
	log     zerolog.Logger

	state        State
	pressedAt    time.Time
	modifierCode string
	queued       *pane.Pane
	onRelease    []func()
}

// New creates a Tracker. overlay may be nil when no chooser is available.
func New(cycler Cycler, focuser Focuser, overlay Overlay, options func() Options, log zerolog.Logger) *Tracker {
	return &Tracker{
		cycler:  cycler,
		focuser: focuser,
		overlay: overlay,
		options: options,
		log:     log,
	}
}

// SetOverlay replaces the chooser.
func (t *Tracker) SetOverlay(o Overlay) {
	t.overlay = o
}

// OnRelease registers fn to run when a gesture ends, by release or Cancel,
// before any queued target gets focus. The navigator uses it to drop the
// cached cycle order so the next gesture starts from fresh history.
func (t *Tracker) OnRelease(fn func()) {
	t.onRelease = append(t.onRelease, fn)
}

// State returns the current state.
func (t *Tracker) State() State { return t.state }

// Held reports whether the modifier is down.
func (t *Tracker) Held() bool { return t.state != Idle }

// PressedAt returns when the modifier went down, zero when idle.
func (t *Tracker) PressedAt() time.Time { return t.pressedAt }

// Queued returns the pane waiting for the modifier release.
func (t *Tracker) Queued() (pane.Pane, bool) {
	if t.queued == nil {
		return pane.Pane{}, false
	}
	return *t.queued, true
}

// ModifierDown starts a gesture. Any target queued by an earlier gesture is
// discarded. Auto-repeat of the held key is ignored; pressing a different
// modifier key restarts the gesture.
func (t *Tracker) ModifierDown(code string, at time.Time) {
	if t.state != Idle && code == t.modifierCode {
		return
	}
	if t.state == OverlayOpen && t.overlay != nil {
		t.overlay.Close()
	}
	t.state = ModifierHeld
	t.pressedAt = at
	t.modifierCode = code
	t.queued = nil
	t.log.Debug().Str("code", code).Msg("modifier down")
}

// Cycle handles a cycle key tap while the modifier is held. The target is
// queued when focus-on-release is configured and focused immediately
// otherwise. It is a no-op when idle.
func (t *Tracker) Cycle(ctx context.Context, dir pane.Direction) error {
	if t.state == Idle {
		return nil
	}

	target, ok, err := t.cycler.Advance(ctx, dir)
	if err != nil {
		return fmt.Errorf("cycle %s: %w", dir, err)
	}
	if !ok {
		return nil
	}

	if t.options().FocusOnRelease {
		t.Queue(target)
		return nil
	}
	return t.focuser.Focus(ctx, target)
}

// Queue stores p as the target applied on release. It only takes effect
// while the modifier is held.
func (t *Tracker) Queue(p pane.Pane) bool {
	if t.state == Idle {
		return false
	}
	t.queued = &p
	t.log.Debug().Str("pane", p.ID).Msg("queued focus target")
	return true
}

// OverlayKey opens the chooser when it is enabled, not already open and
// there is at least one candidate pane.
func (t *Tracker) OverlayKey(ctx context.Context) error {
	if t.state != ModifierHeld || t.overlay == nil || !t.options().ShowOverlay {
		return nil
	}

	order, index, err := t.cycler.Order(ctx)
	if err != nil {
		return fmt.Errorf("resolve overlay order: %w", err)
	}
	if len(order) == 0 {
		return nil
	}

	t.state = OverlayOpen
	t.overlay.Open(order, index)
	return nil
}

// ModifierUp ends the gesture when code matches the modifier that started
// it: the overlay closes and the queued target, if any, gets focus.
// Releases of other keys are ignored.
func (t *Tracker) ModifierUp(ctx context.Context, code string) error {
	if t.state == Idle || code != t.modifierCode {
		return nil
	}

	if t.state == OverlayOpen && t.overlay != nil {
		t.overlay.Close()
	}

	queued := t.queued
	t.reset()
	t.released()

	if queued == nil {
		return nil
	}
	t.log.Debug().Str("pane", queued.ID).Msg("applying queued focus target")
	return t.focuser.Focus(ctx, *queued)
}

// Cancel ends the gesture without applying the queued target.
func (t *Tracker) Cancel() {
	if t.state == OverlayOpen && t.overlay != nil {
		t.overlay.Close()
	}
	t.reset()
	t.released()
}

func (t *Tracker) reset() {
	t.state = Idle
	t.pressedAt = time.Time{}
	t.modifierCode = ""
	t.queued = nil
}

func (t *Tracker) released() {
	for _, fn := range t.onRelease {
		fn()
	}
}
