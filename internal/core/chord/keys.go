package chord

import (
	"context"
	"time"

	"github.com/hay-kot/cyclepanes/internal/core/pane"
)

// KeyKind distinguishes presses from releases.
type KeyKind int

const (
	KeyDown KeyKind = iota
	KeyUp
)

// KeyEvent is a raw keyboard event. Key is the logical key name ("ctrl",
// "tab"); Code identifies the physical key so left and right modifiers can
// be told apart.
type KeyEvent struct {
	Kind  KeyKind
	Key   string
	Code  string
	Shift bool
	At    time.Time
}

// Keymap names the keys that drive the tracker.
type Keymap struct {
	Modifier string // held key, e.g. "ctrl"
	Cycle    string // tapped while held; Shift reverses
	Overlay  string // released while held to open the chooser
}

// DefaultKeymap mirrors the classic ctrl+tab switcher: the chooser opens
// when tab is released with ctrl still down.
func DefaultKeymap() Keymap {
	return Keymap{Modifier: "ctrl", Cycle: "tab", Overlay: "tab"}
}

// HandleKey routes a raw key event. Events that match nothing leave the
// state unchanged.
func (t *Tracker) HandleKey(ctx context.Context, km Keymap, ev KeyEvent) error {
	switch ev.Kind {
	case KeyDown:
		switch {
		case ev.Key == km.Modifier:
			t.ModifierDown(ev.Code, ev.At)
		case ev.Key == km.Cycle && t.Held():
			dir := pane.Forward
			if ev.Shift {
				dir = pane.Backward
			}
			return t.Cycle(ctx, dir)
		}
	case KeyUp:
		switch {
		case t.Held() && ev.Code == t.modifierCode:
			return t.ModifierUp(ctx, ev.Code)
		case ev.Key == km.Overlay && t.state == ModifierHeld:
			return t.OverlayKey(ctx)
		}
	}
	return nil
}
