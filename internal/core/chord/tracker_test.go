package chord

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/cyclepanes/internal/core/pane"
)

type fakeCycler struct {
	order []pane.Pane
	index int
	err   error
}

func (c *fakeCycler) Advance(_ context.Context, dir pane.Direction) (pane.Pane, bool, error) {
	if c.err != nil {
		return pane.Pane{}, false, c.err
	}
	next, ok := dir.Step(c.index, len(c.order))
	if !ok {
		return pane.Pane{}, false, nil
	}
	c.index = next
	return c.order[next], true, nil
}

func (c *fakeCycler) Order(_ context.Context) ([]pane.Pane, int, error) {
	return c.order, c.index, c.err
}

type fakeFocuser struct {
	focused []string
}

func (f *fakeFocuser) Focus(_ context.Context, p pane.Pane) error {
	f.focused = append(f.focused, p.ID)
	return nil
}

type fakeOverlay struct {
	open     bool
	opened   int
	selected int
	order    []pane.Pane
}

func (o *fakeOverlay) Open(order []pane.Pane, selected int) {
	o.open = true
	o.opened++
	o.order = order
	o.selected = selected
}

func (o *fakeOverlay) Close() { o.open = false }

type fixture struct {
	tracker *Tracker
	cycler  *fakeCycler
	focuser *fakeFocuser
	overlay *fakeOverlay
	opts    *Options
}

func newFixture(opts Options) *fixture {
	f := &fixture{
		cycler: &fakeCycler{order: []pane.Pane{
			{ID: "%a"}, {ID: "%b"}, {ID: "%c"},
		}},
		focuser: &fakeFocuser{},
		overlay: &fakeOverlay{},
		opts:    &opts,
	}
	f.tracker = New(f.cycler, f.focuser, f.overlay, func() Options { return *f.opts }, zerolog.Nop())
	return f
}

var t0 = time.Unix(1_700_000_000, 0)

func down(key, code string) KeyEvent { return KeyEvent{Kind: KeyDown, Key: key, Code: code, At: t0} }
func up(key, code string) KeyEvent   { return KeyEvent{Kind: KeyUp, Key: key, Code: code, At: t0} }

func TestTracker_QueuedUntilRelease(t *testing.T) {
	ctx := context.Background()
	f := newFixture(Options{FocusOnRelease: true})
	km := DefaultKeymap()

	require.NoError(t, f.tracker.HandleKey(ctx, km, down("ctrl", "ControlLeft")))
	assert.Equal(t, ModifierHeld, f.tracker.State())
	assert.Equal(t, t0, f.tracker.PressedAt())

	require.NoError(t, f.tracker.HandleKey(ctx, km, down("tab", "Tab")))
	queued, ok := f.tracker.Queued()
	require.True(t, ok)
	assert.Equal(t, "%b", queued.ID)
	assert.Empty(t, f.focuser.focused, "no focus change while held")

	require.NoError(t, f.tracker.HandleKey(ctx, km, down("tab", "Tab")))
	queued, _ = f.tracker.Queued()
	assert.Equal(t, "%c", queued.ID)

	require.NoError(t, f.tracker.HandleKey(ctx, km, up("ctrl", "ControlLeft")))
	assert.Equal(t, []string{"%c"}, f.focuser.focused)
	assert.Equal(t, Idle, f.tracker.State())
	assert.True(t, f.tracker.PressedAt().IsZero())
	_, ok = f.tracker.Queued()
	assert.False(t, ok)
}

func TestTracker_ImmediateFocus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(Options{FocusOnRelease: false})
	km := DefaultKeymap()

	_ = f.tracker.HandleKey(ctx, km, down("ctrl", "ControlLeft"))
	_ = f.tracker.HandleKey(ctx, km, down("tab", "Tab"))

	assert.Equal(t, []string{"%b"}, f.focuser.focused)
	_, ok := f.tracker.Queued()
	assert.False(t, ok)

	_ = f.tracker.HandleKey(ctx, km, up("ctrl", "ControlLeft"))
	assert.Equal(t, []string{"%b"}, f.focuser.focused, "release applies nothing more")
}

func TestTracker_ShiftCyclesBackward(t *testing.T) {
	ctx := context.Background()
	f := newFixture(Options{FocusOnRelease: true})
	km := DefaultKeymap()

	_ = f.tracker.HandleKey(ctx, km, down("ctrl", "ControlLeft"))
	ev := down("tab", "Tab")
	ev.Shift = true
	_ = f.tracker.HandleKey(ctx, km, ev)

	queued, ok := f.tracker.Queued()
	require.True(t, ok)
	assert.Equal(t, "%c", queued.ID)
}

func TestTracker_MismatchedReleaseIgnored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(Options{FocusOnRelease: true})
	km := DefaultKeymap()

	_ = f.tracker.HandleKey(ctx, km, down("ctrl", "ControlLeft"))
	_ = f.tracker.HandleKey(ctx, km, down("tab", "Tab"))
	_ = f.tracker.HandleKey(ctx, km, up("ctrl", "ControlRight"))

	assert.Equal(t, ModifierHeld, f.tracker.State())
	assert.Empty(t, f.focuser.focused)
	_, ok := f.tracker.Queued()
	assert.True(t, ok)
}

func TestTracker_CycleWhileIdleIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(Options{FocusOnRelease: true})

	require.NoError(t, f.tracker.HandleKey(ctx, DefaultKeymap(), down("tab", "Tab")))
	assert.Equal(t, Idle, f.tracker.State())
	assert.Empty(t, f.focuser.focused)
	assert.False(t, f.tracker.Queue(pane.Pane{ID: "%x"}), "nothing queues while idle")
}

func TestTracker_UnknownKeysAreNoops(t *testing.T) {
	ctx := context.Background()
	f := newFixture(Options{FocusOnRelease: true, ShowOverlay: true})
	km := DefaultKeymap()

	_ = f.tracker.HandleKey(ctx, km, down("ctrl", "ControlLeft"))
	_ = f.tracker.HandleKey(ctx, km, down("x", "KeyX"))
	_ = f.tracker.HandleKey(ctx, km, up("x", "KeyX"))

	assert.Equal(t, ModifierHeld, f.tracker.State())
	assert.False(t, f.overlay.open)
}

func TestTracker_NewPressCancelsQueue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(Options{FocusOnRelease: true})
	km := DefaultKeymap()

	_ = f.tracker.HandleKey(ctx, km, down("ctrl", "ControlLeft"))
	_ = f.tracker.HandleKey(ctx, km, down("tab", "Tab"))

	// Auto-repeat of the same key keeps the queue.
	_ = f.tracker.HandleKey(ctx, km, down("ctrl", "ControlLeft"))
	_, ok := f.tracker.Queued()
	assert.True(t, ok)

	// The other physical modifier starts a new gesture.
	_ = f.tracker.HandleKey(ctx, km, down("ctrl", "ControlRight"))
	_, ok = f.tracker.Queued()
	assert.False(t, ok)

	_ = f.tracker.HandleKey(ctx, km, up("ctrl", "ControlRight"))
	assert.Empty(t, f.focuser.focused)
}

func TestTracker_Overlay(t *testing.T) {
	ctx := context.Background()
	km := DefaultKeymap()

	t.Run("opens on overlay key release", func(t *testing.T) {
		f := newFixture(Options{FocusOnRelease: true, ShowOverlay: true})
		_ = f.tracker.HandleKey(ctx, km, down("ctrl", "ControlLeft"))
		_ = f.tracker.HandleKey(ctx, km, down("tab", "Tab"))
		_ = f.tracker.HandleKey(ctx, km, up("tab", "Tab"))

		assert.Equal(t, OverlayOpen, f.tracker.State())
		assert.True(t, f.overlay.open)
		assert.Len(t, f.overlay.order, 3)
		assert.Equal(t, 1, f.overlay.selected)

		// A second release does not reopen.
		_ = f.tracker.HandleKey(ctx, km, down("tab", "Tab"))
		_ = f.tracker.HandleKey(ctx, km, up("tab", "Tab"))
		assert.Equal(t, 1, f.overlay.opened)

		_ = f.tracker.HandleKey(ctx, km, up("ctrl", "ControlLeft"))
		assert.False(t, f.overlay.open)
		assert.Equal(t, Idle, f.tracker.State())
		assert.Equal(t, []string{"%c"}, f.focuser.focused)
	})

	t.Run("disabled", func(t *testing.T) {
		f := newFixture(Options{FocusOnRelease: true, ShowOverlay: false})
		_ = f.tracker.HandleKey(ctx, km, down("ctrl", "ControlLeft"))
		_ = f.tracker.HandleKey(ctx, km, up("tab", "Tab"))
		assert.Equal(t, ModifierHeld, f.tracker.State())
		assert.False(t, f.overlay.open)
	})

	t.Run("no candidates", func(t *testing.T) {
		f := newFixture(Options{FocusOnRelease: true, ShowOverlay: true})
		f.cycler.order = nil
		_ = f.tracker.HandleKey(ctx, km, down("ctrl", "ControlLeft"))
		_ = f.tracker.HandleKey(ctx, km, up("tab", "Tab"))
		assert.Equal(t, ModifierHeld, f.tracker.State())
		assert.False(t, f.overlay.open)
	})

	t.Run("not without modifier", func(t *testing.T) {
		f := newFixture(Options{FocusOnRelease: true, ShowOverlay: true})
		_ = f.tracker.HandleKey(ctx, km, up("tab", "Tab"))
		assert.Equal(t, Idle, f.tracker.State())
		assert.False(t, f.overlay.open)
	})
}

func TestTracker_Cancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(Options{FocusOnRelease: true, ShowOverlay: true})
	km := DefaultKeymap()

	_ = f.tracker.HandleKey(ctx, km, down("ctrl", "ControlLeft"))
	_ = f.tracker.HandleKey(ctx, km, down("tab", "Tab"))
	_ = f.tracker.HandleKey(ctx, km, up("tab", "Tab"))
	require.True(t, f.overlay.open)

	f.tracker.Cancel()

	assert.Equal(t, Idle, f.tracker.State())
	assert.False(t, f.overlay.open)
	assert.Empty(t, f.focuser.focused)
}

func TestTracker_CycleError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(Options{FocusOnRelease: true})
	f.cycler.err = errors.New("host gone")

	f.tracker.ModifierDown("ControlLeft", t0)
	err := f.tracker.Cycle(ctx, pane.Forward)
	require.Error(t, err)
	assert.ErrorContains(t, err, "host gone")
	_, ok := f.tracker.Queued()
	assert.False(t, ok)
}

func TestTracker_EmptyOrderNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(Options{FocusOnRelease: true})
	f.cycler.order = nil

	f.tracker.ModifierDown("ControlLeft", t0)
	require.NoError(t, f.tracker.Cycle(ctx, pane.Forward))
	require.NoError(t, f.tracker.ModifierUp(ctx, "ControlLeft"))
	assert.Empty(t, f.focuser.focused)
}

func TestTracker_OnRelease(t *testing.T) {
	ctx := context.Background()
	f := newFixture(Options{FocusOnRelease: true})

	var calls []string
	f.tracker.OnRelease(func() { calls = append(calls, "released:"+fmt.Sprint(len(f.focuser.focused))) })

	require.NoError(t, f.tracker.ModifierUp(ctx, "ControlLeft"))
	assert.Empty(t, calls, "release while idle does not fire")

	f.tracker.ModifierDown("ControlLeft", t0)
	require.NoError(t, f.tracker.Cycle(ctx, pane.Forward))
	require.NoError(t, f.tracker.ModifierUp(ctx, "ShiftLeft"))
	assert.Empty(t, calls, "other keys do not end the gesture")

	require.NoError(t, f.tracker.ModifierUp(ctx, "ControlLeft"))
	assert.Equal(t, []string{"released:0"}, calls, "fires before the queued focus")
	assert.Equal(t, []string{"%b"}, f.focuser.focused)

	f.tracker.ModifierDown("ControlLeft", t0)
	f.tracker.Cancel()
	assert.Len(t, calls, 2)
}
