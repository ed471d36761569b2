// Package navigator wires the cycling core to a pane host: it owns the
// settings, tab history, cycle order, focus dispatcher, key chord tracker and
// the command registry, and reacts to host lifecycle notifications.
package navigator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hay-kot/cyclepanes/internal/core/action"
	"github.com/hay-kot/cyclepanes/internal/core/chord"
	"github.com/hay-kot/cyclepanes/internal/core/focus"
	"github.com/hay-kot/cyclepanes/internal/core/history"
	"github.com/hay-kot/cyclepanes/internal/core/logging"
	"github.com/hay-kot/cyclepanes/internal/core/pane"
	"github.com/hay-kot/cyclepanes/internal/core/resolver"
	"github.com/hay-kot/cyclepanes/internal/core/settings"
	"github.com/hay-kot/cyclepanes/internal/core/workspace"
)

// StateStore persists the settings blob.
type StateStore interface {
	Load(ctx context.Context) (settings.Settings, error)
	Save(ctx context.Context, s settings.Settings) error
}

// Navigator is one plugin instance. It is not safe for concurrent use.
type Navigator struct {
	host  pane.Host
	store StateStore
	log   zerolog.Logger

	settings   settings.Settings
	history    *history.Store
	resolver   *resolver.Resolver
	dispatcher *focus.Dispatcher
	tracker    *chord.Tracker
	commands   *action.Registry
}

// New creates a navigator with default settings and empty history. Call
// Load and Ready before handling commands.
func New(host pane.Host, store StateStore, log zerolog.Logger) *Navigator {
	n := &Navigator{
		host:     host,
		store:    store,
		log:      log,
		settings: settings.Default(),
	}

	n.history = n.newHistory(nil)
	n.resolver = resolver.New(host, historyRef{n}, n.Settings, log.With().Str("cmp", "resolver").Logger())
	n.dispatcher = focus.NewDispatcher(host, log.With().Str("cmp", "focus").Logger())
	n.tracker = chord.New(n, n, nil, n.chordOptions, log.With().Str("cmp", "chord").Logger())
	n.tracker.OnRelease(n.resolver.Invalidate)
	n.commands = action.NewRegistry()
	n.registerCommands()

	return n
}

// Load reads persisted settings and tab history.
func (n *Navigator) Load(ctx context.Context) error {
	s, err := n.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	n.settings = s
	n.history = n.newHistory(s.TabHistoryPerWorkspace)
	n.resolver.Invalidate()
	return nil
}

// Ready selects the tab history of the active workspace.
func (n *Navigator) Ready(ctx context.Context) {
	ws := workspace.Resolve(ctx, n.host, n.log)
	n.history.SwitchWorkspace(ws)
	n.resolver.Invalidate()
	n.log.Debug().Str("workspace", ws).Int("entries", len(n.history.Active())).Msg("layout ready")
}

// ActivePaneChanged records p as the most recent pane of the active
// workspace. Persistence failures are logged, the in-memory history keeps
// the update.
func (n *Navigator) ActivePaneChanged(ctx context.Context, p pane.Pane) {
	ws := n.Workspace()
	ctx = logging.WithPaneID(logging.WithWorkspace(ctx, ws), p.ID)

	if err := n.history.RecordActivation(ctx, ws, p.Title); err != nil {
		n.log.Warn().Ctx(ctx).Err(err).Msg("could not save tab history")
	}
}

// LayoutChanged re-resolves the workspace and rebuilds the cycle order.
func (n *Navigator) LayoutChanged(ctx context.Context) {
	n.Ready(ctx)
	if _, _, err := n.resolver.Order(ctx); err != nil {
		n.log.Warn().Err(err).Msg("could not rebuild cycle order")
	}
}

// Focus applies focus to p and records the activation.
func (n *Navigator) Focus(ctx context.Context, p pane.Pane) error {
	if err := n.dispatcher.Apply(ctx, p); err != nil {
		return err
	}
	n.ActivePaneChanged(ctx, p)
	return nil
}

// queueFocus defers p to the modifier release while a chord is held and
// focus-on-release is enabled; otherwise p is focused now.
func (n *Navigator) queueFocus(ctx context.Context, p pane.Pane) error {
	if n.tracker.Held() && n.settings.FocusLeafOnKeyUp && n.tracker.Queue(p) {
		return nil
	}
	return n.Focus(ctx, p)
}

// Advance steps the MRU cycle order.
func (n *Navigator) Advance(ctx context.Context, dir pane.Direction) (pane.Pane, bool, error) {
	return n.resolver.Advance(ctx, dir)
}

// Order returns the MRU cycle order and the active index.
func (n *Navigator) Order(ctx context.Context) ([]pane.Pane, int, error) {
	return n.resolver.Order(ctx)
}

// UpdateSettings applies fn to a copy of the settings and persists the
// result in full. The tab history is always taken from the history store.
func (n *Navigator) UpdateSettings(ctx context.Context, fn func(s *settings.Settings)) error {
	next := n.settings.Clone()
	fn(&next)
	next.TabHistoryPerWorkspace = n.history.Snapshot()

	n.settings = next
	n.resolver.Invalidate()

	if err := n.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Settings returns a copy of the current settings.
func (n *Navigator) Settings() settings.Settings {
	return n.settings.Clone()
}

// Workspace returns the active workspace id.
func (n *Navigator) Workspace() string {
	if ws := n.history.Workspace(); ws != "" {
		return ws
	}
	return workspace.Default
}

// History returns the tab history store.
func (n *Navigator) History() *history.Store { return n.history }

// Tracker returns the key chord tracker.
func (n *Navigator) Tracker() *chord.Tracker { return n.tracker }

// Commands returns the command registry.
func (n *Navigator) Commands() *action.Registry { return n.commands }

// Host returns the pane host.
func (n *Navigator) Host() pane.Host { return n.host }

func (n *Navigator) newHistory(persisted map[string][]string) *history.Store {
	h := history.NewStore(persisted, history.PersisterFunc(n.persistHistory))
	h.OnInvalidate(func() {
		if n.resolver != nil {
			n.resolver.Invalidate()
		}
	})
	return h
}

func (n *Navigator) persistHistory(ctx context.Context, histories map[string][]string) error {
	next := n.settings.Clone()
	next.TabHistoryPerWorkspace = histories
	n.settings = next
	return n.store.Save(ctx, next)
}

func (n *Navigator) chordOptions() chord.Options {
	return chord.Options{
		FocusOnRelease: n.settings.FocusLeafOnKeyUp,
		ShowOverlay:    n.settings.ShowModal,
	}
}

// historyRef lets the resolver follow the history store across Load.
type historyRef struct{ n *Navigator }

func (h historyRef) Active() []string { return h.n.history.Active() }
