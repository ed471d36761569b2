// Package app assembles the configured store, tmux host and navigator for
// one CLI invocation.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/cyclepanes/internal/core/config"
	"github.com/hay-kot/cyclepanes/internal/core/kv"
	"github.com/hay-kot/cyclepanes/internal/core/logging"
	"github.com/hay-kot/cyclepanes/internal/core/pane"
	"github.com/hay-kot/cyclepanes/internal/data/state"
	"github.com/hay-kot/cyclepanes/internal/host/tmux"
	"github.com/hay-kot/cyclepanes/internal/navigator"
	"github.com/hay-kot/cyclepanes/pkg/executil"
)

// ErrNoPane is returned by Record when the requested pane is not live.
var ErrNoPane = errors.New("pane not found")

// Host is the pane host plus the version query used by doctor.
type Host interface {
	pane.Host
	Version(ctx context.Context) (string, error)
}

// App is the central entry point for all cyclepanes operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Config    *config.Config
	Store     kv.KV
	State     *state.Repository
	Host      Host
	Navigator *navigator.Navigator
	Doctor    *DoctorService

	closeStore func() error
	log        zerolog.Logger
	now        func() time.Time
}

// New opens the configured store and builds a tmux backed App. Nothing
// talks to tmux until Start.
func New(cfg *config.Config, exec executil.Executor, log zerolog.Logger) (*App, error) {
	store, closer, err := state.OpenStore(state.Backend(cfg.Storage.Backend), cfg.DataDir, logging.Component("store"))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	host := tmux.New(exec, tmux.Options{
		Path:                 cfg.Tmux.Path,
		Constrained:          cfg.Tmux.Constrained,
		SearchKeys:           cfg.Tmux.SearchKeys,
		PerSessionWorkspaces: cfg.Tmux.PerSessionWorkspaces,
		MainSession:          cfg.Tmux.MainSession,
		TitleFormat:          cfg.Tmux.TitleFormat,
	}, logging.Component("tmux"))

	a := NewWith(cfg, store, host, log)
	a.closeStore = closer
	return a, nil
}

// NewWith builds an App from explicit dependencies.
func NewWith(cfg *config.Config, store kv.KV, host Host, log zerolog.Logger) *App {
	repo := state.New(store, log.With().Str("cmp", "state").Logger())
	a := &App{
		Config:     cfg,
		Store:      store,
		State:      repo,
		Host:       host,
		Navigator:  navigator.New(host, repo, log.With().Str("cmp", "navigator").Logger()),
		closeStore: func() error { return nil },
		log:        log,
		now:        time.Now,
	}
	a.Doctor = NewDoctorService(a)
	return a
}

// Start loads persisted state and selects the active workspace.
func (a *App) Start(ctx context.Context) error {
	if err := a.Navigator.Load(ctx); err != nil {
		return err
	}
	a.Navigator.Ready(ctx)
	return nil
}

// Record handles the host's active-pane notification. paneID selects the
// pane; empty means the currently active pane. The pane's last-active time
// is stamped so sidebar focus can find it later.
func (a *App) Record(ctx context.Context, paneID string) error {
	snap, err := a.Host.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	var (
		p  pane.Pane
		ok bool
	)
	if paneID == "" {
		p, ok = snap.Active()
	} else {
		p, ok = snap.Find(paneID)
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoPane, paneID)
	}

	now := a.now()
	if err := a.Host.Stamp(ctx, p, now); err != nil {
		a.log.Warn().Err(err).Str("pane", p.ID).Msg("could not stamp pane")
	}

	a.Navigator.ActivePaneChanged(ctx, p)

	if err := a.State.MarkRecorded(ctx, now); err != nil {
		a.log.Warn().Err(err).Msg("could not save record time")
	}
	return nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.closeStore()
}
