// Package focus applies a resolved target pane as the active focus.
package focus

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/cyclepanes/internal/core/pane"
)

// Host is the subset of pane.Host the dispatcher drives.
type Host interface {
	Activate(ctx context.Context, p pane.Pane) error
	Promote(ctx context.Context, p pane.Pane) error
	Stamp(ctx context.Context, p pane.Pane, t time.Time) error
	FocusSearch(ctx context.Context, p pane.Pane) error
	Constrained() bool
}

// Dispatcher turns a target pane into host focus requests. Recording the
// activation in history is the caller's job.
type Dispatcher struct {
	host Host
	now  func() time.Time
	log  zerolog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(host Host, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{host: host, now: time.Now, log: log}
}

// Apply focuses p. Outside the main root on a constrained host the root is
// promoted into the primary view and p's active time stamped; otherwise p
// is activated directly. Search surfaces also get input focus.
func (d *Dispatcher) Apply(ctx context.Context, p pane.Pane) error {
	if p.Root != pane.RootMain && d.host.Constrained() {
		if err := d.host.Promote(ctx, p); err != nil {
			return fmt.Errorf("promote pane %s: %w", p.ID, err)
		}
		if err := d.host.Stamp(ctx, p, d.now()); err != nil {
			return fmt.Errorf("stamp pane %s: %w", p.ID, err)
		}
	} else {
		if err := d.host.Activate(ctx, p); err != nil {
			return fmt.Errorf("activate pane %s: %w", p.ID, err)
		}
	}

	if p.ViewType == pane.ViewSearch {
		if err := d.host.FocusSearch(ctx, p); err != nil {
			return fmt.Errorf("focus search in pane %s: %w", p.ID, err)
		}
	}

	d.log.Debug().
		Str("pane", p.ID).
		Str("title", p.Title).
		Str("root", string(p.Root)).
		Msg("focused pane")
	return nil
}
