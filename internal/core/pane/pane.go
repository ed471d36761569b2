// Package pane defines the pane (leaf) domain types and the host
// collaborator interface the navigation core consumes.
package pane

import (
	"context"
	"time"
)

// RootID identifies the layout region a pane lives in.
type RootID string

// Well-known roots. Hosts may report other roots (floating regions, popups);
// those never count as the main root.
const (
	RootMain  RootID = "main"
	RootLeft  RootID = "left"
	RootRight RootID = "right"
)

// WindowID identifies the OS-level window (tmux session) holding a pane.
type WindowID string

// ViewSearch is the view kind of search surfaces. Activating one also
// focuses its input.
const ViewSearch = "search"

// Pane is a reference to a host-owned leaf. The core never owns panes; a
// Pane is only valid for the snapshot it came from.
type Pane struct {
	ID         string    // host handle used to address the pane
	Title      string    // display text, also the history identifier
	ViewType   string    // view kind
	Pinned     bool      // pinned panes can be skipped by the filter
	Root       RootID    // containing root/split
	Window     WindowID  // containing OS-level window
	ActiveTime time.Time // last time the pane was active, zero if unknown
}

// Snapshot is the live pane set at one point in time, in host
// enumeration order.
type Snapshot struct {
	Panes        []Pane
	ActiveID     string   // empty when no pane is active
	MainWindow   WindowID // the host's primary window
	ActiveWindow WindowID // the window that currently has focus
}

// Active returns the active pane.
func (s Snapshot) Active() (Pane, bool) {
	if s.ActiveID == "" {
		return Pane{}, false
	}
	return s.Find(s.ActiveID)
}

// Find looks up a pane by host handle.
func (s Snapshot) Find(id string) (Pane, bool) {
	for _, p := range s.Panes {
		if p.ID == id {
			return p, true
		}
	}
	return Pane{}, false
}

// MostRecentIn returns the pane of root with the latest non-zero
// ActiveTime. Panes that were never active are not candidates.
func (s Snapshot) MostRecentIn(root RootID) (Pane, bool) {
	var (
		best  Pane
		found bool
	)
	for _, p := range s.Panes {
		if p.Root != root || p.ActiveTime.IsZero() {
			continue
		}
		if !found || p.ActiveTime.After(best.ActiveTime) {
			best = p
			found = true
		}
	}
	return best, found
}

// Host is the workspace host: it enumerates live panes and carries out
// focus requests. Implementations must not cache snapshots across calls.
type Host interface {
	// Snapshot enumerates all live panes.
	Snapshot(ctx context.Context) (Snapshot, error)
	// Activate makes p the active pane with an explicit focus request.
	Activate(ctx context.Context, p Pane) error
	// Promote opens p's root in the primary view (constrained hosts).
	Promote(ctx context.Context, p Pane) error
	// Stamp records t as p's last-active time.
	Stamp(ctx context.Context, p Pane, t time.Time) error
	// FocusSearch moves input focus into the search field of p.
	FocusSearch(ctx context.Context, p Pane) error
	// Expand reveals a collapsed side region.
	Expand(ctx context.Context, root RootID) error
	// Constrained reports whether the host only shows one root at a time.
	Constrained() bool
	// Workspace returns the active named workspace, if workspace naming is
	// in use.
	Workspace(ctx context.Context) (string, bool)
}
