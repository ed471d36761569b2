// Package panetest provides an in-memory pane.Host for tests.
package panetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hay-kot/cyclepanes/internal/core/pane"
)

// Call is a recorded host request.
type Call struct {
	Op     string // activate, promote, stamp, search, expand
	PaneID string
	Root   pane.RootID
}

// Host is a mutable in-memory host. Activate, Promote and FocusSearch
// behave like a real host: activation moves the active pane and window.
type Host struct {
	mu sync.Mutex

	Panes        []pane.Pane
	ActiveID     string
	MainWindow   pane.WindowID
	ActiveWindow pane.WindowID

	IsConstrained bool
	WorkspaceName string // empty means no named workspace
	Now           func() time.Time

	// Err, when set, fails every request.
	Err error

	Calls []Call
}

// New creates a host whose panes all live in window "main".
func New(panes ...pane.Pane) *Host {
	h := &Host{MainWindow: "main", ActiveWindow: "main"}
	for _, p := range panes {
		if p.Window == "" {
			p.Window = "main"
		}
		if p.Root == "" {
			p.Root = pane.RootMain
		}
		h.Panes = append(h.Panes, p)
	}
	return h
}

// Snapshot returns a copy of the live pane set.
func (h *Host) Snapshot(_ context.Context) (pane.Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.Err != nil {
		return pane.Snapshot{}, h.Err
	}
	panes := make([]pane.Pane, len(h.Panes))
	copy(panes, h.Panes)
	return pane.Snapshot{
		Panes:        panes,
		ActiveID:     h.ActiveID,
		MainWindow:   h.MainWindow,
		ActiveWindow: h.ActiveWindow,
	}, nil
}

func (h *Host) Activate(_ context.Context, p pane.Pane) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.activate("activate", p)
}

func (h *Host) Promote(_ context.Context, p pane.Pane) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.activate("promote", p)
}

func (h *Host) Stamp(_ context.Context, p pane.Pane, t time.Time) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.Err != nil {
		return h.Err
	}
	h.Calls = append(h.Calls, Call{Op: "stamp", PaneID: p.ID})
	for i := range h.Panes {
		if h.Panes[i].ID == p.ID {
			h.Panes[i].ActiveTime = t
		}
	}
	return nil
}

func (h *Host) FocusSearch(_ context.Context, p pane.Pane) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.Err != nil {
		return h.Err
	}
	h.Calls = append(h.Calls, Call{Op: "search", PaneID: p.ID})
	return nil
}

func (h *Host) Expand(_ context.Context, root pane.RootID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.Err != nil {
		return h.Err
	}
	h.Calls = append(h.Calls, Call{Op: "expand", Root: root})
	return nil
}

func (h *Host) Constrained() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.IsConstrained
}

func (h *Host) Workspace(_ context.Context) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.WorkspaceName, h.WorkspaceName != ""
}

// Close removes a pane from the live set.
func (h *Host) Close(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, p := range h.Panes {
		if p.ID == id {
			h.Panes = append(h.Panes[:i], h.Panes[i+1:]...)
			break
		}
	}
	if h.ActiveID == id {
		h.ActiveID = ""
	}
}

// Add appends a pane to the live set.
func (h *Host) Add(p pane.Pane) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if p.Window == "" {
		p.Window = h.MainWindow
	}
	if p.Root == "" {
		p.Root = pane.RootMain
	}
	h.Panes = append(h.Panes, p)
}

// Active returns the active pane id.
func (h *Host) Active() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ActiveID
}

// Ops returns the recorded operation names in order.
func (h *Host) Ops() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	ops := make([]string, len(h.Calls))
	for i, c := range h.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Reset clears recorded calls.
func (h *Host) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Calls = nil
}

func (h *Host) activate(op string, p pane.Pane) error {
	if h.Err != nil {
		return h.Err
	}
	for _, live := range h.Panes {
		if live.ID == p.ID {
			h.Calls = append(h.Calls, Call{Op: op, PaneID: p.ID})
			h.ActiveID = p.ID
			h.ActiveWindow = live.Window
			if h.Now != nil {
				for i := range h.Panes {
					if h.Panes[i].ID == p.ID {
						h.Panes[i].ActiveTime = h.Now()
					}
				}
			}
			return nil
		}
	}
	return fmt.Errorf("pane %s is not live", p.ID)
}
