// Package filter selects the panes eligible for cycling.
package filter

import (
	"github.com/hay-kot/cyclepanes/internal/core/pane"
	"github.com/hay-kot/cyclepanes/internal/core/settings"
)

// Eligible returns the panes of snap that take part in cycling, in host
// enumeration order. It has no side effects.
//
// Panes in another window than the active one never qualify. In the main
// window a pane must live in the main root, or share the active pane's root
// when StayInSplit is set. A secondary window has no main root, so there
// the same-window test alone decides.
func Eligible(snap pane.Snapshot, s settings.Settings) []pane.Pane {
	active, hasActive := snap.Active()

	out := make([]pane.Pane, 0, len(snap.Panes))
	for _, p := range snap.Panes {
		if s.SkipPinned && p.Pinned {
			continue
		}
		if !s.AllowsViewType(p.ViewType) {
			continue
		}
		if !inScope(p, snap, active, hasActive, s.StayInSplit) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func inScope(p pane.Pane, snap pane.Snapshot, active pane.Pane, hasActive, stayInSplit bool) bool {
	if p.Window != snap.ActiveWindow {
		return false
	}
	if p.Window != snap.MainWindow {
		return true
	}
	if stayInSplit {
		return hasActive && p.Root == active.Root
	}
	return p.Root == pane.RootMain
}
