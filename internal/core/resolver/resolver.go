// Package resolver computes the cycling order: live eligible panes blended
// with the active tab history, and steps through it.
package resolver

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hay-kot/cyclepanes/internal/core/filter"
	"github.com/hay-kot/cyclepanes/internal/core/pane"
	"github.com/hay-kot/cyclepanes/internal/core/settings"
)

// Source provides live pane snapshots.
type Source interface {
	Snapshot(ctx context.Context) (pane.Snapshot, error)
}

// History exposes the active tab history, most recent first.
type History interface {
	Active() []string
}

// order is the cached resolved cycle order.
type order struct {
	panes []pane.Pane
	index int
}

// Resolver owns the cached cycle order. It is not safe for concurrent use.
type Resolver struct {
	source   Source
	history  History
	settings func() settings.Settings
	log      zerolog.Logger

	cache *order
}

// New creates a Resolver. getSettings is read on every rebuild so settings
// changes apply to the next cycle.
func New(source Source, history History, getSettings func() settings.Settings, log zerolog.Logger) *Resolver {
	return &Resolver{
		source:   source,
		history:  history,
		settings: getSettings,
		log:      log,
	}
}

// Invalidate drops the cached order; the next call rebuilds it.
func (r *Resolver) Invalidate() {
	r.cache = nil
}

// Cached reports whether an order is cached.
func (r *Resolver) Cached() bool {
	return r.cache != nil
}

// Order returns the resolved cycle order and the current index, building it
// when nothing is cached. The returned slice is a copy.
func (r *Resolver) Order(ctx context.Context) ([]pane.Pane, int, error) {
	snap, err := r.source.Snapshot(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("snapshot panes: %w", err)
	}
	r.refresh(snap)

	out := make([]pane.Pane, len(r.cache.panes))
	copy(out, r.cache.panes)
	return out, r.cache.index, nil
}

// Advance steps the current index in dir, with wraparound, and returns the
// pane there. It reports false when no pane is eligible.
func (r *Resolver) Advance(ctx context.Context, dir pane.Direction) (pane.Pane, bool, error) {
	snap, err := r.source.Snapshot(ctx)
	if err != nil {
		return pane.Pane{}, false, fmt.Errorf("snapshot panes: %w", err)
	}
	r.refresh(snap)

	next, ok := dir.Step(r.cache.index, len(r.cache.panes))
	if !ok {
		return pane.Pane{}, false, nil
	}
	r.cache.index = next

	target := r.cache.panes[next]
	r.log.Debug().
		Str("direction", dir.String()).
		Int("index", next).
		Int("length", len(r.cache.panes)).
		Str("target", target.Title).
		Msg("advanced cycle order")
	return target, true, nil
}

// Adjacent returns the neighbour of the active pane in live order, ignoring
// history and the cache. When the active pane is not eligible, Forward
// yields the first pane and Backward the last.
func (r *Resolver) Adjacent(ctx context.Context, dir pane.Direction) (pane.Pane, bool, error) {
	snap, err := r.source.Snapshot(ctx)
	if err != nil {
		return pane.Pane{}, false, fmt.Errorf("snapshot panes: %w", err)
	}

	live := filter.Eligible(snap, r.settings())
	index := indexOf(live, snap.ActiveID)
	if index < 0 {
		if dir == pane.Forward {
			index = len(live) - 1
		} else {
			index = 0
		}
	}

	next, ok := dir.Step(index, len(live))
	if !ok {
		return pane.Pane{}, false, nil
	}
	return live[next], true, nil
}

// refresh builds the order when nothing is cached or when the cached pane
// set no longer matches the live eligible set.
func (r *Resolver) refresh(snap pane.Snapshot) {
	live := filter.Eligible(snap, r.settings())

	if r.cache != nil && sameSet(r.cache.panes, live) {
		return
	}
	if r.cache != nil {
		r.log.Debug().Msg("cycle order is stale, rebuilding")
	}

	panes := Blend(live, r.history.Active())
	index := indexOf(panes, snap.ActiveID)
	if index < 0 {
		index = 0
	}
	r.cache = &order{panes: panes, index: index}

	r.log.Debug().
		Int("length", len(panes)).
		Int("index", index).
		Msg("built cycle order")
}

// Blend orders live panes by history: panes whose title appears in history
// come first, in history order, followed by the rest in live order. When
// several live panes share a title, the last one enumerated stands for it
// in the history part.
func Blend(live []pane.Pane, history []string) []pane.Pane {
	byTitle := make(map[string]int, len(live))
	for i, p := range live {
		if p.Title != "" {
			byTitle[p.Title] = i
		}
	}

	out := make([]pane.Pane, 0, len(live))
	used := make([]bool, len(live))
	for _, title := range history {
		i, ok := byTitle[title]
		if !ok || used[i] {
			continue
		}
		used[i] = true
		out = append(out, live[i])
	}
	for i, p := range live {
		if !used[i] {
			out = append(out, p)
		}
	}
	return out
}

func indexOf(panes []pane.Pane, id string) int {
	if id == "" {
		return -1
	}
	for i, p := range panes {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func sameSet(cached, live []pane.Pane) bool {
	if len(cached) != len(live) {
		return false
	}
	ids := make(map[string]struct{}, len(live))
	for _, p := range live {
		ids[p.ID] = struct{}{}
	}
	for _, p := range cached {
		if _, ok := ids[p.ID]; !ok {
			return false
		}
	}
	return true
}
