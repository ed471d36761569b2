package navigator

import (
	"context"

	"github.com/hay-kot/cyclepanes/internal/core/action"
	"github.com/hay-kot/cyclepanes/internal/core/pane"
	"github.com/hay-kot/cyclepanes/internal/core/settings"
)

func (n *Navigator) registerCommands() {
	n.commands.Register(action.Command{
		ID:    action.TypeGoRight,
		Name:  "Go to right tab",
		Check: n.hasActive,
		Run:   func(ctx context.Context) error { return n.cycleAdjacent(ctx, pane.Forward) },
	})
	n.commands.Register(action.Command{
		ID:    action.TypeGoLeft,
		Name:  "Go to left tab",
		Check: n.hasActive,
		Run:   func(ctx context.Context) error { return n.cycleAdjacent(ctx, pane.Backward) },
	})
	n.commands.Register(action.Command{
		ID:   action.TypeEnableView,
		Name: "Enable this View Type",
		Check: func(ctx context.Context) bool {
			p, ok := n.activePane(ctx)
			return ok && p.ViewType != "" && !n.settings.HasViewType(p.ViewType)
		},
		Run: func(ctx context.Context) error {
			return n.editActiveViewType(ctx, (*settings.Settings).AddViewType)
		},
	})
	n.commands.Register(action.Command{
		ID:   action.TypeDisableView,
		Name: "Disable this View Type",
		Check: func(ctx context.Context) bool {
			p, ok := n.activePane(ctx)
			return ok && n.settings.HasViewType(p.ViewType)
		},
		Run: func(ctx context.Context) error {
			return n.editActiveViewType(ctx, (*settings.Settings).RemoveViewType)
		},
	})
	n.commands.Register(action.Command{
		ID:   action.TypeFocusLeftSide,
		Name: "Focus on left sidebar",
		Run:  func(ctx context.Context) error { return n.focusSidebar(ctx, pane.RootLeft) },
	})
	n.commands.Register(action.Command{
		ID:   action.TypeFocusRightSide,
		Name: "Focus on right sidebar",
		Run:  func(ctx context.Context) error { return n.focusSidebar(ctx, pane.RootRight) },
	})
	n.commands.Register(action.Command{
		ID:    action.TypeGoPrevious,
		Name:  "Go to previous tab",
		Check: n.hasActive,
		Run:   func(ctx context.Context) error { return n.cycleMRU(ctx, pane.Forward) },
	})
	n.commands.Register(action.Command{
		ID:    action.TypeGoNext,
		Name:  "Go to next tab",
		Check: n.hasActive,
		Run:   func(ctx context.Context) error { return n.cycleMRU(ctx, pane.Backward) },
	})
}

func (n *Navigator) activePane(ctx context.Context) (pane.Pane, bool) {
	snap, err := n.host.Snapshot(ctx)
	if err != nil {
		n.log.Warn().Err(err).Msg("could not read panes")
		return pane.Pane{}, false
	}
	return snap.Active()
}

func (n *Navigator) hasActive(ctx context.Context) bool {
	_, ok := n.activePane(ctx)
	return ok
}

func (n *Navigator) cycleAdjacent(ctx context.Context, dir pane.Direction) error {
	target, ok, err := n.resolver.Adjacent(ctx, dir)
	if err != nil || !ok {
		return err
	}
	return n.queueFocus(ctx, target)
}

func (n *Navigator) cycleMRU(ctx context.Context, dir pane.Direction) error {
	target, ok, err := n.resolver.Advance(ctx, dir)
	if err != nil || !ok {
		return err
	}
	return n.queueFocus(ctx, target)
}

// focusSidebar reveals root and focuses its most recently active pane.
func (n *Navigator) focusSidebar(ctx context.Context, root pane.RootID) error {
	if err := n.host.Expand(ctx, root); err != nil {
		return err
	}

	snap, err := n.host.Snapshot(ctx)
	if err != nil {
		return err
	}

	target, ok := snap.MostRecentIn(root)
	if !ok {
		n.log.Debug().Str("root", string(root)).Msg("no recently active pane in sidebar")
		return nil
	}
	return n.queueFocus(ctx, target)
}

func (n *Navigator) editActiveViewType(ctx context.Context, edit func(*settings.Settings, string) bool) error {
	p, ok := n.activePane(ctx)
	if !ok {
		return nil
	}

	next := n.settings.Clone()
	if !edit(&next, p.ViewType) {
		return nil
	}

	return n.UpdateSettings(ctx, func(s *settings.Settings) {
		s.ViewTypes = next.ViewTypes
	})
}
