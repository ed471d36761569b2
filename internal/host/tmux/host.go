// Package tmux adapts a running tmux server to pane.Host. Sessions play the
// part of OS windows and the @cyclepanes-region pane option names the root.
package tmux

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hay-kot/cyclepanes/internal/core/pane"
	"github.com/hay-kot/cyclepanes/pkg/executil"
	"github.com/rs/zerolog"
)

// Options configures the host.
type Options struct {
	Path                 string   // tmux binary, "tmux" when empty
	Constrained          bool     // side regions are shown by zooming
	SearchKeys           []string // keys sent to search panes after activation
	PerSessionWorkspaces bool     // the session name scopes tab history
	MainSession          string   // primary window; the current session when empty
	TitleFormat          string   // tmux format naming a pane; DefaultTitleFormat when empty
}

// Host implements pane.Host over the tmux CLI.
type Host struct {
	exec executil.Executor
	opts Options
	log  zerolog.Logger
}

var _ pane.Host = (*Host)(nil)

// New creates a Host with the given executor.
func New(exec executil.Executor, opts Options, log zerolog.Logger) *Host {
	if opts.Path == "" {
		opts.Path = "tmux"
	}
	return &Host{exec: exec, opts: opts, log: log}
}

// Snapshot lists every pane on the server.
func (h *Host) Snapshot(ctx context.Context) (pane.Snapshot, error) {
	session, err := h.display(ctx, "", "#{session_name}")
	if err != nil {
		return pane.Snapshot{}, fmt.Errorf("tmux current session: %w", err)
	}

	out, err := h.run(ctx, "list-panes", "-a", "-F", paneFormat(h.opts.TitleFormat))
	if err != nil {
		return pane.Snapshot{}, fmt.Errorf("tmux list-panes: %w", err)
	}

	return parseSnapshot(out, session, h.opts.MainSession, h.log), nil
}

// Activate switches to p's session and window and selects it.
func (h *Host) Activate(ctx context.Context, p pane.Pane) error {
	if err := h.switchTo(ctx, p); err != nil {
		return err
	}
	if _, err := h.run(ctx, "select-window", "-t", p.ID); err != nil {
		return fmt.Errorf("tmux select-window: %w", err)
	}
	if _, err := h.run(ctx, "select-pane", "-t", p.ID); err != nil {
		return fmt.Errorf("tmux select-pane: %w", err)
	}
	return nil
}

// Promote selects p and zooms it so its region fills the window.
func (h *Host) Promote(ctx context.Context, p pane.Pane) error {
	if err := h.Activate(ctx, p); err != nil {
		return err
	}

	zoomed, err := h.display(ctx, p.ID, "#{window_zoomed_flag}")
	if err != nil {
		return fmt.Errorf("tmux zoom state: %w", err)
	}
	if zoomed == "1" {
		return nil
	}

	if _, err := h.run(ctx, "resize-pane", "-Z", "-t", p.ID); err != nil {
		return fmt.Errorf("tmux resize-pane: %w", err)
	}
	return nil
}

// Stamp stores t as p's last-active time in milliseconds.
func (h *Host) Stamp(ctx context.Context, p pane.Pane, t time.Time) error {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if _, err := h.run(ctx, "set-option", "-p", "-t", p.ID, OptActive, ms); err != nil {
		return fmt.Errorf("tmux set-option %s: %w", OptActive, err)
	}
	return nil
}

// FocusSearch sends the configured search keys to p.
func (h *Host) FocusSearch(ctx context.Context, p pane.Pane) error {
	if len(h.opts.SearchKeys) == 0 {
		return nil
	}

	args := append([]string{"send-keys", "-t", p.ID}, h.opts.SearchKeys...)
	if _, err := h.run(ctx, args...); err != nil {
		return fmt.Errorf("tmux send-keys: %w", err)
	}
	return nil
}

// Expand unzooms the current window so side regions become visible.
func (h *Host) Expand(ctx context.Context, root pane.RootID) error {
	zoomed, err := h.display(ctx, "", "#{window_zoomed_flag}")
	if err != nil {
		return fmt.Errorf("tmux zoom state: %w", err)
	}
	if zoomed != "1" {
		return nil
	}

	h.log.Debug().Str("root", string(root)).Msg("unzooming window to expand region")
	if _, err := h.run(ctx, "resize-pane", "-Z"); err != nil {
		return fmt.Errorf("tmux resize-pane: %w", err)
	}
	return nil
}

// Constrained reports whether side regions are shown by zooming.
func (h *Host) Constrained() bool {
	return h.opts.Constrained
}

// Workspace returns the current session name when per-session workspaces
// are enabled.
func (h *Host) Workspace(ctx context.Context) (string, bool) {
	if !h.opts.PerSessionWorkspaces {
		return "", false
	}

	name, err := h.display(ctx, "", "#{session_name}")
	if err != nil {
		h.log.Warn().Err(err).Msg("could not read session name")
		return "", false
	}
	return name, name != ""
}

// Version returns the tmux version string.
func (h *Host) Version(ctx context.Context) (string, error) {
	out, err := h.run(ctx, "-V")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (h *Host) switchTo(ctx context.Context, p pane.Pane) error {
	if p.Window == "" {
		return nil
	}

	current, err := h.display(ctx, "", "#{session_name}")
	if err != nil {
		return fmt.Errorf("tmux current session: %w", err)
	}
	if current == string(p.Window) {
		return nil
	}

	if _, err := h.run(ctx, "switch-client", "-t", string(p.Window)); err != nil {
		return fmt.Errorf("tmux switch-client: %w", err)
	}
	return nil
}

func (h *Host) display(ctx context.Context, target, format string) (string, error) {
	args := []string{"display-message", "-p"}
	if target != "" {
		args = append(args, "-t", target)
	}
	args = append(args, format)

	out, err := h.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (h *Host) run(ctx context.Context, args ...string) ([]byte, error) {
	h.log.Debug().Strs("args", args).Msg("executing tmux")
	return h.exec.Run(ctx, h.opts.Path, args...)
}

// InsideTmux reports whether the current process is running inside tmux.
var InsideTmux = func() bool {
	return strings.TrimSpace(os.Getenv("TMUX")) != ""
}
