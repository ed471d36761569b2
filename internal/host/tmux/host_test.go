package tmux

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hay-kot/cyclepanes/internal/core/pane"
	"github.com/hay-kot/cyclepanes/pkg/executil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(fields ...string) string {
	return strings.Join(fields, fieldSep)
}

var listPanesOutput = strings.Join([]string{
	row("%1", "nvim", "work", "@1", "", "", "1700000000000", "0", "1", "", "fileA"),
	row("%2", "nvim", "work", "@1", "", "1", "", "1", "1", "", "fileB"),
	row("%3", "lf", "work", "@1", "left", "", "1700000005000", "0", "1", "", "tree"),
	row("%4", "fzf", "work", "@2", "right", "", "", "1", "0", "search", "find"),
	row("%5", "nvim", "scratch", "@3", "", "", "", "1", "1", "", "notes"),
}, "\n") + "\n"

func newHost(rec *executil.RecordingExecutor, opts Options) *Host {
	return New(rec, opts, zerolog.Nop())
}

func TestHost_Snapshot(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{
			"tmux display-message": []byte("work\n"),
			"tmux list-panes":      []byte(listPanesOutput),
		},
	}

	snap, err := newHost(rec, Options{}).Snapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Panes, 5)
	assert.Equal(t, "%2", snap.ActiveID)
	assert.Equal(t, pane.WindowID("work"), snap.ActiveWindow)
	assert.Equal(t, pane.WindowID("work"), snap.MainWindow)

	a := snap.Panes[0]
	assert.Equal(t, "fileA", a.Title)
	assert.Equal(t, "nvim", a.ViewType)
	assert.Equal(t, pane.RootMain, a.Root)
	assert.False(t, a.Pinned)
	assert.Equal(t, time.UnixMilli(1700000000000), a.ActiveTime)

	assert.True(t, snap.Panes[1].Pinned)
	assert.True(t, snap.Panes[1].ActiveTime.IsZero())
	assert.Equal(t, pane.RootLeft, snap.Panes[2].Root)
	assert.Equal(t, pane.ViewSearch, snap.Panes[3].ViewType)
	assert.Equal(t, pane.WindowID("scratch"), snap.Panes[4].Window)

	require.Len(t, rec.Commands, 2)
	assert.Equal(t, []string{"list-panes", "-a", "-F", paneFormat(DefaultTitleFormat)}, rec.Commands[1].Args)
}

func TestHost_Snapshot_MainSession(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{
			"tmux display-message": []byte("scratch\n"),
			"tmux list-panes":      []byte(listPanesOutput),
		},
	}

	snap, err := newHost(rec, Options{MainSession: "work"}).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pane.WindowID("work"), snap.MainWindow)
	assert.Equal(t, pane.WindowID("scratch"), snap.ActiveWindow)
	assert.Equal(t, "%5", snap.ActiveID)
}

func TestHost_Snapshot_Errors(t *testing.T) {
	t.Run("tmux fails", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Errors: map[string]error{"tmux": errors.New("no server running")},
		}
		_, err := newHost(rec, Options{}).Snapshot(context.Background())
		assert.ErrorContains(t, err, "no server running")
	})
}

func TestHost_Snapshot_SkipsMalformedRows(t *testing.T) {
	out := strings.Join([]string{
		row("%1", "nvim", "work", "@1", "", "", "", "1", "1", "", "fileA"),
		"%2\tonly-two",
		row("bogus", "nvim", "work", "@1", "", "", "", "0", "1", "", "fileB"),
		row("%3", "lf", "work", "@1", "left", "", "", "0", "1", "", "tree"),
	}, "\n") + "\n"

	rec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{
			"tmux display-message": []byte("work\n"),
			"tmux list-panes":      []byte(out),
		},
	}

	snap, err := newHost(rec, Options{}).Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Panes, 2)
	assert.Equal(t, "%1", snap.Panes[0].ID)
	assert.Equal(t, "%3", snap.Panes[1].ID)
	assert.Equal(t, "%1", snap.ActiveID)
}

func TestHost_Snapshot_TitleMayContainSeparator(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{
			"tmux display-message": []byte("work\n"),
			"tmux list-panes":      []byte(row("%1", "nvim", "work", "@1", "", "", "", "1", "1", "", "a\tb") + "\n"),
		},
	}

	snap, err := newHost(rec, Options{}).Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Panes, 1)
	assert.Equal(t, "a\tb", snap.Panes[0].Title)
}

func TestHost_Snapshot_TitleFormat(t *testing.T) {
	t.Run("default tells host-titled panes apart", func(t *testing.T) {
		f := paneFormat("")
		assert.True(t, strings.HasSuffix(f, fieldSep+DefaultTitleFormat))
		assert.Contains(t, DefaultTitleFormat, "#{==:#{pane_title},#{host}}")
		assert.Contains(t, DefaultTitleFormat, "#{window_index}.#{pane_index}")
	})

	t.Run("configured format is sent to tmux", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Outputs: map[string][]byte{
				"tmux display-message": []byte("work\n"),
				"tmux list-panes":      []byte(listPanesOutput),
			},
		}

		_, err := newHost(rec, Options{TitleFormat: "#{pane_id}:#{pane_current_path}"}).Snapshot(context.Background())
		require.NoError(t, err)

		require.Len(t, rec.Commands, 2)
		args := rec.Commands[1].Args
		require.Len(t, args, 4)
		assert.True(t, strings.HasSuffix(args[3], fieldSep+"#{pane_id}:#{pane_current_path}"))
		assert.NotContains(t, args[3], "#{host}")
	})
}

func TestHost_Activate(t *testing.T) {
	tests := []struct {
		name string
		pane pane.Pane
		want []string
	}{
		{
			name: "same session",
			pane: pane.Pane{ID: "%1", Window: "work"},
			want: []string{
				"tmux display-message -p #{session_name}",
				"tmux select-window -t %1",
				"tmux select-pane -t %1",
			},
		},
		{
			name: "other session",
			pane: pane.Pane{ID: "%5", Window: "scratch"},
			want: []string{
				"tmux display-message -p #{session_name}",
				"tmux switch-client -t scratch",
				"tmux select-window -t %5",
				"tmux select-pane -t %5",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &executil.RecordingExecutor{
				Outputs: map[string][]byte{"tmux display-message": []byte("work\n")},
			}
			require.NoError(t, newHost(rec, Options{}).Activate(context.Background(), tt.pane))
			assert.Equal(t, tt.want, rec.Lines())
		})
	}
}

func TestHost_Activate_Error(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{"tmux display-message": []byte("work\n")},
		Errors:  map[string]error{"tmux select-pane": errors.New("can't find pane")},
	}
	err := newHost(rec, Options{}).Activate(context.Background(), pane.Pane{ID: "%9", Window: "work"})
	assert.ErrorContains(t, err, "tmux select-pane")
}

func TestHost_Promote(t *testing.T) {
	t.Run("zooms unzoomed window", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Outputs: map[string][]byte{"tmux display-message": []byte("0\n")},
		}
		require.NoError(t, newHost(rec, Options{}).Promote(context.Background(), pane.Pane{ID: "%3"}))
		assert.Equal(t, []string{
			"tmux select-window -t %3",
			"tmux select-pane -t %3",
			"tmux display-message -p -t %3 #{window_zoomed_flag}",
			"tmux resize-pane -Z -t %3",
		}, rec.Lines())
	})

	t.Run("already zoomed", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Outputs: map[string][]byte{"tmux display-message": []byte("1\n")},
		}
		require.NoError(t, newHost(rec, Options{}).Promote(context.Background(), pane.Pane{ID: "%3"}))
		assert.NotContains(t, rec.Lines(), "tmux resize-pane -Z -t %3")
	})
}

func TestHost_Stamp(t *testing.T) {
	rec := &executil.RecordingExecutor{}
	at := time.UnixMilli(1700000001234)

	require.NoError(t, newHost(rec, Options{}).Stamp(context.Background(), pane.Pane{ID: "%3"}, at))
	assert.Equal(t, []string{"tmux set-option -p -t %3 @cyclepanes-active 1700000001234"}, rec.Lines())
}

func TestHost_FocusSearch(t *testing.T) {
	t.Run("no keys configured", func(t *testing.T) {
		rec := &executil.RecordingExecutor{}
		require.NoError(t, newHost(rec, Options{}).FocusSearch(context.Background(), pane.Pane{ID: "%4"}))
		assert.Empty(t, rec.Commands)
	})

	t.Run("sends keys", func(t *testing.T) {
		rec := &executil.RecordingExecutor{}
		host := newHost(rec, Options{SearchKeys: []string{"C-u", "/"}})
		require.NoError(t, host.FocusSearch(context.Background(), pane.Pane{ID: "%4"}))
		assert.Equal(t, []string{"tmux send-keys -t %4 C-u /"}, rec.Lines())
	})
}

func TestHost_Expand(t *testing.T) {
	t.Run("zoomed", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Outputs: map[string][]byte{"tmux display-message": []byte("1\n")},
		}
		require.NoError(t, newHost(rec, Options{}).Expand(context.Background(), pane.RootLeft))
		assert.Equal(t, []string{
			"tmux display-message -p #{window_zoomed_flag}",
			"tmux resize-pane -Z",
		}, rec.Lines())
	})

	t.Run("not zoomed", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Outputs: map[string][]byte{"tmux display-message": []byte("0\n")},
		}
		require.NoError(t, newHost(rec, Options{}).Expand(context.Background(), pane.RootLeft))
		assert.Len(t, rec.Commands, 1)
	})
}

func TestHost_Workspace(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{"tmux display-message": []byte("research\n")},
	}

	name, ok := newHost(rec, Options{}).Workspace(context.Background())
	assert.False(t, ok)
	assert.Empty(t, name)
	assert.Empty(t, rec.Commands)

	name, ok = newHost(rec, Options{PerSessionWorkspaces: true}).Workspace(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "research", name)
}

func TestHost_CustomPath(t *testing.T) {
	rec := &executil.RecordingExecutor{}
	host := newHost(rec, Options{Path: "/opt/bin/tmux"})

	require.NoError(t, host.Stamp(context.Background(), pane.Pane{ID: "%1"}, time.UnixMilli(1)))
	require.Len(t, rec.Commands, 1)
	assert.Equal(t, "/opt/bin/tmux", rec.Commands[0].Cmd)
	assert.False(t, host.Constrained())
}
