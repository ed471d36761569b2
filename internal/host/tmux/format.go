package tmux

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/cyclepanes/internal/core/pane"
)

// Pane user options. They are plain tmux options so users and other tools
// can set them with set-option -p.
const (
	OptRegion = "@cyclepanes-region"
	OptPinned = "@cyclepanes-pinned"
	OptView   = "@cyclepanes-view"
	OptActive = "@cyclepanes-active"
)

const fieldSep = "\t"

// DefaultTitleFormat names a pane by its title when a program set one and
// by its position otherwise. tmux titles default to the hostname, which is
// the same for every pane.
const DefaultTitleFormat = "#{?#{==:#{pane_title},#{host}},#{session_name}:#{window_index}.#{pane_index},#{pane_title}}"

// paneFormat builds the list-panes -F format. The order matches the fields
// consumed by parsePaneLine; the title comes last so it may contain the
// separator.
func paneFormat(titleFormat string) string {
	if titleFormat == "" {
		titleFormat = DefaultTitleFormat
	}
	return strings.Join([]string{
		"#{pane_id}",
		"#{pane_current_command}",
		"#{session_name}",
		"#{window_id}",
		"#{" + OptRegion + "}",
		"#{" + OptPinned + "}",
		"#{" + OptActive + "}",
		"#{pane_active}",
		"#{window_active}",
		"#{" + OptView + "}",
		titleFormat,
	}, fieldSep)
}

const paneFields = 11

// paneLine is one parsed list-panes row.
type paneLine struct {
	pane         pane.Pane
	windowID     string
	paneActive   bool
	windowActive bool
}

func parsePaneLine(line string) (paneLine, error) {
	f := strings.SplitN(line, fieldSep, paneFields)
	if len(f) != paneFields {
		return paneLine{}, fmt.Errorf("expected %d fields, got %d", paneFields, len(f))
	}
	if !strings.HasPrefix(f[0], "%") {
		return paneLine{}, fmt.Errorf("bad pane id %q", f[0])
	}

	p := pane.Pane{
		ID:       f[0],
		ViewType: f[1],
		Window:   pane.WindowID(f[2]),
		Root:     pane.RootMain,
		Pinned:   f[5] == "1",
		Title:    f[10],
	}

	if region := strings.TrimSpace(f[4]); region != "" {
		p.Root = pane.RootID(region)
	}
	if view := strings.TrimSpace(f[9]); view != "" {
		p.ViewType = view
	}
	if ms, err := strconv.ParseInt(strings.TrimSpace(f[6]), 10, 64); err == nil && ms > 0 {
		p.ActiveTime = time.UnixMilli(ms)
	}

	return paneLine{
		pane:         p,
		windowID:     f[3],
		paneActive:   f[7] == "1",
		windowActive: f[8] == "1",
	}, nil
}

// parseSnapshot builds a snapshot from list-panes output. currentSession is
// the session of the invoking client and mainSession the primary window;
// an empty mainSession makes the current session primary. Rows that do not
// parse are skipped with a warning.
func parseSnapshot(out []byte, currentSession, mainSession string, log zerolog.Logger) pane.Snapshot {
	snap := pane.Snapshot{
		ActiveWindow: pane.WindowID(currentSession),
		MainWindow:   pane.WindowID(mainSession),
	}
	if mainSession == "" {
		snap.MainWindow = snap.ActiveWindow
	}

	for i, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		pl, err := parsePaneLine(line)
		if err != nil {
			log.Warn().Err(err).Int("line", i+1).Msg("skipping list-panes row")
			continue
		}

		if string(pl.pane.Window) == currentSession && pl.paneActive && pl.windowActive {
			snap.ActiveID = pl.pane.ID
		}
		snap.Panes = append(snap.Panes, pl.pane)
	}

	return snap
}
