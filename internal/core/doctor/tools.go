package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// lookPathFunc is the function used to find executables on PATH.
// Package-level variable to allow test overrides.
var lookPathFunc = exec.LookPath

// minTmuxMajor is the first tmux release with pane scoped user options.
const minTmuxMajor = 3

// Versioner reports the tmux version string, e.g. "tmux 3.4".
type Versioner interface {
	Version(ctx context.Context) (string, error)
}

// TmuxCheck verifies that tmux is installed, recent enough, and that the
// current process runs inside a tmux client.
type TmuxCheck struct {
	path       string
	version    Versioner
	insideTmux func() bool
}

// NewTmuxCheck creates a new tmux check.
func NewTmuxCheck(path string, version Versioner, insideTmux func() bool) *TmuxCheck {
	return &TmuxCheck{path: path, version: version, insideTmux: insideTmux}
}

func (c *TmuxCheck) Name() string {
	return "Tmux"
}

func (c *TmuxCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	path, err := lookPathFunc(c.path)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusFail,
			Detail: "not found on PATH",
		})
		return result
	}
	result.Items = append(result.Items, CheckItem{
		Label:  "tmux",
		Status: StatusPass,
		Detail: path,
	})

	result.Items = append(result.Items, c.versionItem(ctx))

	if c.insideTmux != nil && !c.insideTmux() {
		result.Items = append(result.Items, CheckItem{
			Label:  "session",
			Status: StatusWarn,
			Detail: "not running inside tmux ($TMUX is unset)",
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "session",
			Status: StatusPass,
		})
	}

	return result
}

func (c *TmuxCheck) versionItem(ctx context.Context) CheckItem {
	v, err := c.version.Version(ctx)
	if err != nil {
		return CheckItem{
			Label:  "version",
			Status: StatusFail,
			Detail: fmt.Sprintf("tmux -V failed: %v", err),
		}
	}

	major, ok := parseMajor(v)
	switch {
	case !ok:
		return CheckItem{Label: "version", Status: StatusWarn, Detail: fmt.Sprintf("unrecognized version %q", v)}
	case major < minTmuxMajor:
		return CheckItem{Label: "version", Status: StatusFail, Detail: fmt.Sprintf("%s is too old, need %d.0 or newer", v, minTmuxMajor)}
	default:
		return CheckItem{Label: "version", Status: StatusPass, Detail: v}
	}
}

// parseMajor extracts the major version from output like "tmux 3.3a" or
// "tmux next-3.5".
func parseMajor(v string) (int, bool) {
	fields := strings.Fields(v)
	if len(fields) < 2 {
		return 0, false
	}

	num := fields[1]
	if i := strings.LastIndex(num, "-"); i >= 0 {
		num = num[i+1:]
	}
	if i := strings.IndexByte(num, '.'); i >= 0 {
		num = num[:i]
	}

	major, err := strconv.Atoi(num)
	if err != nil {
		return 0, false
	}
	return major, true
}
