package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/cyclepanes/internal/core/styles"
)

type DocCmd struct {
	flags *Flags
	raw   bool
	width int
}

func NewDocCmd(flags *Flags) *DocCmd {
	return &DocCmd{flags: flags}
}

func (cmd *DocCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "doc",
		Usage: "Show the usage guide",
		Description: `Prints the cyclepanes guide: how cycling works, the settings and the
tmux integration. Output is rendered for the terminal unless --raw is set
or stdout is not a terminal.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print markdown without rendering",
				Destination: &cmd.raw,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "word wrap width",
				Value:       80,
				Destination: &cmd.width,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DocCmd) run(_ context.Context, c *cli.Command) error {
	w := c.Root().Writer
	if cmd.raw || !isTerminal(w) {
		_, err := io.WriteString(w, guide)
		return err
	}

	out, err := renderMarkdown(guide, cmd.width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	return r.Render(md)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

const guide = `# cyclepanes

Switch between tmux panes in most-recently-used order, like ctrl+tab in an
editor.

## How it works

Every time a pane gains focus, tmux runs ` + "`cyclepanes record`" + `. The pane's
title moves to the front of the workspace's tab history. Cycling walks that
history, skipping panes that no longer exist, and appends live panes that
were never focused.

Titles come from ` + "`tmux.title_format`" + `. By default a pane keeps a title set by
the program inside it and is otherwise named ` + "`session:window.pane`" + `, since
tmux titles every pane with the hostname.

A workspace is the tmux session when ` + "`tmux.per_session_workspaces`" + ` is set,
otherwise every session shares the ` + "`default`" + ` history.

## Commands

| Alias | Command id | What it does |
|---|---|---|
| prev | focus-on-last-active-pane | previous pane in MRU order |
| next | focus-on-last-active-pane-reverse | next pane in MRU order |
| right | cycle-through-panes | next pane in layout order |
| left | cycle-through-panes-reverse | previous pane in layout order |
| left-sidebar | focus-left-sidebar | most recent pane of the left region |
| right-sidebar | focus-right-sidebar | most recent pane of the right region |
| enable-view | cycle-through-panes-add-view | allow the active pane's view type |
| disable-view | cycle-through-panes-remove-view | disallow the active pane's view type |

Run ` + "`cyclepanes actions`" + ` to see which commands can run right now.

## Pane options

| Option | Meaning |
|---|---|
| @cyclepanes-region | region of the pane: main, left, right |
| @cyclepanes-pinned | 1 marks the pane pinned |
| @cyclepanes-view | view type, defaults to the running command |
| @cyclepanes-active | last-active time, maintained by record |

## Settings

Edit with ` + "`cyclepanes settings`" + `.

- **Skip pinned panes**: pinned panes never appear in the cycle order.
- **Stay in split**: only cycle within the active pane's region.
- **Focus on release**: in the chooser, switch when it closes.
- **Show pane list**: the chooser opens with the full order.
- **Filter by view type**: only cycle panes whose view type matches the
  allow-list. Entries may be globs. The enable/disable view commands edit
  the list even while filtering is off.

## Setup

Add the output of ` + "`cyclepanes tmux-conf`" + ` to your tmux.conf, then run
` + "`cyclepanes doctor`" + ` to check the installation.
`
