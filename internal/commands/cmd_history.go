package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cyclepanes/internal/app"
	"github.com/hay-kot/cyclepanes/internal/core/styles"
	"github.com/hay-kot/cyclepanes/pkg/iojson"
)

type HistoryCmd struct {
	flags *Flags
	app   *app.App

	workspace string
	all       bool
	json      bool
	clear     bool
}

// NewHistoryCmd creates the history command.
func NewHistoryCmd(flags *Flags, a *app.App) *HistoryCmd {
	return &HistoryCmd{flags: flags, app: a}
}

// Register adds history to the application.
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "Show or clear the tab history",
		UsageText: "cyclepanes history [options]",
		Description: `Prints the most-recently-used pane titles of a workspace, newest first.
Defaults to the active workspace.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "workspace",
				Aliases:     []string{"w"},
				Usage:       "workspace to show instead of the active one",
				Destination: &cmd.workspace,
			},
			&cli.BoolFlag{
				Name:        "all",
				Usage:       "show every workspace",
				Destination: &cmd.all,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.json,
			},
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "clear the selected workspace's history",
				Destination: &cmd.clear,
			},
		},
		Action: cmd.run,
	})
	return app
}

type historyJSON struct {
	Workspace string   `json:"workspace"`
	Titles    []string `json:"titles"`
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.all && (cmd.clear || cmd.workspace != "") {
		return fmt.Errorf("--all cannot be combined with --workspace or --clear")
	}

	if err := cmd.app.Start(ctx); err != nil {
		return err
	}

	hist := cmd.app.Navigator.History()
	ws := cmd.workspace
	if ws == "" {
		ws = cmd.app.Navigator.Workspace()
	}

	if cmd.clear {
		if err := hist.Clear(ctx, ws); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		_, _ = fmt.Fprintf(c.Root().Writer, "cleared history for %s\n", ws)
		return nil
	}

	workspaces := []string{ws}
	if cmd.all {
		workspaces = hist.Workspaces()
	}

	out := c.Root().Writer
	for _, name := range workspaces {
		titles := hist.HistoryFor(name)

		if cmd.json {
			if err := iojson.WriteLine(out, historyJSON{Workspace: name, Titles: titles}); err != nil {
				return err
			}
			continue
		}

		_, _ = fmt.Fprintln(out, styles.TextPrimaryBoldStyle.Render(name))
		if len(titles) == 0 {
			_, _ = fmt.Fprintln(out, styles.TextMutedStyle.Render("  (empty)"))
		}
		for i, title := range titles {
			_, _ = fmt.Fprintf(out, "  %s %s\n", styles.TextMutedStyle.Render(fmt.Sprintf("%2d", i+1)), title)
		}
	}
	return nil
}
