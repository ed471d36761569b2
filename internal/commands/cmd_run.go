package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cyclepanes/internal/app"
	"github.com/hay-kot/cyclepanes/internal/core/action"
	"github.com/hay-kot/cyclepanes/pkg/iojson"
)

type RunCmd struct {
	flags *Flags
	app   *app.App

	json bool
}

// NewRunCmd creates the run, alias and actions commands.
func NewRunCmd(flags *Flags, a *app.App) *RunCmd {
	return &RunCmd{flags: flags, app: a}
}

// Register adds run, one subcommand per alias, and actions.
func (cmd *RunCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Run a navigation command by id or alias",
		UsageText: "cyclepanes run <command>",
		Description: `Runs one navigation command against the current tmux layout.

Commands that are unavailable (no active pane, view types disabled)
exit quietly so tmux bindings never flash an error.

Run 'cyclepanes actions' to list ids and aliases.`,
		ShellComplete: ActionCompleter(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one command, got %d", c.Args().Len())
			}
			id, ok := action.Parse(c.Args().First())
			if !ok {
				return fmt.Errorf("%w: %s", action.ErrUnknown, c.Args().First())
			}
			return cmd.runAction(ctx, id)
		},
	})

	aliases := action.Aliases()
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		id := aliases[name]
		app.Commands = append(app.Commands, &cli.Command{
			Name:     name,
			Usage:    fmt.Sprintf("Shortcut for 'run %s'", id),
			Category: "navigation",
			Action: func(ctx context.Context, _ *cli.Command) error {
				return cmd.runAction(ctx, id)
			},
		})
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "actions",
		Usage: "List navigation commands and whether they can run now",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.json,
			},
		},
		Action: cmd.listActions,
	})

	return app
}

func (cmd *RunCmd) runAction(ctx context.Context, id action.Type) error {
	if err := cmd.app.Start(ctx); err != nil {
		return err
	}

	err := cmd.app.Navigator.Commands().Run(ctx, id)
	if errors.Is(err, action.ErrUnavailable) {
		log.Debug().Str("command", string(id)).Msg("command unavailable, ignoring")
		return nil
	}
	return err
}

type actionInfo struct {
	ID        string `json:"id"`
	Alias     string `json:"alias"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

func (cmd *RunCmd) listActions(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.Start(ctx); err != nil {
		return err
	}

	aliasFor := map[action.Type]string{}
	for alias, id := range action.Aliases() {
		aliasFor[id] = alias
	}

	var infos []actionInfo
	for _, command := range cmd.app.Navigator.Commands().List() {
		infos = append(infos, actionInfo{
			ID:        string(command.ID),
			Alias:     aliasFor[command.ID],
			Name:      command.Name,
			Available: command.Available(ctx),
		})
	}

	out := c.Root().Writer
	if cmd.json {
		for _, info := range infos {
			if err := iojson.WriteLine(out, info); err != nil {
				return err
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ALIAS\tID\tNAME\tAVAILABLE")
	for _, info := range infos {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", info.Alias, info.ID, info.Name, info.Available)
	}
	if err := w.Flush(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
	}
	return nil
}
