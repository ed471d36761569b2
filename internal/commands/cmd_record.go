package commands

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cyclepanes/internal/app"
)

type RecordCmd struct {
	flags *Flags
	app   *app.App

	paneID string
}

// NewRecordCmd creates the record and layout hook commands.
func NewRecordCmd(flags *Flags, a *app.App) *RecordCmd {
	return &RecordCmd{flags: flags, app: a}
}

// Register adds record and layout to the application.
func (cmd *RecordCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "record",
			Usage:     "Record the active pane in the tab history (tmux hook)",
			UsageText: "cyclepanes record [--pane <id>]",
			Description: `Called from tmux hooks whenever a pane gains focus. Moves the pane to
the front of the current workspace's history and stamps its last-active
time. Without --pane the currently active pane is recorded.`,
			Category: "hooks",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "pane",
					Aliases:     []string{"p"},
					Usage:       "tmux pane id, e.g. %3",
					Destination: &cmd.paneID,
				},
			},
			Action: cmd.record,
		},
		&cli.Command{
			Name:     "layout",
			Usage:    "Re-resolve the workspace and cycle order (tmux hook)",
			Category: "hooks",
			Action:   cmd.layout,
		},
	)
	return app
}

func (cmd *RecordCmd) record(ctx context.Context, _ *cli.Command) error {
	if err := cmd.app.Start(ctx); err != nil {
		return err
	}

	err := cmd.app.Record(ctx, cmd.paneID)
	if errors.Is(err, app.ErrNoPane) {
		// Hooks race with pane teardown.
		log.Debug().Err(err).Msg("nothing to record")
		return nil
	}
	return err
}

func (cmd *RecordCmd) layout(ctx context.Context, _ *cli.Command) error {
	if err := cmd.app.Start(ctx); err != nil {
		return err
	}
	cmd.app.Navigator.LayoutChanged(ctx)
	return nil
}
