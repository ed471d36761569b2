package commands

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/cyclepanes/internal/app"
	"github.com/hay-kot/cyclepanes/internal/core/logging"
	"github.com/hay-kot/cyclepanes/internal/tui/chooser"
)

type ChooseCmd struct {
	flags *Flags
	app   *app.App
}

// NewChooseCmd creates the choose command.
func NewChooseCmd(flags *Flags, a *app.App) *ChooseCmd {
	return &ChooseCmd{flags: flags, app: a}
}

// Register adds choose to the application.
func (cmd *ChooseCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "choose",
		Usage:     "Open the pane chooser",
		UsageText: "cyclepanes choose",
		Description: `Opens the interactive chooser, normally inside a tmux popup:

  bind-key -n M-Tab display-popup -E -w 60 -h 20 "cyclepanes choose"

The popup acts as the held modifier. Tab and Shift+Tab step through the
most-recently-used order, the overlay key lists every candidate, typing
filters the list, Enter switches and Esc cancels.`,
		Action: cmd.run,
	})
	return app
}

func (cmd *ChooseCmd) run(ctx context.Context, _ *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("choose needs a terminal; run it through 'tmux display-popup -E'")
	}

	if err := cmd.app.Start(ctx); err != nil {
		return err
	}

	m, err := chooser.New(ctx, cmd.app.Navigator.Tracker(), chooser.NewKeyMap(cmd.app.Config.Keys), logging.Component("chooser"))
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run chooser: %w", err)
	}
	return m.Err()
}
