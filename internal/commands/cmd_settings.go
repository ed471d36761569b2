package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cyclepanes/internal/app"
	"github.com/hay-kot/cyclepanes/internal/core/settings"
	"github.com/hay-kot/cyclepanes/internal/core/styles"
	"github.com/hay-kot/cyclepanes/pkg/iojson"
)

type SettingsCmd struct {
	flags *Flags
	app   *app.App

	json bool
	fr   *iojson.FileReader[json.RawMessage]
}

// NewSettingsCmd creates the settings command.
func NewSettingsCmd(flags *Flags, a *app.App) *SettingsCmd {
	return &SettingsCmd{flags: flags, app: a, fr: &iojson.FileReader[json.RawMessage]{}}
}

// Register adds settings and its subcommands to the application.
func (cmd *SettingsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "settings",
		Usage:     "Edit the cycling settings",
		UsageText: "cyclepanes settings [command]",
		Description: `Without a subcommand, opens an interactive form for the cycling settings.
Changes are saved immediately; the tab history is preserved.`,
		Action: cmd.edit,
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the current settings",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output the stored JSON layout",
						Destination: &cmd.json,
					},
				},
				Action: cmd.show,
			},
			{
				Name:  "import",
				Usage: "Replace the settings with a JSON document",
				Description: `Reads a settings document in the stored layout. Fields that are missing
or malformed fall back to defaults and are reported. The tab history is
never replaced.`,
				Flags:  []cli.Flag{cmd.fr.Flag()},
				Action: cmd.importSettings,
			},
		},
	})
	return app
}

func (cmd *SettingsCmd) edit(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.Start(ctx); err != nil {
		return err
	}

	s := cmd.app.Navigator.Settings()
	viewTypes := strings.Join(s.ViewTypes, ", ")

	if err := settingsForm(&s, &viewTypes).Run(); err != nil {
		return err
	}

	s.ViewTypes = parseViewTypes(viewTypes)
	if err := cmd.app.Navigator.UpdateSettings(ctx, func(dst *settings.Settings) { *dst = s }); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(c.Root().Writer, styles.TextSuccessStyle.Render("settings saved"))
	return nil
}

func settingsForm(s *settings.Settings, viewTypes *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Skip pinned panes?").
				Description("Pinned panes are left out of the cycle order").
				Value(&s.SkipPinned),
			huh.NewConfirm().
				Title("Stay in split?").
				Description("Only cycle through panes of the active pane's region").
				Value(&s.StayInSplit),
			huh.NewConfirm().
				Title("Focus on release?").
				Description("Wait until the chooser closes before switching panes").
				Value(&s.FocusLeafOnKeyUp),
			huh.NewConfirm().
				Title("Show pane list?").
				Description("The chooser opens with the full cycle order").
				Value(&s.ShowModal),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Filter by view type?").
				Description("Only cycle through panes whose view type is allowed").
				Value(&s.UseViewTypes),
			huh.NewInput().
				Title("Allowed view types").
				Description("Comma-separated; globs such as 'n*vim' are allowed").
				Validate(validateViewTypes).
				Value(viewTypes),
		),
	).WithTheme(styles.FormTheme())
}

// parseViewTypes splits a comma-separated list, dropping blanks.
func parseViewTypes(s string) []string {
	out := []string{}
	for _, vt := range strings.Split(s, ",") {
		vt = strings.TrimSpace(vt)
		if vt != "" {
			out = append(out, vt)
		}
	}
	return out
}

func validateViewTypes(s string) error {
	for _, vt := range parseViewTypes(s) {
		if !doublestar.ValidatePattern(vt) {
			return fmt.Errorf("invalid pattern %q", vt)
		}
	}
	return nil
}

func (cmd *SettingsCmd) show(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.Start(ctx); err != nil {
		return err
	}

	s := cmd.app.Navigator.Settings()
	out := c.Root().Writer

	if cmd.json {
		s.TabHistoryPerWorkspace = nil
		return iojson.WriteWith(out, os.Stderr, s)
	}

	rows := []struct {
		label string
		value any
	}{
		{"skip pinned", s.SkipPinned},
		{"stay in split", s.StayInSplit},
		{"focus on release", s.FocusLeafOnKeyUp},
		{"show pane list", s.ShowModal},
		{"filter by view type", s.UseViewTypes},
		{"view types", strings.Join(s.ViewTypes, ", ")},
	}
	for _, r := range rows {
		_, _ = fmt.Fprintf(out, "%s %v\n", styles.TextMutedStyle.Render(fmt.Sprintf("%-20s", r.label)), r.value)
	}
	return nil
}

func (cmd *SettingsCmd) importSettings(ctx context.Context, c *cli.Command) error {
	raw, err := cmd.fr.Read()
	if err != nil {
		return err
	}

	if err := cmd.app.Start(ctx); err != nil {
		return err
	}

	imported, warnings := settings.Decode(raw)
	for _, w := range warnings {
		_, _ = fmt.Fprintln(os.Stderr, styles.TextWarningStyle.Render(w.String()))
	}

	if err := cmd.app.Navigator.UpdateSettings(ctx, func(dst *settings.Settings) { *dst = imported }); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(c.Root().Writer, styles.TextSuccessStyle.Render("settings imported from "+cmd.fr.Source()))
	return nil
}
