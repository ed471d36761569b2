package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cyclepanes/internal/core/styles"
	"github.com/hay-kot/cyclepanes/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "cyclepanes config validate [options]",
				Description: "Validates the configuration file, checking bindings, chooser keys, the tmux executable and the data directory.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type validationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationOutput struct {
	Valid  bool              `json:"valid"`
	Path   string            `json:"path"`
	Errors []validationIssue `json:"errors,omitempty"`
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	out := validationOutput{Path: cmd.flags.ConfigPath}

	if err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath); err != nil {
		var fieldErrs criterio.FieldErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			out.Errors = append(out.Errors, validationIssue{Field: fe.Field, Message: fe.Err.Error()})
		}
	}
	out.Valid = len(out.Errors) == 0

	w := c.Root().Writer
	if cmd.format == "json" {
		if err := iojson.WriteLine(w, out); err != nil {
			return err
		}
	} else {
		if out.Valid {
			_, _ = fmt.Fprintf(w, "%s %s is valid\n", styles.TextSuccessStyle.Render(styles.IconPass), out.Path)
			return nil
		}
		for _, issue := range out.Errors {
			_, _ = fmt.Fprintf(w, "%s %s: %s\n",
				styles.TextErrorStyle.Render(styles.IconFail),
				styles.TextForegroundBoldStyle.Render(issue.Field),
				issue.Message,
			)
		}
	}

	if !out.Valid {
		return cli.Exit("", 1)
	}
	return nil
}
