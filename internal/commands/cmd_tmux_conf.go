package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cyclepanes/internal/core/config"
	"github.com/hay-kot/cyclepanes/pkg/tmpl"
)

type TmuxConfCmd struct {
	flags *Flags

	popupWidth  string
	popupHeight string
}

// NewTmuxConfCmd creates the tmux-conf command.
func NewTmuxConfCmd(flags *Flags) *TmuxConfCmd {
	return &TmuxConfCmd{flags: flags}
}

// Register adds tmux-conf to the application.
func (cmd *TmuxConfCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tmux-conf",
		Usage:     "Print the tmux hooks and key bindings",
		UsageText: "cyclepanes tmux-conf >> ~/.tmux.conf",
		Description: `Prints the tmux configuration that records pane focus and binds the
navigation commands. Bindings come from tmux.bindings in the config file.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "popup-width",
				Usage:       "chooser popup width",
				Value:       "60",
				Destination: &cmd.popupWidth,
			},
			&cli.StringFlag{
				Name:        "popup-height",
				Usage:       "chooser popup height",
				Value:       "20",
				Destination: &cmd.popupHeight,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *TmuxConfCmd) run(_ context.Context, c *cli.Command) error {
	return writeTmuxConf(c.Root().Writer, cmd.flags.Config, cmd.popupWidth, cmd.popupHeight)
}

const tmuxConfTemplate = `# cyclepanes: record pane focus for most-recently-used cycling
set-option -g focus-events on
set-hook -g after-select-pane { run-shell -b "{{ exe | shq }} record --pane #{pane_id}" }
set-hook -g after-select-window { run-shell -b "{{ exe | shq }} record" }
set-hook -g client-session-changed { run-shell -b "{{ exe | shq }} record" }
set-hook -g pane-focus-in { run-shell -b "{{ exe | shq }} record --pane #{pane_id}" }
set-hook -g after-kill-pane { run-shell -b "{{ exe | shq }} layout" }
{{ range $key, $action := .Bindings }}
{{- if eq $action "choose" }}
bind-key -n {{ $key }} display-popup -E -w {{ $.PopupWidth }} -h {{ $.PopupHeight }} "{{ exe | shq }} choose"
{{- else }}
bind-key -n {{ $key }} run-shell -b "{{ exe | shq }} run {{ $action }}"
{{- end }}
{{- end }}
`

func writeTmuxConf(w io.Writer, cfg *config.Config, width, height string) error {
	out, err := tmpl.Render(tmuxConfTemplate, map[string]any{
		"Bindings":    cfg.Tmux.Bindings,
		"PopupWidth":  width,
		"PopupHeight": height,
	})
	if err != nil {
		return fmt.Errorf("render tmux config: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}
