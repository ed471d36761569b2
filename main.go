package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cyclepanes/internal/app"
	"github.com/hay-kot/cyclepanes/internal/commands"
	"github.com/hay-kot/cyclepanes/internal/core/config"
	"github.com/hay-kot/cyclepanes/internal/core/logging"
	"github.com/hay-kot/cyclepanes/internal/core/styles"
	"github.com/hay-kot/cyclepanes/pkg/executil"
	"github.com/hay-kot/cyclepanes/pkg/logutils"
	"github.com/hay-kot/cyclepanes/pkg/tmpl"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		cpApp     = &app.App{}
		opened    bool
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "cyclepanes",
		Usage:     "Cycle tmux panes in most-recently-used order",
		UsageText: "cyclepanes [global options] command [command options]",
		Description: `cyclepanes keeps a per-workspace history of focused tmux panes and
switches between them in most-recently-used order.

Run 'cyclepanes tmux-conf' to print the hooks and key bindings.
Run 'cyclepanes doctor' to check the installation.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("CYCLEPANES_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/cyclepanes.log)",
				Sources:     cli.EnvVars("CYCLEPANES_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("CYCLEPANES_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("CYCLEPANES_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; tmux hooks have no terminal to write to.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "cyclepanes.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.UI.Theme)
			styles.SetTheme(palette)

			if exe, err := os.Executable(); err == nil {
				tmpl.SetExecutable(exe)
			}

			a, err := app.New(cfg, &executil.RealExecutor{}, log.With().Str("component", "cyclepanes").Logger())
			if err != nil {
				return ctx, fmt.Errorf("open app: %w", err)
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*cpApp = *a
			opened = true

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if opened {
				if err := cpApp.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close store")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	root = commands.NewRunCmd(flags, cpApp).Register(root)
	root = commands.NewRecordCmd(flags, cpApp).Register(root)
	root = commands.NewChooseCmd(flags, cpApp).Register(root)
	root = commands.NewHistoryCmd(flags, cpApp).Register(root)
	root = commands.NewSettingsCmd(flags, cpApp).Register(root)
	root = commands.NewDoctorCmd(flags, cpApp).Register(root)
	root = commands.NewTmuxConfCmd(flags).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)
	root = commands.NewDocCmd(flags).Register(root)

	exitCode := 0
	runErr := root.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
