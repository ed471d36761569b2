// Package config handles configuration loading and validation for cyclepanes.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/cyclepanes/internal/core/action"
	"github.com/hay-kot/cyclepanes/internal/core/styles"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// ActionChoose opens the chooser overlay from a tmux binding.
const ActionChoose = "choose"

// defaultBindings are the tmux key bindings printed by tmux-conf. Values are
// command aliases or ActionChoose.
var defaultBindings = map[string]string{
	"M-Tab": ActionChoose,
	"M-n":   "next",
	"M-p":   "prev",
	"M-]":   "right",
	"M-[":   "left",
	"M-h":   "left-sidebar",
	"M-l":   "right-sidebar",
}

// Config holds the application configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Tmux    TmuxConfig    `yaml:"tmux"`
	Keys    KeysConfig    `yaml:"keys"`
	UI      UIConfig      `yaml:"ui"`
	DataDir string        `yaml:"-"` // set by caller, not from config file
}

// StorageConfig selects where settings and history are persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // json or sqlite
}

// TmuxConfig configures the tmux host.
type TmuxConfig struct {
	Path                 string            `yaml:"path"`
	Constrained          bool              `yaml:"constrained"`
	SearchKeys           []string          `yaml:"search_keys"`
	PerSessionWorkspaces bool              `yaml:"per_session_workspaces"`
	MainSession          string            `yaml:"main_session"`
	TitleFormat          string            `yaml:"title_format"` // tmux format naming a pane in history and the chooser
	Bindings             map[string]string `yaml:"bindings"`
}

// UIConfig configures the chooser and CLI output.
type UIConfig struct {
	Theme string `yaml:"theme"`
}

// KeysConfig holds the chooser key bindings. Each entry lists bubbletea
// key names.
type KeysConfig struct {
	Forward  []string `yaml:"forward"`
	Backward []string `yaml:"backward"`
	Overlay  []string `yaml:"overlay"`
	Commit   []string `yaml:"commit"`
	Cancel   []string `yaml:"cancel"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{Backend: BackendJSON},
		Tmux: TmuxConfig{
			Path:       "tmux",
			SearchKeys: []string{},
			Bindings:   map[string]string{},
		},
		Keys: KeysConfig{
			Forward:  []string{"tab", "ctrl+n"},
			Backward: []string{"shift+tab", "ctrl+p"},
			Overlay:  []string{"ctrl+o"},
			Commit:   []string{"enter"},
			Cancel:   []string{"esc", "ctrl+c"},
		},
		UI: UIConfig{Theme: styles.DefaultTheme},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.Tmux.Bindings = mergeBindings(defaultBindings, cfg.Tmux.Bindings)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.Tmux.Path == "" {
		c.Tmux.Path = defaults.Tmux.Path
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if len(c.Keys.Forward) == 0 {
		c.Keys.Forward = defaults.Keys.Forward
	}
	if len(c.Keys.Backward) == 0 {
		c.Keys.Backward = defaults.Keys.Backward
	}
	if len(c.Keys.Overlay) == 0 {
		c.Keys.Overlay = defaults.Keys.Overlay
	}
	if len(c.Keys.Commit) == 0 {
		c.Keys.Commit = defaults.Keys.Commit
	}
	if len(c.Keys.Cancel) == 0 {
		c.Keys.Cancel = defaults.Keys.Cancel
	}
}

// mergeBindings merges user bindings into defaults. User bindings override
// defaults for the same key; an empty value removes the binding.
func mergeBindings(defaults, user map[string]string) map[string]string {
	result := make(map[string]string, len(defaults)+len(user))

	for k, v := range defaults {
		result[k] = v
	}

	for k, v := range user {
		if v == "" {
			delete(result, k)
			continue
		}
		result[k] = v
	}

	return result
}

// IsValidBindingAction reports whether a tmux binding value names a command.
func IsValidBindingAction(value string) bool {
	if value == ActionChoose {
		return true
	}
	_, ok := action.Parse(value)
	return ok
}
