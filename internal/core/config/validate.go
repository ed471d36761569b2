package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/cyclepanes/internal/core/styles"
)

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("storage.backend", c.Storage.Backend, validBackend),
		criterio.Run("tmux.path", c.Tmux.Path, notEmpty),
		criterio.Run("data_dir", c.DataDir, notEmpty),
		criterio.Run("ui.theme", c.UI.Theme, validTheme),
		c.validateBindings(),
		c.validateKeys(),
	)
}

// ValidateDeep performs Validate plus checks that touch the filesystem: the
// config file, the data directory and the tmux executable.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("tmux.path", c.Tmux.Path, executableExists),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func (c *Config) validateBindings() error {
	keys := make([]string, 0, len(c.Tmux.Bindings))
	for k := range c.Tmux.Bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs criterio.FieldErrorsBuilder
	for _, key := range keys {
		value := c.Tmux.Bindings[key]
		if !IsValidBindingAction(value) {
			errs = errs.Append(fmt.Sprintf("tmux.bindings[%q]", key), fmt.Errorf("unknown command %q", value))
		}
	}
	return errs.ToError()
}

func (c *Config) validateKeys() error {
	var errs criterio.FieldErrorsBuilder

	seen := map[string]string{}
	groups := []struct {
		name string
		keys []string
	}{
		{"keys.forward", c.Keys.Forward},
		{"keys.backward", c.Keys.Backward},
		{"keys.overlay", c.Keys.Overlay},
		{"keys.commit", c.Keys.Commit},
		{"keys.cancel", c.Keys.Cancel},
	}

	for _, g := range groups {
		for _, k := range g.keys {
			if k == "" {
				errs = errs.Append(g.name, errors.New("key cannot be empty"))
				continue
			}
			if other, ok := seen[k]; ok && other != g.name {
				errs = errs.Append(g.name, fmt.Errorf("key %q is already bound in %s", k, other))
				continue
			}
			seen[k] = g.name
		}
	}

	return errs.ToError()
}

func validBackend(backend string) error {
	switch backend {
	case BackendJSON, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("must be %q or %q, got %q", BackendJSON, BackendSQLite, backend)
	}
}

func validTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// executableExists validates that the path resolves to an executable.
func executableExists(path string) error {
	if path == "" {
		return nil
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("executable not found: %s", path)
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
