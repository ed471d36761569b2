package chooser

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/hay-kot/cyclepanes/internal/core/config"
)

// KeyMap holds the chooser bindings.
type KeyMap struct {
	Forward  key.Binding
	Backward key.Binding
	Overlay  key.Binding
	Commit   key.Binding
	Cancel   key.Binding
}

// NewKeyMap builds the bindings from configuration.
func NewKeyMap(cfg config.KeysConfig) KeyMap {
	return KeyMap{
		Forward:  binding(cfg.Forward, "next"),
		Backward: binding(cfg.Backward, "prev"),
		Overlay:  binding(cfg.Overlay, "list"),
		Commit:   binding(cfg.Commit, "focus"),
		Cancel:   binding(cfg.Cancel, "cancel"),
	}
}

func binding(keys []string, desc string) key.Binding {
	helpKey := ""
	if len(keys) > 0 {
		helpKey = keys[0]
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc))
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Forward, k.Backward, k.Overlay, k.Commit, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
