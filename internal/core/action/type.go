package action

// Type identifies a navigation command. The ids are stable; tmux bindings
// and scripts refer to them.
type Type string

const (
	TypeGoRight        Type = "cycle-through-panes"
	TypeGoLeft         Type = "cycle-through-panes-reverse"
	TypeEnableView     Type = "cycle-through-panes-add-view"
	TypeDisableView    Type = "cycle-through-panes-remove-view"
	TypeFocusLeftSide  Type = "focus-left-sidebar"
	TypeFocusRightSide Type = "focus-right-sidebar"
	TypeGoPrevious     Type = "focus-on-last-active-pane"
	TypeGoNext         Type = "focus-on-last-active-pane-reverse"
)

// aliases are the short CLI names for each command.
var aliases = map[string]Type{
	"right":         TypeGoRight,
	"left":          TypeGoLeft,
	"enable-view":   TypeEnableView,
	"disable-view":  TypeDisableView,
	"left-sidebar":  TypeFocusLeftSide,
	"right-sidebar": TypeFocusRightSide,
	"prev":          TypeGoPrevious,
	"next":          TypeGoNext,
}

// Aliases returns the short name → command id table.
func Aliases() map[string]Type {
	out := make(map[string]Type, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}

// Parse resolves a command id or alias.
func Parse(s string) (Type, bool) {
	if t, ok := aliases[s]; ok {
		return t, true
	}
	switch t := Type(s); t {
	case TypeGoRight, TypeGoLeft, TypeEnableView, TypeDisableView,
		TypeFocusLeftSide, TypeFocusRightSide, TypeGoPrevious, TypeGoNext:
		return t, true
	}
	return "", false
}
