package styles

import "github.com/hay-kot/cyclepanes/internal/core/pane"

// Tip: To find icons use https://github.com/loichyan/nerdfix

// Status icons
var (
	IconPass = "✔"
	IconWarn = "●"
	IconFail = "✘"
)

// View type icons
var (
	IconViewDefault = "\ue795"     // terminal
	IconViewEditor  = "\ue62b"     // vim
	IconViewSearch  = "\uf002"     // magnifier
	IconViewShell   = "\uf489"     // shell prompt
	IconViewGit     = "\ue702"     // git
	IconViewMonitor = "\U000F0128" // gauge
)

var viewIcons = map[string]string{
	pane.ViewSearch: IconViewSearch,
	"nvim":          IconViewEditor,
	"vim":           IconViewEditor,
	"zsh":           IconViewShell,
	"bash":          IconViewShell,
	"fish":          IconViewShell,
	"lazygit":       IconViewGit,
	"tig":           IconViewGit,
	"htop":          IconViewMonitor,
	"btop":          IconViewMonitor,
}

// IconForView returns the icon for a pane view type.
func IconForView(viewType string) string {
	if icon, ok := viewIcons[viewType]; ok {
		return icon
	}
	return IconViewDefault
}
