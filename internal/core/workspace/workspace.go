// Package workspace resolves the workspace context that scopes tab history.
package workspace

import (
	"context"

	"github.com/rs/zerolog"
)

// Default is the workspace id used when the host has no named workspace.
// It is shared with a workspace literally named "default"; persisted data
// written before named workspaces existed lives under this key.
const Default = "default"

// Namer reports the host's active named workspace.
type Namer interface {
	Workspace(ctx context.Context) (string, bool)
}

// Resolve returns the active workspace id, falling back to Default.
func Resolve(ctx context.Context, n Namer, log zerolog.Logger) string {
	name, ok := n.Workspace(ctx)
	if !ok || name == "" {
		log.Debug().Str("workspace", Default).Msg("no named workspace active, using default")
		return Default
	}
	return name
}
