package logging

import "context"

type contextKey string

const (
	workspaceKey contextKey = "workspace"
	paneIDKey    contextKey = "pane_id"
)

// WithWorkspace adds a workspace to the context.
func WithWorkspace(ctx context.Context, workspace string) context.Context {
	return context.WithValue(ctx, workspaceKey, workspace)
}

// WithPaneID adds a pane ID to the context.
func WithPaneID(ctx context.Context, paneID string) context.Context {
	return context.WithValue(ctx, paneIDKey, paneID)
}

// GetWorkspace retrieves the workspace from the context.
// Returns empty string if not present.
func GetWorkspace(ctx context.Context) string {
	if id, ok := ctx.Value(workspaceKey).(string); ok {
		return id
	}
	return ""
}

// GetPaneID retrieves the pane ID from the context.
// Returns empty string if not present.
func GetPaneID(ctx context.Context) string {
	if id, ok := ctx.Value(paneIDKey).(string); ok {
		return id
	}
	return ""
}
