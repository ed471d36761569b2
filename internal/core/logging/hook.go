package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts workspace and pane_id from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if workspace := GetWorkspace(ctx); workspace != "" {
		e.Str("workspace", workspace)
	}

	if paneID := GetPaneID(ctx); paneID != "" {
		e.Str("pane_id", paneID)
	}
}
