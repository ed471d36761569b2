package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "both workspace and pane_id",
			setupCtx: func() context.Context {
				ctx := context.Background()
				ctx = WithWorkspace(ctx, "research")
				ctx = WithPaneID(ctx, "%12")
				return ctx
			},
			wantKeys: []string{"workspace", "pane_id"},
		},
		{
			name: "only workspace",
			setupCtx: func() context.Context {
				return WithWorkspace(context.Background(), "research")
			},
			wantKeys:  []string{"workspace"},
			wantEmpty: []string{"pane_id"},
		},
		{
			name: "only pane_id",
			setupCtx: func() context.Context {
				return WithPaneID(context.Background(), "%12")
			},
			wantKeys:  []string{"pane_id"},
			wantEmpty: []string{"workspace"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"workspace", "pane_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := tt.setupCtx()

			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(ctx).Msg("test")

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("failed to parse log: %v", err)
			}

			for _, key := range tt.wantKeys {
				if _, ok := logEntry[key]; !ok {
					t.Errorf("expected %s to be present in log", key)
				}
			}

			for _, key := range tt.wantEmpty {
				if _, ok := logEntry[key]; ok {
					t.Errorf("expected %s to be absent from log", key)
				}
			}
		})
	}
}
