package workspace

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type namer struct {
	name string
	ok   bool
}

func (n namer) Workspace(context.Context) (string, bool) { return n.name, n.ok }

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		namer namer
		want  string
	}{
		{"named", namer{"research", true}, "research"},
		{"naming unavailable", namer{"", false}, Default},
		{"empty name", namer{"", true}, Default},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(context.Background(), tt.namer, zerolog.Nop()))
		})
	}
}
