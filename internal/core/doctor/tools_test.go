package doctor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVersion struct {
	v   string
	err error
}

func (f fakeVersion) Version(context.Context) (string, error) { return f.v, f.err }

func stubLookPath(t *testing.T, found bool) {
	t.Helper()
	orig := lookPathFunc
	t.Cleanup(func() { lookPathFunc = orig })

	lookPathFunc = func(file string) (string, error) {
		if !found {
			return "", &exec.Error{Name: file, Err: fmt.Errorf("not found")}
		}
		return "/usr/bin/" + file, nil
	}
}

func inside() bool  { return true }
func outside() bool { return false }

func TestTmuxCheck_AllGood(t *testing.T) {
	stubLookPath(t, true)

	result := NewTmuxCheck("tmux", fakeVersion{v: "tmux 3.4"}, inside).Run(context.Background())

	assert.Equal(t, "Tmux", result.Name)
	require.Len(t, result.Items, 3)
	assert.Equal(t, "/usr/bin/tmux", result.Items[0].Detail)
	assert.Equal(t, StatusPass, result.Items[1].Status)
	assert.Equal(t, "tmux 3.4", result.Items[1].Detail)
	assert.Equal(t, StatusPass, result.Items[2].Status)
}

func TestTmuxCheck_Missing(t *testing.T) {
	stubLookPath(t, false)

	result := NewTmuxCheck("tmux", fakeVersion{v: "tmux 3.4"}, inside).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
}

func TestTmuxCheck_OldVersion(t *testing.T) {
	stubLookPath(t, true)

	result := NewTmuxCheck("tmux", fakeVersion{v: "tmux 2.9a"}, inside).Run(context.Background())

	require.Len(t, result.Items, 3)
	assert.Equal(t, StatusFail, result.Items[1].Status)
}

func TestTmuxCheck_VersionError(t *testing.T) {
	stubLookPath(t, true)

	result := NewTmuxCheck("tmux", fakeVersion{err: errors.New("no server")}, inside).Run(context.Background())

	assert.Equal(t, StatusFail, result.Items[1].Status)
	assert.Contains(t, result.Items[1].Detail, "no server")
}

func TestTmuxCheck_OutsideTmux(t *testing.T) {
	stubLookPath(t, true)

	result := NewTmuxCheck("tmux", fakeVersion{v: "tmux 3.4"}, outside).Run(context.Background())

	assert.Equal(t, StatusWarn, result.Items[2].Status)
}

func TestParseMajor(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"tmux 3.4", 3, true},
		{"tmux 3.3a", 3, true},
		{"tmux next-3.5", 3, true},
		{"tmux 2.9", 2, true},
		{"tmux", 0, false},
		{"tmux master", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseMajor(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
