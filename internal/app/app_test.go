package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/cyclepanes/internal/core/config"
	"github.com/hay-kot/cyclepanes/internal/core/doctor"
	"github.com/hay-kot/cyclepanes/internal/core/kv"
	"github.com/hay-kot/cyclepanes/internal/core/pane"
	"github.com/hay-kot/cyclepanes/internal/core/pane/panetest"
	"github.com/hay-kot/cyclepanes/internal/core/workspace"
	"github.com/hay-kot/cyclepanes/internal/store/jsonfile"
)

type fakeHost struct {
	*panetest.Host
}

func (fakeHost) Version(context.Context) (string, error) { return "tmux 3.4", nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func newTestApp(t *testing.T, store kv.KV, host *panetest.Host) *App {
	t.Helper()
	a := NewWith(testConfig(t), store, fakeHost{host}, zerolog.Nop())
	a.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return a
}

func testPanes() *panetest.Host {
	h := panetest.New(
		pane.Pane{ID: "%1", Title: "notes", ViewType: "nvim"},
		pane.Pane{ID: "%2", Title: "build", ViewType: "zsh"},
	)
	h.ActiveID = "%2"
	return h
}

func TestRecord_ActivePane(t *testing.T) {
	ctx := context.Background()
	store := jsonfile.NewKVStore(filepath.Join(t.TempDir(), "data.json"))
	host := testPanes()
	a := newTestApp(t, store, host)
	require.NoError(t, a.Start(ctx))

	require.NoError(t, a.Record(ctx, ""))

	assert.Equal(t, []string{"build"}, a.Navigator.History().HistoryFor(workspace.Default))
	assert.Equal(t, []string{"stamp"}, host.Ops())

	at, ok, err := a.State.LastRecorded(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, at.Equal(a.now()))
}

func TestRecord_ByIDPersists(t *testing.T) {
	ctx := context.Background()
	store := jsonfile.NewKVStore(filepath.Join(t.TempDir(), "data.json"))

	a := newTestApp(t, store, testPanes())
	require.NoError(t, a.Start(ctx))
	require.NoError(t, a.Record(ctx, "%2"))
	require.NoError(t, a.Record(ctx, "%1"))

	// A fresh invocation sees the history written by the previous ones.
	b := newTestApp(t, store, testPanes())
	require.NoError(t, b.Start(ctx))
	assert.Equal(t, []string{"notes", "build"}, b.Navigator.History().HistoryFor(workspace.Default))
}

func TestRecord_UnknownPane(t *testing.T) {
	ctx := context.Background()
	store := jsonfile.NewKVStore(filepath.Join(t.TempDir(), "data.json"))
	a := newTestApp(t, store, testPanes())
	require.NoError(t, a.Start(ctx))

	err := a.Record(ctx, "%9")
	require.ErrorIs(t, err, ErrNoPane)

	host := testPanes()
	host.ActiveID = ""
	b := newTestApp(t, store, host)
	require.ErrorIs(t, b.Record(ctx, ""), ErrNoPane)
}

func TestRecord_SnapshotError(t *testing.T) {
	host := testPanes()
	host.Err = errors.New("no server running")
	a := newTestApp(t, jsonfile.NewKVStore(filepath.Join(t.TempDir(), "data.json")), host)

	err := a.Record(context.Background(), "")
	assert.ErrorContains(t, err, "no server running")
}

func TestDoctor_RunChecks(t *testing.T) {
	ctx := context.Background()
	store := jsonfile.NewKVStore(filepath.Join(t.TempDir(), "data.json"))
	a := newTestApp(t, store, testPanes())
	require.NoError(t, a.Start(ctx))
	require.NoError(t, a.Record(ctx, ""))

	results := a.Doctor.RunChecks(ctx, "", false)

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"Configuration", "Tmux", "Data Directory", "Storage", "Activation Hook"}, names)

	hook := results[4]
	require.Len(t, hook.Items, 1)
	assert.Equal(t, doctor.StatusPass, hook.Items[0].Status)
}
