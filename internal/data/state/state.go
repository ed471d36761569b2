// Package state loads and saves the persisted settings blob and opens the
// configured key-value backend.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hay-kot/cyclepanes/internal/core/kv"
	"github.com/hay-kot/cyclepanes/internal/core/settings"
	"github.com/rs/zerolog"
)

const (
	// SettingsKey holds the settings blob, tab history included.
	SettingsKey = "settings"

	metaNamespace = "meta"
	lastRecordKey = "lastRecord"
)

// Repository reads and writes cycling state through a kv.KV store.
type Repository struct {
	store kv.KV
	meta  *kv.TypedKV[time.Time]
	log   zerolog.Logger
}

// New creates a repository over store.
func New(store kv.KV, log zerolog.Logger) *Repository {
	return &Repository{
		store: store,
		meta:  kv.Scoped[time.Time](store, metaNamespace),
		log:   log,
	}
}

// Load returns the persisted settings. A missing blob yields the first-run
// settings. A corrupt store or blob yields the defaults; decode problems
// are logged as warnings and never fail the load.
func (r *Repository) Load(ctx context.Context) (settings.Settings, error) {
	var raw []byte

	entry, err := r.store.GetRaw(ctx, SettingsKey)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		r.log.Debug().Msg("no persisted settings, using first-run defaults")
	case errors.Is(err, kv.ErrCorrupt):
		r.log.Warn().Err(err).Msg("persisted settings unreadable, using defaults")
		raw = []byte("{}")
	case err != nil:
		return settings.Settings{}, fmt.Errorf("load settings: %w", err)
	default:
		raw = entry.Value
	}

	s, warnings := settings.Decode(raw)
	for _, w := range warnings {
		r.log.Warn().Str("field", w.Field).Msg(w.Message)
	}

	return s, nil
}

// Save persists s in full.
func (r *Repository) Save(ctx context.Context, s settings.Settings) error {
	data, err := settings.Encode(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := r.store.Set(ctx, SettingsKey, json.RawMessage(data)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// MarkRecorded stores the time of the latest activation reported by the host.
func (r *Repository) MarkRecorded(ctx context.Context, at time.Time) error {
	return r.meta.Set(ctx, lastRecordKey, at)
}

// LastRecorded returns the time stored by MarkRecorded.
func (r *Repository) LastRecorded(ctx context.Context) (time.Time, bool, error) {
	at, err := r.meta.Get(ctx, lastRecordKey)
	if errors.Is(err, kv.ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return at, true, nil
}

// Location reports where the backend keeps its data.
func Location(backend Backend, dataDir string) string {
	switch backend {
	case BackendSQLite:
		return filepath.Join(dataDir, sqliteFile)
	default:
		return filepath.Join(dataDir, jsonFile)
	}
}
