package history

import (
	"context"
	"fmt"
	"sort"
)

// Persister saves the full workspace → history mapping. The store only
// shapes data; all I/O goes through this boundary.
type Persister interface {
	SaveHistory(ctx context.Context, histories map[string][]string) error
}

// PersisterFunc adapts a function to Persister.
type PersisterFunc func(ctx context.Context, histories map[string][]string) error

func (f PersisterFunc) SaveHistory(ctx context.Context, histories map[string][]string) error {
	return f(ctx, histories)
}

// Store holds one TabHistory per workspace and tracks which one is active.
// It is not safe for concurrent use; callers run it on a single event loop.
type Store struct {
	persister  Persister
	histories  map[string]*TabHistory
	workspace  string
	invalidate []func()
}

// NewStore creates a store seeded with persisted histories. Entries are
// normalized; nothing is written back until the first mutation.
func NewStore(persisted map[string][]string, persister Persister) *Store {
	s := &Store{
		persister: persister,
		histories: make(map[string]*TabHistory, len(persisted)),
	}
	for ws, ids := range persisted {
		s.histories[ws] = NewTabHistory(ids)
	}
	return s
}

// OnInvalidate registers fn to run after every recorded activation. The
// resolver uses it to drop its cached cycle order.
func (s *Store) OnInvalidate(fn func()) {
	s.invalidate = append(s.invalidate, fn)
}

// RecordActivation moves paneID to the front of workspaceID's history,
// makes that history the active one and persists every workspace. The
// in-memory update stands even when persisting fails.
func (s *Store) RecordActivation(ctx context.Context, workspaceID, paneID string) error {
	if paneID == "" {
		return nil
	}

	h, ok := s.histories[workspaceID]
	if !ok {
		h = NewTabHistory(nil)
		s.histories[workspaceID] = h
	}
	h.Record(paneID)
	s.workspace = workspaceID

	for _, fn := range s.invalidate {
		fn()
	}

	return s.persist(ctx)
}

// HistoryFor returns workspaceID's history, empty when there is none.
func (s *Store) HistoryFor(workspaceID string) []string {
	return s.histories[workspaceID].IDs()
}

// SwitchWorkspace makes workspaceID's history the active one.
func (s *Store) SwitchWorkspace(workspaceID string) {
	s.workspace = workspaceID
}

// Workspace returns the active workspace id.
func (s *Store) Workspace() string {
	return s.workspace
}

// Active returns the active history.
func (s *Store) Active() []string {
	return s.HistoryFor(s.workspace)
}

// Clear empties workspaceID's history and persists the change.
func (s *Store) Clear(ctx context.Context, workspaceID string) error {
	if _, ok := s.histories[workspaceID]; !ok {
		return nil
	}
	delete(s.histories, workspaceID)
	for _, fn := range s.invalidate {
		fn()
	}
	return s.persist(ctx)
}

// Snapshot returns a copy of every workspace's history.
func (s *Store) Snapshot() map[string][]string {
	out := make(map[string][]string, len(s.histories))
	for ws, h := range s.histories {
		out[ws] = h.IDs()
	}
	return out
}

// Workspaces returns the sorted workspace ids that have a history.
func (s *Store) Workspaces() []string {
	ids := make([]string, 0, len(s.histories))
	for ws := range s.histories {
		ids = append(ids, ws)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) persist(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.SaveHistory(ctx, s.Snapshot()); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}
