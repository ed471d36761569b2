package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/hay-kot/cyclepanes/internal/core/kv"
)

// FileName is the JSON file created inside the data directory.
const FileName = "data.json"

// lockRetry is how often a blocked lock attempt is retried.
const lockRetry = 10 * time.Millisecond

// File is the root JSON structure stored on disk.
type File struct {
	Entries map[string]fileEntry `json:"entries"`
}

type fileEntry struct {
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// KVStore implements kv.KV using a single JSON file. Every write rewrites the
// file atomically under an advisory lock shared by all processes using the
// same path. A file that fails to decode is moved aside and the store
// starts over empty.
type KVStore struct {
	path string
	mu   sync.Mutex // serializes use of lock within the process
	lock *flock.Flock
	log  zerolog.Logger
}

var _ kv.KV = (*KVStore)(nil)

// Option configures a KVStore.
type Option func(*KVStore)

// WithLogger sets the logger used to report recovered files.
func WithLogger(log zerolog.Logger) Option {
	return func(s *KVStore) { s.log = log }
}

// NewKVStore creates a JSON file KV store at the given path.
func NewKVStore(path string, opts ...Option) *KVStore {
	s := &KVStore{
		path: path,
		lock: flock.New(path + ".lock"),
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *KVStore) Path() string {
	return s.path
}

// Get retrieves and deserializes a value by key.
func (s *KVStore) Get(ctx context.Context, key string, dest any) error {
	entry, err := s.GetRaw(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(entry.Value, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}
	return nil
}

// Set stores a value, replacing any previous one.
func (s *KVStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}

	err = s.update(ctx, func(file *File) bool {
		file.Entries[key] = fileEntry{Value: data, UpdatedAt: time.Now()}
		return true
	})
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	err := s.update(ctx, func(file *File) bool {
		if _, ok := file.Entries[key]; !ok {
			return false
		}
		delete(file.Entries, key)
		return true
	})
	if err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// Has returns whether a key exists.
func (s *KVStore) Has(ctx context.Context, key string) (bool, error) {
	file, err := s.read(ctx)
	if err != nil && !errors.Is(err, kv.ErrCorrupt) {
		return false, fmt.Errorf("kv has %q: %w", key, err)
	}
	_, ok := file.Entries[key]
	return ok, nil
}

// ListKeys returns all keys in sorted order.
func (s *KVStore) ListKeys(ctx context.Context) ([]string, error) {
	file, err := s.read(ctx)
	if err != nil && !errors.Is(err, kv.ErrCorrupt) {
		return nil, fmt.Errorf("kv list keys: %w", err)
	}

	keys := make([]string, 0, len(file.Entries))
	for k := range file.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// GetRaw retrieves a raw entry with metadata. It returns an error wrapping
// kv.ErrCorrupt on the call that found the file undecodable.
func (s *KVStore) GetRaw(ctx context.Context, key string) (kv.Entry, error) {
	file, err := s.read(ctx)
	if err != nil {
		return kv.Entry{}, fmt.Errorf("kv get %q: %w", key, err)
	}

	e, ok := file.Entries[key]
	if !ok {
		return kv.Entry{}, fmt.Errorf("kv get %q: %w", key, kv.ErrNotFound)
	}

	return kv.Entry{Key: key, Value: e.Value, UpdatedAt: e.UpdatedAt}, nil
}

// read loads the file under a shared lock.
func (s *KVStore) read(ctx context.Context) (File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire(ctx, false)
	if err != nil {
		return emptyFile(), err
	}
	defer unlock()

	return s.load()
}

// update runs a read-modify-write cycle under an exclusive lock. fn reports
// whether the file changed and needs saving.
func (s *KVStore) update(ctx context.Context, fn func(*File) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	file, err := s.load()
	if err != nil && !errors.Is(err, kv.ErrCorrupt) {
		return err
	}

	if !fn(&file) {
		return nil
	}
	return s.save(file)
}

func (s *KVStore) acquire(ctx context.Context, exclusive bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, err
	}

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = s.lock.TryLockContext(ctx, lockRetry)
	} else {
		locked, err = s.lock.TryRLockContext(ctx, lockRetry)
	}
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", s.lock.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("lock %s: not acquired", s.lock.Path())
	}
	return func() { _ = s.lock.Unlock() }, nil
}

// load reads the file from disk. A missing or empty file is an empty
// store. An undecodable file is renamed to <file>.corrupt.<timestamp> and
// an empty File is returned with an error wrapping kv.ErrCorrupt.
func (s *KVStore) load() (File, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return emptyFile(), nil
		}
		return emptyFile(), err
	}

	if len(data) == 0 {
		return emptyFile(), nil
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		backup, rerr := s.moveAside()
		if rerr != nil {
			return emptyFile(), fmt.Errorf("decode %s: %w (backup failed: %v)", s.path, err, rerr)
		}
		s.log.Warn().Err(err).Str("backup", backup).Msg("state file corrupt, starting over")
		return emptyFile(), fmt.Errorf("decode %s: %w", s.path, errors.Join(kv.ErrCorrupt, err))
	}
	if file.Entries == nil {
		file.Entries = map[string]fileEntry{}
	}

	return file, nil
}

func (s *KVStore) moveAside() (string, error) {
	backup := fmt.Sprintf("%s.corrupt.%s", s.path, time.Now().Format("20060102-150405.000"))
	if err := os.Rename(s.path, backup); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	return backup, nil
}

// save writes the file to disk atomically through a unique temp file.
func (s *KVStore) save(file File) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), FileName+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

func emptyFile() File {
	return File{Entries: map[string]fileEntry{}}
}
