// Package store persists small pieces of console state (current selection,
// notification history, last detail panel) as opaque JSON values under string keys in a single
// JSON file.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rileyhilliard/sdnctl/internal/errors"
	"github.com/rileyhilliard/sdnctl/internal/logger"
)

// Well-known keys.
const (
	KeySelection     = "selection"
	KeyNotifications = "notifications"
	KeyLastPanel     = "last_panel"
)

// stateFile is the root JSON structure stored on disk.
type stateFile struct {
	Values map[string]json.RawMessage `json:"values"`
}

// Store is a key to JSON value store backed by a file.
type Store struct {
	path string
	mu   sync.RWMutex
	log  logger.Logger
}

// New creates a store at path. The file is created on first Save.
func New(path string, log logger.Logger) *Store {
	if log == nil {
		log = logger.Noop()
	}
	return &Store{path: path, log: log}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Save stores value under key, replacing any previous value.
func (s *Store) Save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"Can't serialize value for "+key, "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		// A corrupt file is replaced rather than blocking every future save.
		s.log.Warn("state file %s unreadable, starting fresh: %v", s.path, err)
		file = stateFile{}
	}
	if file.Values == nil {
		file.Values = make(map[string]json.RawMessage)
	}
	file.Values[key] = data

	if err := s.save(file); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"Failed to write state file "+s.path, "Check the directory is writable")
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil || file.Values == nil {
		return nil
	}
	if _, ok := file.Values[key]; !ok {
		return nil
	}
	delete(file.Values, key)

	if err := s.save(file); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"Failed to write state file "+s.path, "")
	}
	return nil
}

// Keys returns all stored keys, sorted.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return nil
	}
	keys := make([]string, 0, len(file.Values))
	for k := range file.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Verify reads the state file and reports whether it decodes. A missing file
// is not an error.
func (s *Store) Verify() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.load(); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"State file "+s.path+" is unreadable",
			"Delete it; sdnctl recreates it on the next save")
	}
	return nil
}

func (s *Store) raw(key string) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		s.log.Warn("failed to read state file %s: %v", s.path, err)
		return nil, false
	}
	data, ok := file.Values[key]
	return data, ok
}

// Load returns the value stored under key, or def when the key is absent or
// its value does not decode into T.
func Load[T any](s *Store, key string, def T) T {
	if s == nil {
		return def
	}
	data, ok := s.raw(key)
	if !ok {
		return def
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.log.Warn("failed to decode state %q: %v", key, err)
		return def
	}
	return v
}

// load reads the state file from disk.
// Returns an empty stateFile if the file doesn't exist.
func (s *Store) load() (stateFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return stateFile{}, nil
		}
		return stateFile{}, err
	}

	if len(data) == 0 {
		return stateFile{}, nil
	}

	var file stateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return stateFile{}, err
	}

	return file, nil
}

// save writes the state file to disk atomically.
func (s *Store) save(file stateFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}
