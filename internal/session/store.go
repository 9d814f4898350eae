// Package session owns the locally persisted identity: the auth token
// and the manually entered student id. Every other component reads and
// writes it through the Store interface, never through ambient state.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Fixed storage keys. Exactly these two values are persisted.
const (
	KeyAuthToken = "token"
	KeyStudentID = "studentId"
)

// Store is a durable key-value identity cache. Set and Clear return
// only after the value is persisted, so a read immediately after a
// write always observes it — there is deliberately no asynchronous
// flush to paper over.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Clear(key string) error
}

// FileStore persists values as a small JSON file with atomic
// write-and-rename, surviving process restarts.
type FileStore struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// NewFileStore opens (or creates) the store at path, loading any
// previously persisted values.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.values); err != nil {
			// A corrupt identity cache is not fatal; start fresh.
			s.values = make(map[string]string)
		}
	}
	return s, nil
}

// Get returns the stored value for key, if present.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	return v, ok && v != ""
}

// Set persists value under key before returning.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.flushLocked()
}

// Clear removes key and persists the removal before returning.
func (s *FileStore) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return s.flushLocked()
}

func (s *FileStore) flushLocked() error {
	data, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// MemoryStore is a non-durable Store for tests and ephemeral use.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	return v, ok && v != ""
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

func (s *MemoryStore) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// TokenSource adapts a Store to the transport's credential lookup.
type TokenSource struct {
	store Store
}

// NewTokenSource wraps store for use as an httpclient.TokenSource.
func NewTokenSource(store Store) *TokenSource {
	return &TokenSource{store: store}
}

// Token returns the current auth token, if one is stored.
func (t *TokenSource) Token() (string, bool) {
	return t.store.Get(KeyAuthToken)
}
