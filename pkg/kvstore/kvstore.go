// Package kvstore persists small client state as a single JSON document
// under fixed string keys, the way a browser keeps local storage.
package kvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Well-known keys mirrored from the persisted browser snapshot.
const (
	KeyToken      = "token"
	KeyAdminToken = "adminToken"
	KeyUser       = "user"
	KeyBookmarks  = "bookmarkedArticles"
	KeyLikes      = "likedArticles"
)

type Store struct {
	mu   sync.RWMutex
	path string
	data []byte
}

// Open loads the snapshot at path, creating an empty one if the file does
// not exist. An empty path keeps the store in memory only.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: []byte("{}")}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("snapshot %s is not valid JSON", path)
	}

	s.data = raw
	return s, nil
}

// NewMemory returns a store that never touches disk.
func NewMemory() *Store {
	return &Store{data: []byte("{}")}
}

// GetString returns the string stored under key, or "" when absent.
func (s *Store) GetString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return gjson.GetBytes(s.data, key).String()
}

// Has reports whether key holds any value.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return gjson.GetBytes(s.data, key).Exists()
}

// Get unmarshals the value stored under key into out. Missing keys leave
// out untouched and return false.
func (s *Store) Get(key string, out any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := gjson.GetBytes(s.data, key)
	if !res.Exists() {
		return false, nil
	}
	if err := json.Unmarshal([]byte(res.Raw), out); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

// SetString stores val under key and flushes the snapshot.
func (s *Store) SetString(key, val string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := sjson.SetBytes(s.data, key, val)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	s.data = data
	return s.save()
}

// Set marshals v and stores it under key.
func (s *Store) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := sjson.SetRawBytes(s.data, key, raw)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	s.data = data
	return s.save()
}

// Delete removes key from the snapshot. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := sjson.DeleteBytes(s.data, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	s.data = data
	return s.save()
}

// save writes the snapshot atomically. Caller must hold the write lock.
func (s *Store) save() error {
	if s.path == "" {
		return nil
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := os.WriteFile(tmp, s.data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
