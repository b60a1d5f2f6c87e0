package kvcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/patrickmn/go-cache"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps entries in a go-cache instance without expiry. When a
// snapshot path is set every write is flushed to that file and the file is
// read back on construction, so entries survive a restart.
type MemoryStore struct {
	cache        *cache.Cache
	snapshotPath string
	mu           sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, 0)}
}

// NewSnapshotMemoryStore creates a MemoryStore backed by a JSON snapshot file.
// A missing file is not an error.
func NewSnapshotMemoryStore(path string) (*MemoryStore, error) {
	s := &MemoryStore{cache: cache.New(cache.NoExpiration, 0), snapshotPath: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	v, found := s.cache.Get(key)
	if !found {
		return "", false, nil
	}
	str, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("unexpected value type %T for key %s", v, key)
	}
	return str, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.cache.Set(key, value, cache.NoExpiration)
	return s.save()
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return s.save()
}

// Flush drops every entry.
func (s *MemoryStore) Flush() error {
	s.cache.Flush()
	return s.save()
}

func (s *MemoryStore) load() error {
	data, err := os.ReadFile(s.snapshotPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache snapshot: %w", err)
	}
	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to decode cache snapshot %s: %w", s.snapshotPath, err)
	}
	for k, v := range entries {
		s.cache.Set(k, v, cache.NoExpiration)
	}
	return nil
}

func (s *MemoryStore) save() error {
	if s.snapshotPath == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.cache.Items()
	entries := make(map[string]string, len(items))
	for k, item := range items {
		if v, ok := item.Object.(string); ok {
			entries[k] = v
		}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode cache snapshot: %w", err)
	}
	if dir := filepath.Dir(s.snapshotPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot dir: %w", err)
		}
	}
	tmp := s.snapshotPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache snapshot: %w", err)
	}
	return os.Rename(tmp, s.snapshotPath)
}
