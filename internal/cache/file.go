package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps the whole cache as one JSON document on disk:
//
//	{ "<url>": { "time": <epoch-ms>, "data": <payload> } }
//
// Load re-reads the document and every Put rewrites it in full. Both run
// under one lock, so puts from the same process never drop each other's keys.
type FileStore struct {
	path    string
	mu      sync.Mutex
	entries map[string]Entry
	now     func() time.Time
}

type fileEntry struct {
	Time int64           `json:"time"`
	Data json.RawMessage `json:"data"`
}

func NewFileStore(path string, opts ...StoreOption) *FileStore {
	cfg := newStoreConfig(opts)
	return &FileStore{path: path, entries: make(map[string]Entry), now: cfg.now}
}

// Path returns the location of the cache document.
func (s *FileStore) Path() string { return s.path }

// Load replaces the in-memory mapping with the contents of the file.
// A missing file is an empty cache.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.read()
	if err != nil {
		return err
	}
	s.entries = entries
	return nil
}

func (s *FileStore) Get(key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return Entry{}, false, nil
	}
	return Entry{FetchedAt: e.FetchedAt, Value: cloneValue(e.Value)}, true, nil
}

// Put re-reads the file, stores value under key and writes the full mapping
// back before returning. On failure the in-memory mapping is left unchanged.
func (s *FileStore) Put(key string, value json.RawMessage) error {
	v, err := compactValue(value)
	if err != nil {
		return &StoreError{Op: "put", Path: s.path, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.read()
	if err != nil {
		return err
	}
	entries[key] = Entry{FetchedAt: s.now(), Value: v}
	if err := s.write(entries); err != nil {
		return err
	}
	s.entries = entries
	return nil
}

func (s *FileStore) read() (map[string]Entry, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]Entry), nil
	}
	if err != nil {
		return nil, &StoreError{Op: "load", Path: s.path, Err: err}
	}
	var raw map[string]fileEntry
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, &StoreError{Op: "load", Path: s.path, Err: err}
	}
	entries := make(map[string]Entry, len(raw))
	for k, fe := range raw {
		v, err := compactValue(fe.Data)
		if err != nil {
			return nil, &StoreError{Op: "load", Path: s.path, Err: err}
		}
		entries[k] = Entry{FetchedAt: time.UnixMilli(fe.Time), Value: v}
	}
	return entries, nil
}

func (s *FileStore) write(entries map[string]Entry) error {
	raw := make(map[string]fileEntry, len(entries))
	for k, e := range entries {
		raw[k] = fileEntry{Time: e.FetchedAt.UnixMilli(), Data: e.Value}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(raw); err != nil {
		return &StoreError{Op: "put", Path: s.path, Err: err}
	}
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &StoreError{Op: "put", Path: s.path, Err: err}
		}
	}
	// Write next to the document and rename over it so readers never see a
	// partial file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return &StoreError{Op: "put", Path: s.path, Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return &StoreError{Op: "put", Path: s.path, Err: err}
	}
	return nil
}
