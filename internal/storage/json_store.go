package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// document is the on-disk layout of a JSONStore file. Values are kept as raw
// JSON so the file stays readable by hand.
type document struct {
	Version int                        `json:"version"`
	Values  map[string]json.RawMessage `json:"values"`
}

type JSONStore struct {
	path string
	mu   sync.Mutex
	doc  *document
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.load()
	}

	s.doc = &document{
		Version: 1,
		Values:  make(map[string]json.RawMessage),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc != nil {
		return nil
	}
	return s.load()
}

func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'moodcheck init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Values == nil {
		doc.Values = make(map[string]json.RawMessage)
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	// Write-then-rename so a crash never leaves a truncated file behind
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	raw, ok := s.doc.Values[key]
	if !ok {
		return nil, ErrNotFound
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return buf.Bytes(), nil
}

func (s *JSONStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}

	if !json.Valid(value) {
		return fmt.Errorf("failed to write %s: value is not valid JSON", key)
	}
	s.doc.Values[key] = append(json.RawMessage(nil), value...)
	return s.save()
}

func (s *JSONStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}

	delete(s.doc.Values, key)
	return s.save()
}

// GetConfigPath returns the path to the underlying storage file.
//
// Running multiple moodcheck processes that share the same file at the same
// time is not supported and may lose writes.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
