package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SlotName is the name of the single slot holding the bookmark collection.
const SlotName = "pbb_bookmarks"

// Backend persists one opaque blob. Read returns nil data for a slot that
// was never written.
type Backend interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// FileBackend implements Backend using a JSON file.
type FileBackend struct {
	path string
}

// NewFileBackend creates a new FileBackend with the given file path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the storage file path.
func (s *FileBackend) Path() string {
	return s.path
}

// Read returns the file contents, or nil if the file doesn't exist.
func (s *FileBackend) Read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read bookmarks: %w", err)
	}
	return data, nil
}

// Write replaces the file contents.
// Creates the directory if it doesn't exist.
func (s *FileBackend) Write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// A failed write leaves the previous contents in place.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write bookmarks: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace bookmarks: %w", err)
	}
	return nil
}

// MemoryBackend keeps the slot in memory.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte

	// ReadErr and WriteErr, when set, are returned instead of touching the slot.
	ReadErr  error
	WriteErr error
}

// NewMemoryBackend creates a MemoryBackend holding data.
func NewMemoryBackend(data []byte) *MemoryBackend {
	return &MemoryBackend{data: clone(data)}
}

// Read returns a copy of the slot.
func (m *MemoryBackend) Read() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	return clone(m.data), nil
}

// Write replaces the slot.
func (m *MemoryBackend) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.data = clone(data)
	return nil
}

// Bytes returns the raw slot contents.
func (m *MemoryBackend) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.data)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

// Kind selects a Backend implementation.
type Kind string

const (
	KindJSON   Kind = "json"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// DefaultJSONPath returns the default JSON path inside dataDir.
func DefaultJSONPath(dataDir string) string {
	return filepath.Join(dataDir, "bookmarks.json")
}

// DefaultSQLitePath returns the default SQLite path inside dataDir.
func DefaultSQLitePath(dataDir string) string {
	return filepath.Join(dataDir, "bookmarks.db")
}

// Open opens the backend of the given kind inside dataDir. An empty kind
// prefers SQLite if the database file exists, otherwise falls back to JSON.
// The returned close function is never nil.
func Open(kind Kind, dataDir string) (Backend, func() error, error) {
	noop := func() error { return nil }

	if kind == "" {
		if _, err := os.Stat(DefaultSQLitePath(dataDir)); err == nil {
			kind = KindSQLite
		} else {
			kind = KindJSON
		}
	}

	switch kind {
	case KindSQLite:
		s, err := NewSQLiteBackend(DefaultSQLitePath(dataDir), SlotName)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case KindJSON:
		return NewFileBackend(DefaultJSONPath(dataDir)), noop, nil
	case KindMemory:
		return NewMemoryBackend(nil), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage kind %q", kind)
	}
}
