// file: internal/database/store.go
// version: 3.0.0
// guid: 8a9b0c1d-2e3f-4a5b-6c7d-8e9f0a1b2c3d

package database

import (
	"errors"
	"fmt"
)

// ErrStoreClosed is returned by every operation on a closed store.
var ErrStoreClosed = errors.New("store is closed")

// Store is the local key-value store behind per-condition progress.
// PebbleDB is the default backend; SQLite3 is opt-in.
type Store interface {
	// Get returns the value for key. found is false when the key is absent.
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
	Delete(key string) error
	// List returns every entry whose key starts with prefix, ordered by key.
	List(prefix string) ([]Entry, error)
	Close() error
}

// Entry is a stored key and its value.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Backend names accepted by OpenStore
const (
	TypePebble = "pebble"
	TypeSQLite = "sqlite"
	TypeMemory = "memory"
)

// OpenStore opens the backend named by dbType at path.
func OpenStore(dbType, path string, enableSQLite bool) (Store, error) {
	switch dbType {
	case TypeSQLite, "sqlite3":
		if !enableSQLite {
			return nil, fmt.Errorf("SQLite3 is not enabled. To use SQLite3, you must explicitly enable it with --enable-sqlite3-i-know-the-risks or set 'enable_sqlite3_i_know_the_risks: true' in your config file. PebbleDB is the recommended database for production use")
		}
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		return store, nil
	case TypePebble, "":
		store, err := NewPebbleStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PebbleDB store: %w", err)
		}
		return store, nil
	case TypeMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s (supported: pebble, sqlite, memory)", dbType)
	}
}

// prefixUpperBound returns the smallest key greater than every key that
// starts with prefix, or nil when no such key exists.
func prefixUpperBound(prefix string) []byte {
	end := []byte(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
