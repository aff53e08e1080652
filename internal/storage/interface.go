package storage

import "errors"

// ErrNotFound is returned by Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("key not found")

// Provider is the generic persistent key/value store the check-in core
// builds on. Values are opaque bytes (JSON documents in practice).
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error

	// Utils
	GetConfigPath() string
}
