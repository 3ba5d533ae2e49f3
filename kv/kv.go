// Package kv defines the key-value store behind user preference flags
// (dismissed cards, seen announcements). The dashboard treats persistence
// as an injected dependency: the interface is tiny on purpose so a browser
// localStorage analogue, a sqlite file, or a shared redis can all back it.
package kv

import "context"

// Store persists string preference values by key. Implementations must be
// safe for concurrent use.
type Store interface {
	// Get returns the value for key and whether it exists. A missing key
	// is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes or overwrites the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying resources.
	Close() error
}
