package session

import "context"

// Store defines the key/value operations the cart needs from a session backend.
// Values are opaque encoded payloads; the store never inspects them.
type Store interface {
	// Get retrieves the value stored under key.
	// Returns nil if the key is not found (not an error).
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Has reports whether key is present.
	Has(ctx context.Context, key string) (bool, error)

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Close closes the store and releases any resources.
	Close() error
}
