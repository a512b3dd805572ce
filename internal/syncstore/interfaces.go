package syncstore

import "context"

// Store reads and writes string key-value pairs in persistent storage.
//
// The zero value of the returned map is meaningful: keys absent from storage
// are absent from the map, never an error.
type Store interface {
	// Get returns the stored values for the given keys. Keys with no stored
	// value are omitted from the result. With no keys, all entries are returned.
	Get(ctx context.Context, keys ...string) (map[string]string, error)

	// Set persists the given values, overwriting existing entries key by key.
	// Entries not named in values are left untouched. Returns an error if the
	// storage backend is read-only (e.g., environment variables) or if the
	// write operation fails.
	Set(ctx context.Context, values map[string]string) error
}
