package driven

import "context"

// KeyValueStore is a string-keyed store with prefix scanning.
type KeyValueStore interface {
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Get returns the value for key. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// Keys returns every key starting with prefix, in lexical order.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases resources.
	Close() error
}
