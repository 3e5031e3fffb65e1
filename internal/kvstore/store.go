// Package kvstore provides the key-value persistence substrate the rest of
// the application is written against: opaque string keys mapped to
// JSON-serialised values, with no transactions and no secondary indexes.
// Composite access patterns are maintained by callers as explicit index
// lists stored alongside the primary records.
package kvstore

import (
	"context"
	"encoding/json"
)

// Store is the persistence adapter. Implementations must be safe for
// concurrent use; atomicity is only guaranteed per individual Set call.
type Store interface {
	// Get unmarshals the value at key into dest. It returns false with a
	// nil error when the key does not exist.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores the JSON serialisation of value at key, overwriting any
	// previous value.
	Set(ctx context.Context, key string, value any) error

	// MGet returns the raw values for keys, order-preserving, with nil
	// entries for missing keys.
	MGet(ctx context.Context, keys []string) ([]json.RawMessage, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying connections.
	Close() error
}
