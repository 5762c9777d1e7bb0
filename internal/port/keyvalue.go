package port

import (
	"context"
	"errors"
)

// ErrKeyNotFound indicates a requested key is missing from the store.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is the durable get/set/remove surface the read cache is
// built on. Implementations may be slow or fail; callers treat failures as
// cache misses, never as hard errors.
type KeyValueStore interface {
	// Get returns the value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists every stored key with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
