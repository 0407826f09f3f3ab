// Package driven defines the port interfaces implemented by driven
// (outbound) adapters.
package driven

import "context"

// KVStore is the primary durable string store. The scan collection
// lives under one fixed key and a settings blob under a second; the
// store itself knows nothing about either shape.
type KVStore interface {
	// Get returns the value for key. The second return is false when
	// the key is absent; absence is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}
