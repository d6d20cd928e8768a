package ports

import "context"

// KeyValueStore is durable storage for whole records addressed by key
type KeyValueStore interface {
	// Get returns the stored value, or nil and no error when key is absent
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
