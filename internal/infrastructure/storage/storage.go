package storage

import "context"

// Storage is a small string key/value store, shaped like a browser's local
// storage. GetItem reports false when the key is not set.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
