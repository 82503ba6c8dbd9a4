package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when nothing has been written under the key.
var ErrKeyNotFound = errors.New("storage key not found")

// Store is the blob persistence port shared by the registry, the session and
// the CV table. Implementations hold whole serialized collections per key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, blob []byte) error
	Remove(ctx context.Context, key string) error
}
