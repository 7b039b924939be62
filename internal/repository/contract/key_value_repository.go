package contract

import (
	"context"
	"errors"
)

// ErrStoreUnavailable means the backing store cannot be reached at all.
var ErrStoreUnavailable = errors.New("key/value store unavailable")

// KeyValueRepository is the browser-scoped persistent storage.
// Keys are already prefixed with the owning client id.
type KeyValueRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
