package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// KeyValueRepository stores browser-scoped entries in process.
// Entries never expire on their own, like browser local storage.
type KeyValueRepository struct {
	cache *cache.Cache
}

func NewKeyValueRepository() *KeyValueRepository {
	return &KeyValueRepository{
		cache: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (r *KeyValueRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if x, found := r.cache.Get(key); found {
		return x.(string), true, nil
	}
	return "", false, nil
}

func (r *KeyValueRepository) Set(ctx context.Context, key, value string) error {
	r.cache.Set(key, value, cache.NoExpiration)
	return nil
}

func (r *KeyValueRepository) Delete(ctx context.Context, key string) error {
	r.cache.Delete(key)
	return nil
}
