// Package redisrepo backs browser-scoped storage with Redis so several
// front-end instances see the same entries.
package redisrepo

import (
	"context"
	"errors"
	"fmt"

	"medichat-web/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "medichat:kv:"

type KeyValueRepository struct {
	rdb *redis.Client
}

func NewKeyValueRepository(rdb *redis.Client) *KeyValueRepository {
	return &KeyValueRepository{rdb: rdb}
}

func (r *KeyValueRepository) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.rdb.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", contract.ErrStoreUnavailable, err)
	}
	return value, true, nil
}

func (r *KeyValueRepository) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", contract.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *KeyValueRepository) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %v", contract.ErrStoreUnavailable, err)
	}
	return nil
}
