package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sofiatorres5082/sweettreats/internal/domain"
)

// DefaultStorageKey is the fixed key the serialized cart lives under.
const DefaultStorageKey = "sweettreats:cart"

func NewRedisStorage(client *redis.Client, key string) *RedisStorage {
	if key == "" {
		key = DefaultStorageKey
	}
	return &RedisStorage{
		client: client,
		key:    key,
	}
}

// RedisStorage persists the whole cart as one JSON document under a fixed
// key. No TTL: the cart survives until cleared.
type RedisStorage struct {
	client *redis.Client
	key    string
}

func (r *RedisStorage) Load(ctx context.Context) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err2 := json.Unmarshal(data, &cart); err2 != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err2)
	}

	return &cart, nil
}

func (r *RedisStorage) Save(ctx context.Context, cart *domain.Cart) error {
	jsonCart, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if ret := r.client.Set(ctx, r.key, string(jsonCart), 0); ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}
