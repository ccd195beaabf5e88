// Package rediskv backs the durable cart key-value contract with Redis so
// carts survive process restarts and are shared across instances.
package rediskv

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"

	"github.com/patitas/storefront/internal/app/storage"
)

// KV implements storage.KV on top of a Redis client.
type KV struct {
	client *redis.Client
}

var _ storage.KV = (*KV)(nil)

// New wraps an existing Redis client.
func New(client *redis.Client) *KV {
	return &KV{client: client}
}

// Dial connects to the given address and verifies the connection.
func Dial(ctx context.Context, addr, password string, db int) (*KV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &KV{client: client}, nil
}

func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := k.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (k *KV) Set(ctx context.Context, key, value string) error {
	return k.client.Set(ctx, key, value, 0).Err()
}

// Close releases the underlying client.
func (k *KV) Close() error {
	return k.client.Close()
}
