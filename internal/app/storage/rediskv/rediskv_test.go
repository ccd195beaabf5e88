package rediskv

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

// The tests run without a Redis server; they cover the failure surface the
// cart store has to absorb when the backend is down.

func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestDialUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	kv, err := Dial(ctx, "127.0.0.1:1", "", 0)
	require.Error(t, err)
	require.Nil(t, kv)
}

func TestOperationsSurfaceBackendErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	kv := New(unreachableClient())
	defer kv.Close()

	_, found, err := kv.Get(ctx, "cart:alice")
	require.Error(t, err)
	require.False(t, found)

	require.Error(t, kv.Set(ctx, "cart:alice", "payload"))
}
