package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// NewTestRedis connects to the test Redis instance and flushes the
// current database for isolation.
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 9})

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err(), "test Redis not reachable at %s", addr)
	require.NoError(t, client.FlushDB(ctx).Err(), "failed to flush test Redis database")

	t.Cleanup(func() { client.Close() })
	return client
}
