package main

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startRedisDockerContainer(t *testing.T) (string, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("Failed to start Dockertest: %+v", err)
	}

	err = pool.Client.Ping()
	if err != nil {
		t.Skipf("Could not connect to Docker: %+v", err)
	}

	resource, err := pool.Run("redis", "7.0.10-alpine", nil)
	if err != nil {
		t.Fatalf("Failed to start redis: %+v", err)
	}

	// build address the container is listening on
	addr := net.JoinHostPort("localhost", resource.GetPort("6379/tcp"))

	// ensure to wait for the container to be ready
	err = pool.Retry(func() error {
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()
		return client.Ping(context.Background()).Err()
	})
	if err != nil {
		t.Fatalf("Failed to ping Redis: %+v", err)
	}

	destroyFunc := func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Failed to purge resource: %+v", err)
		}
	}

	return addr, destroyFunc
}

func TestRedisSlotAndQueue(t *testing.T) {
	addr, destroyFunc := startRedisDockerContainer(t)
	defer destroyFunc()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		slot := NewRedisSlot(zap.NewNop(), client)
		_, ok, err := slot.Get(ctx, DefaultStorageKey)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("storage round trip", func(t *testing.T) {
		storage := NewSlotBookStorage(zap.NewNop(), NewRedisSlot(zap.NewNop(), client), "")
		books := testBooks()
		require.NoError(t, storage.Save(ctx, books))
		loaded, err := storage.Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, books, loaded)
	})

	t.Run("queue push then pop", func(t *testing.T) {
		q := NewRedisQueue(client)
		ev := ChangeEvent{Op: ChangeToggle, BookID: 42}
		require.NoError(t, q.Push(ctx, "test.changes", ev))

		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		qid, got, err := q.Pop(pctx, "test.changes")
		assert.NoError(t, err)
		assert.Equal(t, "test.changes", qid)
		assert.Equal(t, ev, got)
	})
}

// TestGetRedisClientFailure ensures an unreachable server is reported.
func TestGetRedisClientFailure(t *testing.T) {
	client, err := GetRedisClient(&RedisConfig{
		Host:        "127.0.0.1",
		Port:        "1",
		DialTimeout: 100 * time.Millisecond,
	})
	assert.Error(t, err)
	if client != nil {
		client.Close()
	}
}
