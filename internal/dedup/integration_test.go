//go:build integration

package dedup

import (
	"context"
	"testing"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"

	"milhas/internal/config"
	"milhas/internal/logger"
	"milhas/pkg/models"
)

func setupRedis(t *testing.T) *redisclient.Client {
	t.Helper()
	ctx := context.Background()

	container, err := redismodule.Run(ctx, "redis:8.4.0-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		container.Terminate(ctx)
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opt, err := redisclient.ParseURL(uri)
	require.NoError(t, err)

	client := redisclient.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(pingCtx).Err())

	t.Cleanup(func() {
		client.Close()
	})
	return client
}

func TestRedisRepositorySetNX(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	repo := NewRepository(client)

	unique, err := repo.SetNX(ctx, "seen:abc", time.Now().Unix(), 5*time.Second)
	require.NoError(t, err)
	assert.True(t, unique)

	unique, err = repo.SetNX(ctx, "seen:abc", time.Now().Unix(), 5*time.Second)
	require.NoError(t, err)
	assert.False(t, unique)
}

func TestRedisRepositorySetNXTTLExpiry(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	repo := NewRepository(client)

	unique, err := repo.SetNX(ctx, "seen:ttl", time.Now().Unix(), time.Second)
	require.NoError(t, err)
	assert.True(t, unique)

	time.Sleep(2 * time.Second)

	unique, err = repo.SetNX(ctx, "seen:ttl", time.Now().Unix(), time.Second)
	require.NoError(t, err)
	assert.True(t, unique)
}

func TestRedisRepositoryGetCacheSize(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	repo := NewRepository(client)

	for _, key := range []string{"seen:1", "seen:2", "seen:3", "other:1"} {
		_, err := repo.SetNX(ctx, key, 1, time.Minute)
		require.NoError(t, err)
	}

	size, err := repo.GetCacheSize(ctx, "seen:")
	require.NoError(t, err)
	assert.Equal(t, 3, size)
}

func TestServiceProcessAgainstRedis(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	svc := NewService(NewRepository(client), config.DeduplicationConfig{
		HashAlgorithm: "sha256",
		TTLSeconds:    300,
	}, logger.NopLogger())

	msg := models.RawMessage{
		MessageID: "m1",
		Channel:   "milhas-brokers",
		Text:      "compro smiles 50k",
		Date:      time.Now(),
	}

	unique, err := svc.Process(ctx, msg)
	require.NoError(t, err)
	assert.True(t, unique)

	unique, err = svc.Process(ctx, msg)
	require.NoError(t, err)
	assert.False(t, unique)
}
