package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/sbilibin2017/restchat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a disposable Redis and returns a connected client.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}

	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7.0-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())

	return rdb
}

func TestUserCacheRepository(t *testing.T) {
	ctx := context.Background()
	rdb := setupRedis(t)
	cache := NewUserCacheRepository(rdb, 2*time.Second)

	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	user := &models.User{ID: 7, Username: "alice", Email: "alice@example.com", PasswordHash: "digest", CreatedAt: created}

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, user))

		got, err := cache.Get(ctx, 7)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(7), got.ID)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "alice@example.com", got.Email)
		assert.True(t, created.Equal(got.CreatedAt))
	})

	t.Run("Digest is not cached", func(t *testing.T) {
		raw, err := rdb.Get(ctx, "user:7").Result()
		require.NoError(t, err)
		assert.NotContains(t, raw, "digest")
	})

	t.Run("Missing key", func(t *testing.T) {
		got, err := cache.Get(ctx, 404)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, user))
		require.NoError(t, cache.Delete(ctx, 7))

		got, err := cache.Get(ctx, 7)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Corrupt entry", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, "user:8", "not json", 0).Err())
		_, err := cache.Get(ctx, 8)
		assert.Error(t, err)
	})

	t.Run("Cached value expires", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, user))

		time.Sleep(3 * time.Second)

		got, err := cache.Get(ctx, 7)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestCachedUserRepositories(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(setupPostgres(t))
	rdb := setupRedis(t)

	cache := NewUserCacheRepository(rdb, time.Minute)
	reader := NewCachedUserReadRepository(repos.userRead, cache)
	writer := NewCachedUserWriteRepository(repos.userWrite, cache)

	alice, err := repos.userWrite.Create(ctx, "alice", "alice@example.com", "digest")
	require.NoError(t, err)

	t.Run("MissFillsCache", func(t *testing.T) {
		got, err := reader.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)

		cached, err := cache.Get(ctx, alice.ID)
		require.NoError(t, err)
		require.NotNil(t, cached)
		assert.Equal(t, "alice", cached.Username)
	})

	t.Run("HitSkipsDatabase", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, &models.User{ID: alice.ID, Username: "from-cache"}))

		got, err := reader.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "from-cache", got.Username)
	})

	t.Run("UpdateEvicts", func(t *testing.T) {
		name := "alicia"
		_, err := writer.Update(ctx, alice.ID, &name, nil)
		require.NoError(t, err)

		cached, err := cache.Get(ctx, alice.ID)
		require.NoError(t, err)
		assert.Nil(t, cached)

		got, err := reader.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alicia", got.Username)
	})

	t.Run("NotFoundIsNotCached", func(t *testing.T) {
		_, err := reader.GetByID(ctx, 99999)
		var nf *errs.NotFoundError
		assert.ErrorAs(t, err, &nf)

		cached, err := cache.Get(ctx, 99999)
		require.NoError(t, err)
		assert.Nil(t, cached)
	})

	t.Run("LookupsByUsernamePassThrough", func(t *testing.T) {
		got, err := reader.GetByUsername(ctx, "alicia")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "digest", got.PasswordHash)
	})
}
