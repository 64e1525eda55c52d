package db_test

import (
	"context"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/habedi/sessionctl/db"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redisTarget is a Redis server the repository tests run against.
type redisTarget struct {
	name string
	rdb  *redis.Client
}

// redisTargets returns an in-process miniredis and, when
// SESSIONCTL_TEST_REDIS_ADDR is set, the real server it names.
func redisTargets(t *testing.T) []redisTarget {
	t.Helper()
	mr := miniredis.RunT(t)
	targets := []redisTarget{{name: "miniredis", rdb: redis.NewClient(&redis.Options{Addr: mr.Addr()})}}

	if addr := os.Getenv("SESSIONCTL_TEST_REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		require.NoError(t, rdb.Ping(context.Background()).Err())
		targets = append(targets, redisTarget{name: "server", rdb: rdb})
	}
	for _, target := range targets {
		rdb := target.rdb
		t.Cleanup(func() { _ = rdb.Close() })
	}
	return targets
}

// newPrefix isolates a test under a random key prefix and removes its keys afterwards.
func newPrefix(t *testing.T, rdb *redis.Client) string {
	t.Helper()
	prefix := "sessionctl-test:" + uuid.NewString() + ":"
	t.Cleanup(func() {
		_ = rdb.Del(context.Background(), prefix+"accessToken", prefix+"refreshToken").Err()
	})
	return prefix
}

func TestRedisTokenRepository_RoundTrip(t *testing.T) {
	for _, target := range redisTargets(t) {
		t.Run(target.name, func(t *testing.T) {
			repo := db.NewRedisTokenRepository(target.rdb, newPrefix(t, target.rdb))
			ctx := context.Background()

			token, err := repo.Get(ctx)
			require.NoError(t, err)
			assert.Nil(t, token)

			require.NoError(t, repo.Upsert(ctx, &db.Token{AccessToken: "a", RefreshToken: "r"}))
			require.NoError(t, repo.Upsert(ctx, &db.Token{AccessToken: "a2", RefreshToken: "r2"}))
			token, err = repo.Get(ctx)
			require.NoError(t, err)
			require.NotNil(t, token)
			assert.Equal(t, "a2", token.AccessToken)
			assert.Equal(t, "r2", token.RefreshToken)

			require.NoError(t, repo.Clear(ctx))
			require.NoError(t, repo.Clear(ctx))
			token, err = repo.Get(ctx)
			require.NoError(t, err)
			assert.Nil(t, token)
		})
	}
}

func TestRedisTokenRepository_UpsertWritesBothKeys(t *testing.T) {
	for _, target := range redisTargets(t) {
		t.Run(target.name, func(t *testing.T) {
			prefix := newPrefix(t, target.rdb)
			repo := db.NewRedisTokenRepository(target.rdb, prefix)
			ctx := context.Background()

			require.NoError(t, repo.Upsert(ctx, &db.Token{AccessToken: "a", RefreshToken: "r"}))

			access, err := target.rdb.Get(ctx, prefix+"accessToken").Result()
			require.NoError(t, err)
			assert.Equal(t, "a", access)
			refresh, err := target.rdb.Get(ctx, prefix+"refreshToken").Result()
			require.NoError(t, err)
			assert.Equal(t, "r", refresh)
		})
	}
}

func TestRedisTokenRepository_StrayKeyIsIgnored(t *testing.T) {
	for _, target := range redisTargets(t) {
		t.Run(target.name, func(t *testing.T) {
			prefix := newPrefix(t, target.rdb)
			repo := db.NewRedisTokenRepository(target.rdb, prefix)
			ctx := context.Background()

			require.NoError(t, target.rdb.Set(ctx, prefix+"refreshToken", "orphan", 0).Err())

			token, err := repo.Get(ctx)
			require.NoError(t, err)
			assert.Nil(t, token)
		})
	}
}

func TestRedisTokenRepository_UpsertNil(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	repo := db.NewRedisTokenRepository(rdb, "p:")
	assert.Error(t, repo.Upsert(context.Background(), nil))
	assert.False(t, mr.Exists("p:accessToken"))
}

func TestRedisTokenRepository_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	repo := db.NewRedisTokenRepository(rdb, "p:")
	mr.Close()

	ctx := context.Background()
	_, err := repo.Get(ctx)
	assert.Error(t, err)
	assert.Error(t, repo.Upsert(ctx, &db.Token{AccessToken: "a", RefreshToken: "r"}))
	assert.Error(t, repo.Clear(ctx))
}
