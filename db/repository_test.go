package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/habedi/sessionctl/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gormDB) })
	return gormDB
}

func TestTokenRepository_EmptySlot(t *testing.T) {
	repo := db.NewTokenRepository(openTestDB(t))

	token, err := repo.Get(context.Background())

	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestTokenRepository_UpsertThenGet(t *testing.T) {
	repo := db.NewTokenRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &db.Token{AccessToken: "a1", RefreshToken: "r1"}))
	require.NoError(t, repo.Upsert(ctx, &db.Token{AccessToken: "a2", RefreshToken: "r2"}))

	token, err := repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "a2", token.AccessToken)
	assert.Equal(t, "r2", token.RefreshToken)
	assert.False(t, token.UpdatedAt.IsZero())
}

func TestTokenRepository_SingleRow(t *testing.T) {
	gormDB := openTestDB(t)
	repo := db.NewTokenRepository(gormDB)
	ctx := context.Background()

	for _, access := range []string{"a1", "a2", "a3"} {
		require.NoError(t, repo.Upsert(ctx, &db.Token{AccessToken: access, RefreshToken: "r"}))
	}

	var count int64
	require.NoError(t, gormDB.Model(&db.Token{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTokenRepository_ClearIsIdempotent(t *testing.T) {
	repo := db.NewTokenRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &db.Token{AccessToken: "a", RefreshToken: "r"}))
	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Clear(ctx))

	token, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestTokenRepository_Uninitialized(t *testing.T) {
	repo := db.NewTokenRepository(nil)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	assert.Error(t, err)
	assert.Error(t, repo.Upsert(ctx, &db.Token{}))
	assert.Error(t, repo.Clear(ctx))
}

func TestTokenRepository_UpsertNil(t *testing.T) {
	repo := db.NewTokenRepository(openTestDB(t))
	assert.Error(t, repo.Upsert(context.Background(), nil))
}

func TestToken_Complete(t *testing.T) {
	var missing *db.Token
	assert.False(t, missing.Complete())
	assert.False(t, (&db.Token{AccessToken: "a"}).Complete())
	assert.False(t, (&db.Token{RefreshToken: "r"}).Complete())
	assert.True(t, (&db.Token{AccessToken: "a", RefreshToken: "r"}).Complete())
}
