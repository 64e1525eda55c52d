package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	accessTokenKey  = "accessToken"
	refreshTokenKey = "refreshToken"
)

// RedisTokenRepository stores the credential pair under two keys sharing a
// prefix. Both keys are written in one MULTI/EXEC transaction.
type RedisTokenRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisTokenRepository creates a Redis-backed TokenRepository.
func NewRedisTokenRepository(client redis.UniversalClient, prefix string) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, prefix: prefix}
}

func (r *RedisTokenRepository) accessKey() string  { return r.prefix + accessTokenKey }
func (r *RedisTokenRepository) refreshKey() string { return r.prefix + refreshTokenKey }

// Get returns the stored pair. A lone key left behind by an interrupted
// writer is reported as an empty slot.
func (r *RedisTokenRepository) Get(ctx context.Context) (*Token, error) {
	vals, err := r.client.MGet(ctx, r.accessKey(), r.refreshKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read credential pair: %w", err)
	}

	access, _ := vals[0].(string)
	refresh, _ := vals[1].(string)
	switch {
	case access == "" && refresh == "":
		return nil, nil
	case access == "" || refresh == "":
		log.Warn().Str("prefix", r.prefix).Msg("Found an incomplete credential pair, ignoring it")
		return nil, nil
	}
	return &Token{ID: tokenRowID, AccessToken: access, RefreshToken: refresh}, nil
}

func (r *RedisTokenRepository) Upsert(ctx context.Context, token *Token) error {
	if token == nil {
		return errors.New("token cannot be nil")
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.accessKey(), token.AccessToken, 0)
		pipe.Set(ctx, r.refreshKey(), token.RefreshToken, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write credential pair: %w", err)
	}
	return nil
}

func (r *RedisTokenRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.accessKey(), r.refreshKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear credential pair: %w", err)
	}
	return nil
}
