package cmd

import (
	"github.com/habedi/sessionctl/config"
	"github.com/habedi/sessionctl/db"
	"github.com/redis/go-redis/v9"
)

// openTokenRepository opens the configured credential slot and returns a
// function that releases it.
func openTokenRepository(cfg config.StorageConfig) (db.TokenRepository, func() error, error) {
	switch cfg.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return db.NewRedisTokenRepository(rdb, cfg.RedisPrefix), rdb.Close, nil
	default:
		gormDB, err := db.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return db.NewTokenRepository(gormDB), func() error { return db.Close(gormDB) }, nil
	}
}
