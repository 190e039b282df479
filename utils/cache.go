package utils

import (
	"context"
	"fmt"
	"time"

	"chalethaven/config"

	"github.com/go-redis/redis/v8"
)

var (
	// AuthCacheClient holds revoked tokens.
	AuthCacheClient *redis.Client
	// SessionCacheClient holds persisted console sessions.
	SessionCacheClient *redis.Client
)

func newRedisClient(cfg config.Config, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis db %d: %w", db, err)
	}
	return client, nil
}

// InitCache connects the auth and session Redis clients.
func InitCache(cfg config.Config) error {
	var err error
	if AuthCacheClient, err = newRedisClient(cfg, cfg.RedisAuthDB); err != nil {
		return err
	}
	if SessionCacheClient, err = newRedisClient(cfg, cfg.RedisSessionDB); err != nil {
		return err
	}
	return nil
}

// CloseCache closes every client opened by InitCache.
func CloseCache() {
	for _, c := range []*redis.Client{AuthCacheClient, SessionCacheClient} {
		if c != nil {
			_ = c.Close()
		}
	}
}
