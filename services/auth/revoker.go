package auth

import (
	"context"
	"errors"
	"time"

	"chalethaven/utils"

	"github.com/go-redis/redis/v8"
)

// RedisTokenRevoker stores token hashes, never the tokens themselves.
type RedisTokenRevoker struct {
	client *redis.Client
}

func NewRedisTokenRevoker(client *redis.Client) *RedisTokenRevoker {
	return &RedisTokenRevoker{client: client}
}

func (r *RedisTokenRevoker) key(token string) string {
	return utils.RevokedTokenPrefix + utils.HashToken(token)
}

func (r *RedisTokenRevoker) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(token), "1", ttl).Err()
}

func (r *RedisTokenRevoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	err := r.client.Get(ctx, r.key(token)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
