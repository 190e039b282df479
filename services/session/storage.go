package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"chalethaven/models"
	"chalethaven/utils"

	"github.com/go-redis/redis/v8"
)

// Storage persists at most one session. Load returns nil when nothing is stored.
type Storage interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s models.Session) error
	Clear(ctx context.Context) error
}

// MemoryStorage keeps the session for the life of the process.
type MemoryStorage struct {
	mu sync.Mutex
	s  *models.Session
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.s == nil {
		return nil, nil
	}
	cp := *m.s
	return &cp, nil
}

func (m *MemoryStorage) Save(_ context.Context, s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = &s
	return nil
}

func (m *MemoryStorage) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
	return nil
}

// RedisStorage persists the session of one client id; the last writer wins.
type RedisStorage struct {
	client *redis.Client
	key    string
}

func NewRedisStorage(client *redis.Client, clientID string) *RedisStorage {
	return &RedisStorage{client: client, key: utils.SessionKeyPrefix + clientID}
}

func (r *RedisStorage) Load(ctx context.Context) (*models.Session, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var s models.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		// A corrupt entry is treated as no session at all.
		_ = r.client.Del(ctx, r.key).Err()
		return nil, nil
	}
	return &s, nil
}

func (r *RedisStorage) Save(ctx context.Context, s models.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return r.client.Set(ctx, r.key, b, utils.SessionTTL).Err()
}

func (r *RedisStorage) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
