// internal/store/medium.go
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Medium is the key-value persistence backing a Collection. Get reports
// found=false for a missing key without error; any error means the medium
// is unavailable and callers degrade rather than fail.
type Medium interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// RedisMedium persists collections as plain string values in Redis.
type RedisMedium struct {
	client *redis.Client
}

func NewRedisMedium(client *redis.Client) *RedisMedium {
	return &RedisMedium{client: client}
}

func (m *RedisMedium) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := m.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (m *RedisMedium) Set(ctx context.Context, key, value string) error {
	return m.client.Set(ctx, key, value, 0).Err()
}

// MemoryMedium is the in-memory fallback used when no real persistence
// medium is available, and as the injectable test medium.
type MemoryMedium struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{values: make(map[string]string)}
}

func (m *MemoryMedium) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.values[key]
	return val, ok, nil
}

func (m *MemoryMedium) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
