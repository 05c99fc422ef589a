package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// MetadataStore holds per-identity private metadata
type MetadataStore interface {
	Get(ctx context.Context, identityID string) (map[string]string, error)
	Set(ctx context.Context, identityID, key, value string) error
}

// RedisMetadata stores metadata as one hash per identity
type RedisMetadata struct {
	client redis.UniversalClient
}

// NewRedisMetadata creates a Redis-backed metadata store
func NewRedisMetadata(client redis.UniversalClient) *RedisMetadata {
	return &RedisMetadata{client: client}
}

func privateKey(identityID string) string {
	return fmt.Sprintf("identity:%s:private", identityID)
}

func (m *RedisMetadata) Get(ctx context.Context, identityID string) (map[string]string, error) {
	return m.client.HGetAll(ctx, privateKey(identityID)).Result()
}

func (m *RedisMetadata) Set(ctx context.Context, identityID, key, value string) error {
	return m.client.HSet(ctx, privateKey(identityID), key, value).Err()
}

// MemoryMetadata is used when Redis is not configured
type MemoryMetadata struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemoryMetadata() *MemoryMetadata {
	return &MemoryMetadata{data: make(map[string]map[string]string)}
}

func (m *MemoryMetadata) Get(ctx context.Context, identityID string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string, len(m.data[identityID]))
	for k, v := range m.data[identityID] {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryMetadata) Set(ctx context.Context, identityID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data[identityID] == nil {
		m.data[identityID] = make(map[string]string)
	}
	m.data[identityID][key] = value
	return nil
}
