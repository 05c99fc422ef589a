// Package viewcache caches rendered pages and lets writers declare a path
// stale. Each path carries a generation number; marking it stale bumps the
// generation so older renders are never read again and expire on their own.
package viewcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Invalidator is the write side used by mutation actions
type Invalidator interface {
	MarkStale(ctx context.Context, path string) error
}

// Store keeps page renders keyed by path generation
type Store interface {
	Invalidator
	Generation(ctx context.Context, path string) (int64, error)
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, page []byte, ttl time.Duration) error
}

// PageKey builds the storage key of one render
func PageKey(path string, generation int64, variant string) string {
	return fmt.Sprintf("viewcache:page:%s:%d:%s", path, generation, variant)
}

func generationKey(path string) string {
	return "viewcache:gen:" + path
}

// RedisStore keeps generations and pages in Redis
type RedisStore struct {
	client redis.UniversalClient
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) MarkStale(ctx context.Context, path string) error {
	return s.client.Incr(ctx, generationKey(path)).Err()
}

func (s *RedisStore) Generation(ctx context.Context, path string) (int64, error) {
	gen, err := s.client.Get(ctx, generationKey(path)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	page, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return page, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, page []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, page, ttl).Err()
}

type memoryEntry struct {
	page    []byte
	expires time.Time
}

// MemoryStore is an in-process Store for single-instance runs and tests
type MemoryStore struct {
	mu          sync.Mutex
	generations map[string]int64
	pages       map[string]memoryEntry
	now         func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		generations: make(map[string]int64),
		pages:       make(map[string]memoryEntry),
		now:         time.Now,
	}
}

func (s *MemoryStore) MarkStale(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[path]++
	return nil
}

func (s *MemoryStore) Generation(ctx context.Context, path string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[path], nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.pages[key]
	if !ok {
		return nil, false, nil
	}
	if s.now().After(e.expires) {
		delete(s.pages, key)
		return nil, false, nil
	}
	return e.page, true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, page []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(page))
	copy(cp, page)
	s.pages[key] = memoryEntry{page: cp, expires: s.now().Add(ttl)}
	return nil
}
