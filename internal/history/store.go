// Package history tracks the per-buyer product view history behind a small
// key-value port, so ranking logic can be tested against an in-memory fake
// and production runs on Redis. The history is an ordered list of at most
// ten product ids, most recent first.
package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/TimothyBayode/lautechmarket-search/pkg/redis"
)

// DefaultSize is the view-history cap.
const DefaultSize = 10

const keyPrefix = "history:view:"

// ViewStore is the persistence port for view histories. Concurrent writers
// race last-write-wins; the history is advisory ranking input, not a ledger.
type ViewStore interface {
	Get(ctx context.Context, buyerID string) ([]string, error)
	Put(ctx context.Context, buyerID string, productIDs []string) error
}

// RedisStore persists view histories as JSON arrays in Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. A zero ttl keeps histories forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get returns the buyer's history, most recent first. A missing key is an
// empty history, not an error.
func (s *RedisStore) Get(ctx context.Context, buyerID string) ([]string, error) {
	var ids []string
	err := s.client.GetJSON(ctx, keyPrefix+buyerID, &ids)
	if err != nil {
		if redis.IsNilError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading view history for %s: %w", buyerID, err)
	}
	return ids, nil
}

// Put overwrites the buyer's history.
func (s *RedisStore) Put(ctx context.Context, buyerID string, productIDs []string) error {
	if err := s.client.SetJSON(ctx, keyPrefix+buyerID, productIDs, s.ttl); err != nil {
		return fmt.Errorf("writing view history for %s: %w", buyerID, err)
	}
	return nil
}

// MemoryStore is an in-memory ViewStore for tests and local development.
type MemoryStore struct {
	mu        sync.Mutex
	histories map[string][]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{histories: make(map[string][]string)}
}

func (s *MemoryStore) Get(ctx context.Context, buyerID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.histories[buyerID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}

func (s *MemoryStore) Put(ctx context.Context, buyerID string, productIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(productIDs))
	copy(ids, productIDs)
	s.histories[buyerID] = ids
	return nil
}
