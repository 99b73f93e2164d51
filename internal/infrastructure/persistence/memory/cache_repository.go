// Package memory provides in-memory cache repository implementation
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/flavorgraph/internal/ports/outbound"
)

// defaultTTL applies when Set is called with a zero TTL
const defaultTTL = 24 * time.Hour

// CacheItem represents a cached item
type CacheItem struct {
	Value     []byte
	ExpiresAt time.Time
}

// CacheRepository implements in-memory cache repository
type CacheRepository struct {
	data  map[string]CacheItem
	sets  map[string]map[string]struct{}
	mutex sync.RWMutex
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewCacheRepository creates a new in-memory cache repository. Expired
// entries are swept every cleanupInterval until Close is called.
func NewCacheRepository(cleanupInterval time.Duration) *CacheRepository {
	repo := &CacheRepository{
		data: make(map[string]CacheItem),
		sets: make(map[string]map[string]struct{}),
		now:  time.Now,
		stop: make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go repo.cleanup(cleanupInterval)
	}

	return repo
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// Get retrieves a value from cache
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mutex.RLock()
	item, exists := r.data[key]
	r.mutex.RUnlock()

	if !exists || r.now().After(item.ExpiresAt) {
		return nil, outbound.ErrCacheMiss
	}

	return item.Value, nil
}

// Set stores a value in cache with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.data[key] = CacheItem{
		Value:     append([]byte(nil), value...),
		ExpiresAt: r.now().Add(ttl),
	}

	return nil
}

// Delete removes keys and sets from cache
func (r *CacheRepository) Delete(ctx context.Context, keys ...string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, key := range keys {
		delete(r.data, key)
		delete(r.sets, key)
	}
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if _, ok := r.sets[key]; ok {
		return true, nil
	}
	item, exists := r.data[key]
	return exists && !r.now().After(item.ExpiresAt), nil
}

// SAdd adds members to a set
func (r *CacheRepository) SAdd(ctx context.Context, key string, members ...string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	set, ok := r.sets[key]
	if !ok {
		set = make(map[string]struct{}, len(members))
		r.sets[key] = set
	}
	for _, m := range members {
		set[m] = struct{}{}
	}
	return nil
}

// SMembers returns the members of a set
func (r *CacheRepository) SMembers(ctx context.Context, key string) ([]string, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	set := r.sets[key]
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	return members, nil
}

// Ping always succeeds for the in-memory cache
func (r *CacheRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len returns the number of stored values, expired or not
func (r *CacheRepository) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.data)
}

// Close stops the cleanup goroutine
func (r *CacheRepository) Close() error {
	r.once.Do(func() { close(r.stop) })
	return nil
}

// cleanup periodically removes expired items
func (r *CacheRepository) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.removeExpired()
		case <-r.stop:
			return
		}
	}
}

func (r *CacheRepository) removeExpired() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	for key, item := range r.data {
		if now.After(item.ExpiresAt) {
			delete(r.data, key)
		}
	}
}
