package server

import (
	"container/list"
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=cache.go -destination=cache_mock.go -package=server

// ResultCache stores rendered calculation responses keyed by scenario fingerprint
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CacheKey fingerprints a request payload together with the reference tables
// it was evaluated against. Struct encoding order is fixed, so equal inputs hash equally.
func CacheKey(kind string, tablesFingerprint uint64, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	h := xxhash.New()
	_, _ = h.WriteString(kind)
	_, _ = h.WriteString(strconv.FormatUint(tablesFingerprint, 16))
	_, _ = h.Write(data)
	return kind + ":" + strconv.FormatUint(h.Sum64(), 16), nil
}

// Fingerprint hashes any JSON-encodable value
func Fingerprint(v any) (uint64, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

// DefaultMemoryCacheEntries caps NewMemoryCache
const DefaultMemoryCacheEntries = 10000

type memoryEntry struct {
	key     string
	value   []byte
	expires time.Time
}

// MemoryCache implements ResultCache in process memory. Entries are kept in
// insertion order; each Set drops expired entries from the front and evicts the
// oldest once the cache holds maxEntries.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache creates an empty in-memory cache holding at most
// DefaultMemoryCacheEntries entries
func NewMemoryCache() *MemoryCache {
	return NewBoundedMemoryCache(DefaultMemoryCacheEntries)
}

// NewBoundedMemoryCache creates an empty in-memory cache holding at most
// maxEntries entries; a non-positive limit uses DefaultMemoryCacheEntries
func NewBoundedMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryCacheEntries
	}
	return &MemoryCache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	entry := elem.Value.(*memoryEntry)
	if entry.expired(m.now()) {
		m.remove(elem)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := m.now()
	entry := &memoryEntry{key: key, value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expires = now.Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.entries[key]; ok {
		m.remove(elem)
	}
	m.entries[key] = m.order.PushBack(entry)

	for front := m.order.Front(); front != nil; front = m.order.Front() {
		if !front.Value.(*memoryEntry).expired(now) && m.order.Len() <= m.maxEntries {
			break
		}
		m.remove(front)
	}
	return nil
}

// remove deletes elem; callers hold mu
func (m *MemoryCache) remove(elem *list.Element) {
	m.order.Remove(elem)
	delete(m.entries, elem.Value.(*memoryEntry).key)
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Len reports the number of stored entries, expired or not
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

// RedisCache implements ResultCache on a Redis server
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects lazily to the server described by opts
func NewRedisCache(opts *redis.Options) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(opts),
		prefix: "novated:",
	}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}

// Ping checks the connection
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the connection pool
func (r *RedisCache) Close() error {
	return r.client.Close()
}
