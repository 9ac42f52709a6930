// Package cache provides caching implementations for Muster authorization results.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xraph/muster"
)

// Compile-time interface check.
var _ muster.Cache = (*Memory)(nil)

// Memory is an in-memory cache with TTL-based expiration.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	maxSize int
}

type entry struct {
	result    *muster.AuthzResult
	expiresAt time.Time
}

// MemoryOption configures the memory cache.
type MemoryOption func(*Memory)

// WithTTL sets the cache entry time-to-live.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(m *Memory) { m.ttl = ttl }
}

// WithMaxSize sets the maximum number of cache entries.
func WithMaxSize(n int) MemoryOption {
	return func(m *Memory) { m.maxSize = n }
}

// NewMemory creates a new in-memory cache.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]*entry),
		ttl:     5 * time.Minute,
		maxSize: 10000,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns a cached authorization result.
func (m *Memory) Get(_ context.Context, guildID string, req *muster.AuthorizeRequest) (*muster.AuthzResult, bool) {
	key := cacheKey(guildID, req)
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.result, true
}

// Set stores an authorization result in the cache.
func (m *Memory) Set(_ context.Context, guildID string, req *muster.AuthorizeRequest, result *muster.AuthzResult) {
	key := cacheKey(guildID, req)
	m.mu.Lock()
	defer m.mu.Unlock()

	// Evict if at capacity.
	if len(m.entries) >= m.maxSize {
		m.evictExpired()
		if len(m.entries) >= m.maxSize {
			m.evictOne()
		}
	}

	m.entries[key] = &entry{
		result:    result,
		expiresAt: time.Now().Add(m.ttl),
	}
}

// InvalidateGuild removes all cached results for a guild.
func (m *Memory) InvalidateGuild(_ context.Context, guildID string) {
	prefix := guildID + ":"
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(m.entries, k)
		}
	}
}

// InvalidateActor removes all cached results for a specific actor.
func (m *Memory) InvalidateActor(_ context.Context, guildID, actorID string) {
	actorKey := fmt.Sprintf("%s:%s:", guildID, actorID)
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if len(k) >= len(actorKey) && k[:len(actorKey)] == actorKey {
			delete(m.entries, k)
		}
	}
}

func cacheKey(guildID string, req *muster.AuthorizeRequest) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		guildID,
		req.ActorID,
		req.AnyPermission,
		req.OwnPermission,
		req.OwnerID,
		req.TargetUserID,
	)
}

// evictExpired removes all expired entries. Must hold write lock.
func (m *Memory) evictExpired() {
	now := time.Now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

// evictOne removes one arbitrary entry. Must hold write lock.
func (m *Memory) evictOne() {
	for k := range m.entries {
		delete(m.entries, k)
		return
	}
}
