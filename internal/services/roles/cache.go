package roles

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const defaultTTL = 30 * time.Second

// MemberSource is the transport-side chat member role lookup.
type MemberSource interface {
	IsElevated(ctx context.Context, chatID, userID int64) (bool, error)
}

// Cache memoizes per-(chat, user) role lookups for a short TTL to cut
// external calls without holding stale privileges for long. Lookup errors
// are never cached.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]cachedRole

	source MemberSource
	ttl    time.Duration
	now    func() time.Time
}

type cacheKey struct {
	chatID int64
	userID int64
}

type cachedRole struct {
	elevated  bool
	expiresAt time.Time
}

func NewCache(source MemberSource, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Cache{
		entries: make(map[cacheKey]cachedRole),
		source:  source,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *Cache) Elevated(ctx context.Context, chatID, userID int64) (bool, error) {
	if chatID == 0 || userID <= 0 {
		return false, fmt.Errorf("invalid role lookup payload")
	}
	if c.source == nil {
		return false, fmt.Errorf("role source is nil")
	}

	key := cacheKey{chatID: chatID, userID: userID}
	now := c.now()

	c.mu.Lock()
	if cached, ok := c.entries[key]; ok && now.Before(cached.expiresAt) {
		c.mu.Unlock()
		return cached.elevated, nil
	}
	c.mu.Unlock()

	elevated, err := c.source.IsElevated(ctx, chatID, userID)
	if err != nil {
		return false, fmt.Errorf("lookup chat member role: %w", err)
	}

	c.mu.Lock()
	c.entries[key] = cachedRole{elevated: elevated, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()

	return elevated, nil
}
