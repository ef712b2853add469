package tokencache

import (
	"sync"
	"time"

	"github.com/diabalance/server/internal/logger"
)

// Cache is a process-local map from user id to a Kubios token with an
// absolute expiry. Expiry is enforced lazily on read, so no timers are
// involved and tests can drive expiration through the injected clock.
type Cache struct {
	mu      sync.Mutex
	entries map[int64]entry
	now     func() time.Time
}

type entry struct {
	token     string
	expiresAt time.Time
}

// creates a cache using the wall clock
func New() *Cache {
	return NewWithClock(time.Now)
}

// creates a cache with an injected clock
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{
		entries: make(map[int64]entry),
		now:     now,
	}
}

// stores a token for a user until the given expiry. Calls with a missing
// user id, token or expiry are ignored.
func (c *Cache) Put(userID int64, token string, expiresAt time.Time) {
	if userID <= 0 || token == "" || expiresAt.IsZero() {
		return
	}

	logger.Debug("caching Kubios token", "user_id", userID)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[userID] = entry{token: token, expiresAt: expiresAt}
}

// returns the cached token for a user. A stale entry is removed and
// reported as absent.
func (c *Cache) Get(userID int64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[userID]
	if !ok {
		return "", false
	}

	if !e.expiresAt.After(c.now()) {
		logger.Debug("cached Kubios token expired", "user_id", userID)
		delete(c.entries, userID)
		return "", false
	}

	return e.token, true
}

// removes the cached token for a user. Removing an absent entry is a no-op.
func (c *Cache) Remove(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, userID)
}
