package users

import (
	"context"
	"fmt"
	"time"

	"github.com/diabalance/server/internal/logger"
	"github.com/diabalance/server/internal/tokencache"
)

// tokens expiring within this margin are treated as already gone, so a
// Kubios call made right after the lookup still has a live token
const expiryMargin = 5 * time.Minute

// the store surface the token manager needs
type TokenStore interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	UpdateKubiosToken(ctx context.Context, id int64, token string, expiresAt time.Time) (int64, error)
	ClearKubiosToken(ctx context.Context, id int64) (int64, error)
}

// TokenManager keeps the persisted Kubios token and the in-memory cache in
// step with each other.
type TokenManager struct {
	store TokenStore
	cache *tokencache.Cache
	now   func() time.Time
}

func NewTokenManager(store TokenStore, cache *tokencache.Cache) *TokenManager {
	return &TokenManager{store: store, cache: cache, now: time.Now}
}

// persists a freshly obtained token and caches it
func (m *TokenManager) Update(ctx context.Context, userID int64, token string, expiresIn int) error {
	expiresAt := m.now().Add(time.Duration(expiresIn) * time.Second)

	affected, err := m.store.UpdateKubiosToken(ctx, userID, token, expiresAt)
	if err != nil {
		return err
	}

	if affected == 0 {
		return fmt.Errorf("no user row for id %d", userID)
	}

	m.cache.Put(userID, token, expiresAt)
	return nil
}

// returns a usable token for the user, or empty when none exists or the
// stored one is expired or about to expire
func (m *TokenManager) Get(ctx context.Context, userID int64) (string, error) {
	if token, ok := m.cache.Get(userID); ok {
		return token, nil
	}

	user, err := m.store.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}

	if user == nil || user.KubiosToken == nil || user.KubiosExpiration == nil {
		return "", nil
	}

	if user.KubiosExpiration.Before(m.now().Add(expiryMargin)) {
		logger.Debug("stored kubios token expired or expiring", "user_id", userID)
		return "", nil
	}

	m.cache.Put(userID, *user.KubiosToken, *user.KubiosExpiration)
	return *user.KubiosToken, nil
}

// clears the persisted token and drops the cache entry. Reports whether a
// user row was matched; clearing an absent token is not an error.
func (m *TokenManager) Remove(ctx context.Context, userID int64) (bool, error) {
	affected, err := m.store.ClearKubiosToken(ctx, userID)
	if err != nil {
		return false, err
	}

	m.cache.Remove(userID)
	return affected > 0, nil
}
