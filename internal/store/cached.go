package store

import (
	"context"
)

// CachedStore fronts a Store's active-game lookups with a
// RedisActiveGameCache, so that Rejoin and Host/Join's "does this user
// already have a game" check avoid a round trip to the backing store on
// the common path. Writes go to both; reads fall back to the backing
// store on a cache miss and backfill the cache.
type CachedStore struct {
	Store
	cache *RedisActiveGameCache
}

// NewCachedStore wraps backing with cache for active-game lookups.
func NewCachedStore(backing Store, cache *RedisActiveGameCache) *CachedStore {
	return &CachedStore{Store: backing, cache: cache}
}

func (s *CachedStore) SetActiveGame(ctx context.Context, userID string, gameID *string) error {
	if err := s.Store.SetActiveGame(ctx, userID, gameID); err != nil {
		return err
	}
	if gameID == nil {
		return s.cache.Set(ctx, userID, "")
	}
	return s.cache.Set(ctx, userID, *gameID)
}

func (s *CachedStore) GetActiveGame(ctx context.Context, userID string) (*string, error) {
	if cached, err := s.cache.Get(ctx, userID); err == nil && cached != "" {
		return &cached, nil
	}
	gameID, err := s.Store.GetActiveGame(ctx, userID)
	if err != nil || gameID == nil {
		return gameID, err
	}
	_ = s.cache.Set(ctx, userID, *gameID)
	return gameID, nil
}

// TryLock and Unlock expose the backing cache's per-gameId advisory lock so
// callers (the Turn Coordinator's bot step) can avoid racing another bot
// step for the same game without depending on the concrete cache type.
func (s *CachedStore) TryLock(ctx context.Context, gameID string) (string, error) {
	return s.cache.TryLock(ctx, gameID)
}

func (s *CachedStore) Unlock(ctx context.Context, gameID, token string) error {
	return s.cache.Unlock(ctx, gameID, token)
}

var _ Store = (*CachedStore)(nil)
var _ Locker = (*CachedStore)(nil)
