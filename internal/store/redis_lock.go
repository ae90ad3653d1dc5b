package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when another coordinator operation already holds
// the per-game advisory lock.
var ErrLockHeld = errors.New("lock_held")

// Locker is implemented by Store wrappers that offer a per-gameId advisory
// lock in front of their transactional updates, letting a caller skip
// duplicate work (two bot steps racing for the same game) rather than
// relying on Store.UpdateGame's retry loop to sort it out. Human moves do
// not take the lock.
type Locker interface {
	TryLock(ctx context.Context, gameID string) (string, error)
	Unlock(ctx context.Context, gameID, token string) error
}

// RedisActiveGameCache fronts the userId -> activeGameId mapping with a
// Redis read-through cache, and offers a short-lived advisory lock that
// bot steps take so two of them do not run at once for the same gameId
// (the Store's transactional UpdateGame is still the authoritative
// serialization point, also against human moves; this lock only avoids
// wasted work).
type RedisActiveGameCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisActiveGameCache wraps an already-connected client.
func NewRedisActiveGameCache(client *redis.Client) *RedisActiveGameCache {
	return &RedisActiveGameCache{client: client, ttl: 10 * time.Second}
}

func activeGameKey(userID string) string { return "losiento:active:" + userID }
func gameLockKey(gameID string) string   { return "losiento:lock:" + gameID }

// Get returns the cached activeGameId for userID, or "" if absent.
func (c *RedisActiveGameCache) Get(ctx context.Context, userID string) (string, error) {
	v, err := c.client.Get(ctx, activeGameKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

// Set caches userID's activeGameId, or clears it when gameID is empty.
func (c *RedisActiveGameCache) Set(ctx context.Context, userID, gameID string) error {
	if gameID == "" {
		return c.client.Del(ctx, activeGameKey(userID)).Err()
	}
	return c.client.Set(ctx, activeGameKey(userID), gameID, c.ttl).Err()
}

// TryLock acquires the advisory lock for gameID, returning ErrLockHeld if
// another holder already has it. The returned token must be passed to
// Unlock to release it.
func (c *RedisActiveGameCache) TryLock(ctx context.Context, gameID string) (string, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, gameLockKey(gameID), token, 5*time.Second).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrLockHeld
	}
	return token, nil
}

// Unlock releases the advisory lock if token still matches the holder.
func (c *RedisActiveGameCache) Unlock(ctx context.Context, gameID, token string) error {
	const script = `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		end
		return 0
	`
	return c.client.Eval(ctx, script, []string{gameLockKey(gameID)}, token).Err()
}
