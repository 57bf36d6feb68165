// Package redisx keeps the collector's coordination state in Redis: a run
// lock so only one collector walks the registry at a time, and a page
// checkpoint so an interrupted run resumes where it stopped.
package redisx

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type Client struct{ Rdb redis.UniversalClient }

func New(addr string, password string, db int) *Client {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	return &Client{Rdb: rdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.Rdb.Ping(ctx).Err()
}

func (c *Client) Close() error { return c.Rdb.Close() }

// releaseScript deletes the lock only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// AcquireLock takes key for ttl if nobody holds it.
func (c *Client) AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	return c.Rdb.SetNX(ctx, key, token, ttl).Result()
}

// ReleaseLock frees key if token still owns it. It reports whether the lock
// was released.
func (c *Client) ReleaseLock(ctx context.Context, key, token string) (bool, error) {
	n, err := releaseScript.Run(ctx, c.Rdb, []string{key}, token).Int()
	return n == 1, err
}

// LoadCheckpoint returns the last completed page for key, or 0 when none is
// stored.
func (c *Client) LoadCheckpoint(ctx context.Context, key string) (int, error) {
	v, err := c.Rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	page, err := strconv.Atoi(v)
	if err != nil {
		// A corrupt checkpoint restarts the walk.
		return 0, nil
	}
	return page, nil
}

func (c *Client) SaveCheckpoint(ctx context.Context, key string, page int, ttl time.Duration) error {
	return c.Rdb.Set(ctx, key, strconv.Itoa(page), ttl).Err()
}

func (c *Client) ClearCheckpoint(ctx context.Context, key string) error {
	return c.Rdb.Del(ctx, key).Err()
}
