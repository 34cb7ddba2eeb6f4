package workload

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheVersionKey = "workload:version"
	// BumpChannel carries version numbers published by Bump.
	BumpChannel = "workload.bump"
)

// raiseVersion sets KEYS[1] to ARGV[1] only when that moves it forward and
// returns the resulting version.
var raiseVersion = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local proposed = tonumber(ARGV[1])
if proposed > current then
  redis.call('SET', KEYS[1], ARGV[1])
  return proposed
end
return current
`)

// Cache keeps computed dashboards in Redis. Every key carries the shared
// version number, so one INCR retires every dashboard at once.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Version returns the current dashboard version, starting at 1.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	if err := c.client.SetNX(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
		return 0, err
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err != nil {
		return 0, err
	}
	if ver < 1 {
		return c.raise(ctx, 1)
	}
	return ver, nil
}

// BuildKey joins parts and appends the current version.
func (c *Cache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(parts, ":")
	if c == nil || c.client == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return joined + ":" + strconv.FormatInt(ver, 10), nil
}

// Bump retires every cached dashboard and announces the new version.
func (c *Cache) Bump(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Incr(ctx, cacheVersionKey).Result()
	if err != nil {
		return 0, err
	}
	return ver, c.client.Publish(ctx, BumpChannel, strconv.FormatInt(ver, 10)).Err()
}

// ListenForInvalidation subscribes to channel and, until ctx is cancelled,
// makes sure the version key never falls behind an announced bump. Stale or
// malformed announcements are ignored.
func (c *Cache) ListenForInvalidation(ctx context.Context, channel string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if channel == "" {
		channel = BumpChannel
	}
	pubsub := c.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}
	go func() {
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				ver, err := strconv.ParseInt(msg.Payload, 10, 64)
				if err != nil || ver < 1 {
					continue
				}
				_, _ = c.raise(ctx, ver)
			}
		}
	}()
	return nil
}

func (c *Cache) raise(ctx context.Context, ver int64) (int64, error) {
	return raiseVersion.Run(ctx, c.client, []string{cacheVersionKey}, ver).Int64()
}

// cached returns the value stored under key, computing and storing it with
// load on a miss. A nil cache always computes.
func cached[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil || c.client == nil {
		return load(ctx)
	}
	var out T
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &out); err != nil {
			return out, err
		}
		return out, nil
	case !errors.Is(err, redis.Nil):
		return out, err
	}

	out, err = load(ctx)
	if err != nil {
		return out, err
	}
	raw, err = json.Marshal(out)
	if err != nil {
		return out, err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return out, err
	}
	// Hand back the decoded copy, as a hit would.
	var stored T
	if err := json.Unmarshal(raw, &stored); err != nil {
		return out, err
	}
	return stored, nil
}

func dashboardKeyParts(filter ClientFilter, overlay Overlay) []string {
	return []string{"workload", "dashboard", string(filter), overlay.Digest()}
}
