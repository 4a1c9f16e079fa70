package messaging

import (
	"context"

	rediscache "github.com/playzo/playzo-backend/internal/infrastructure/persistence/redis"
)

// ══════════════════════════════════════════════════════════════════════════════
// REDIS CLIENT ADAPTER
// ══════════════════════════════════════════════════════════════════════════════

// CacheRedisClient adapts the persistence-layer Redis cache to the RedisClient
// interface the event bus expects. It shares the cache's connection pool, so
// the bus needs no second Redis connection.
type CacheRedisClient struct {
	cache *rediscache.Cache
}

// NewCacheRedisClient wraps a Redis cache for use by RedisEventBus.
func NewCacheRedisClient(cache *rediscache.Cache) *CacheRedisClient {
	return &CacheRedisClient{cache: cache}
}

// Publish sends a message to a Redis channel.
func (c *CacheRedisClient) Publish(ctx context.Context, channel string, message interface{}) error {
	return c.cache.Publish(ctx, channel, message)
}

// Subscribe subscribes to Redis channels and streams messages until ctx is
// cancelled.
func (c *CacheRedisClient) Subscribe(ctx context.Context, channels ...string) (<-chan RedisMessage, error) {
	pubsub := c.cache.Subscribe(ctx, channels...)

	// Confirm the subscription before handing back the channel.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	out := make(chan RedisMessage)

	go func() {
		defer close(out)
		defer pubsub.Close()

		in := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- RedisMessage{Channel: msg.Channel, Payload: msg.Payload}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Close is a no-op; the underlying cache owns the connection lifecycle.
func (c *CacheRedisClient) Close() error {
	return nil
}
