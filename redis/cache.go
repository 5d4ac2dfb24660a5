// Package redis provides a read-through cache for [breeze.WeatherService]
// backed by Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/breeze"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Interface compliance check.
var _ breeze.WeatherService = (*Cache)(nil)

// Store is the subset of the Redis client used by Cache.
type Store interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Ping(ctx context.Context) *goredis.StatusCmd
}

// Open parses a redis:// URL and returns a client.
func Open(url string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opt), nil
}

// Cache serves weather documents from Redis and falls back to the wrapped
// service on a miss. Only successful documents are stored. Redis failures
// are logged and bypassed so the cache never turns a lookup into an error.
type Cache struct {
	store  Store
	next   breeze.WeatherService
	ttl    time.Duration
	prefix string
	log    zerolog.Logger
}

// Option configures a [Cache].
type Option func(*Cache)

// WithTTL sets how long documents are kept. Default is 5 minutes.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) { c.ttl = d }
}

// WithKeyPrefix sets the key namespace, for example to separate languages.
func WithKeyPrefix(prefix string) Option {
	return func(c *Cache) { c.prefix = prefix }
}

// WithLogger sets the cache logger. Default discards output.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// NewCache wraps next with a cache held in store.
func NewCache(store Store, next breeze.WeatherService, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		next:   next,
		ttl:    5 * time.Minute,
		prefix: "breeze:weather:",
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Key returns the cache key for city. Lookups are case-insensitive.
func (c *Cache) Key(city string) string {
	return c.prefix + strings.ToLower(strings.TrimSpace(city))
}

// Weather returns the cached document for city or fetches and stores it.
func (c *Cache) Weather(ctx context.Context, city string) (json.RawMessage, error) {
	key := c.Key(city)

	cached, err := c.store.Get(ctx, key).Bytes()
	switch {
	case err == nil && json.Valid(cached):
		c.log.Debug().Str("key", key).Msg("cache hit")
		return cached, nil
	case err == nil:
		c.log.Warn().Str("key", key).Msg("ignoring invalid cached document")
	case !errors.Is(err, goredis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	doc, err := c.next.Weather(ctx, city)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, key, []byte(doc), c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return doc, nil
}

// Ping checks that Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx).Err()
}
