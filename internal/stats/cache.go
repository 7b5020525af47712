package stats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/protoworx/rippledocs/internal/logging"
	"github.com/protoworx/rippledocs/internal/statcache"
)

// DefaultTTL is how long a fetched response is served without refetching.
const DefaultTTL = time.Hour

// Cache keys.
const (
	keyRepository = "github/repo"
	keyBundle     = "bundlephobia"
	keyVersion    = "version"
)

// Cache serves responses from a statcache.Store while they are younger than
// the TTL. A failed refetch falls back to the stale entry when one exists.
type Cache struct {
	store  statcache.Store
	ttl    time.Duration
	now    func() time.Time
	logger logging.Logger
}

func NewCache(store statcache.Store, ttl time.Duration, logger logging.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Cache{
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.WithComponent("stats-cache"),
	}
}

// cached returns the value stored under key when fresh, otherwise calls fetch
// and stores its result. Store failures are logged and never surface.
func cached[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return fetch(ctx)
	}

	entry, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn(ctx, err, "Stat cache read failed", "key", key)
		found = false
	}

	var stale *T
	if found {
		var value T
		if err := json.Unmarshal(entry.Body, &value); err != nil {
			c.logger.Warn(ctx, err, "Discarding unreadable cache entry", "key", key)
		} else if c.now().Sub(entry.FetchedAt) < c.ttl {
			return value, nil
		} else {
			stale = &value
		}
	}

	value, err := fetch(ctx)
	if err != nil {
		if stale != nil {
			c.logger.Warn(ctx, err, "Serving stale stats after failed refresh", "key", key)
			return *stale, nil
		}
		return value, err
	}

	body, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn(ctx, err, "Stat cache encode failed", "key", key)
		return value, nil
	}
	if err := c.store.Put(ctx, key, statcache.Entry{Body: body, FetchedAt: c.now()}); err != nil {
		c.logger.Warn(ctx, err, "Stat cache write failed", "key", key)
	}

	return value, nil
}

// Source is what the HTTP handlers and the CLI read stats from.
type Source interface {
	Repository(ctx context.Context) (RepoStats, error)
	Bundle(ctx context.Context) (BundleStats, error)
	Version(ctx context.Context) (string, error)
}

var (
	_ Source = (*Client)(nil)
	_ Source = (*Service)(nil)
)

// Service is a Client behind a Cache.
type Service struct {
	client *Client
	cache  *Cache
}

// NewService returns a Service. A nil cache disables caching.
func NewService(client *Client, cache *Cache) *Service {
	return &Service{client: client, cache: cache}
}

func (s *Service) Repository(ctx context.Context) (RepoStats, error) {
	return cached(ctx, s.cache, keyRepository, s.client.Repository)
}

func (s *Service) Bundle(ctx context.Context) (BundleStats, error) {
	return cached(ctx, s.cache, keyBundle, s.client.Bundle)
}

func (s *Service) Version(ctx context.Context) (string, error) {
	return cached(ctx, s.cache, keyVersion, s.client.Version)
}
