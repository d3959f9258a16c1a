package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/fireplay-backend/internal/config"
	"github.com/your-org/fireplay-backend/internal/domain/catalog"
)

// JSONCache is the part of Client the catalog cache needs
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

var _ catalog.Client = (*CatalogCache)(nil)

// CatalogCache serves catalog reads from Redis, falling through to the
// wrapped client on a miss or any cache error
type CatalogCache struct {
	next            catalog.Client
	cache           JSONCache
	ttl             time.Duration
	defaultPageSize int
	maxPageSize     int
	log             logrus.FieldLogger
}

// NewCatalogCache wraps next with a Redis cache. Paging defaults come from
// the same catalog config as the wrapped client.
func NewCatalogCache(next catalog.Client, cache JSONCache, cfg config.CatalogConfig, log logrus.FieldLogger) *CatalogCache {
	return &CatalogCache{
		next:            next,
		cache:           cache,
		ttl:             cfg.CacheTTL,
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
		log:             log,
	}
}

// ListGames implements catalog.Client. Equivalent requests share one key.
func (c *CatalogCache) ListGames(ctx context.Context, params catalog.ListParams) (*catalog.Page, error) {
	params = params.Normalize(c.defaultPageSize, c.maxPageSize)
	key := fmt.Sprintf("catalog:games:%d:%d:%s:%s", params.Page, params.PageSize,
		strings.ToLower(params.Genres), strings.ToLower(params.Search))
	return cached(ctx, c, key, func() (*catalog.Page, error) {
		return c.next.ListGames(ctx, params)
	})
}

// GetGame implements catalog.Client
func (c *CatalogCache) GetGame(ctx context.Context, slug string) (*catalog.Detail, error) {
	return cached(ctx, c, "catalog:game:"+slug, func() (*catalog.Detail, error) {
		return c.next.GetGame(ctx, slug)
	})
}

// ListReviews implements catalog.Client
func (c *CatalogCache) ListReviews(ctx context.Context, slug string) ([]catalog.Review, error) {
	reviews, err := cached(ctx, c, "catalog:reviews:"+slug, func() (*[]catalog.Review, error) {
		r, err := c.next.ListReviews(ctx, slug)
		return &r, err
	})
	if err != nil {
		return nil, err
	}
	return *reviews, nil
}

// ListGenres implements catalog.Client
func (c *CatalogCache) ListGenres(ctx context.Context) ([]catalog.Genre, error) {
	genres, err := cached(ctx, c, "catalog:genres", func() (*[]catalog.Genre, error) {
		g, err := c.next.ListGenres(ctx)
		return &g, err
	})
	if err != nil {
		return nil, err
	}
	return *genres, nil
}

func cached[T any](ctx context.Context, c *CatalogCache, key string, load func() (*T, error)) (*T, error) {
	var hit T
	err := c.cache.GetJSON(ctx, key, &hit)
	if err == nil {
		return &hit, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.log.WithError(err).WithField("key", key).Warn("catalog cache read failed")
	}

	val, err := load()
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetJSON(ctx, key, val, c.ttl); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("catalog cache write failed")
	}
	return val, nil
}
