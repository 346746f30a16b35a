package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultImageCacheTTL is how long an image lookup result is reused
const DefaultImageCacheTTL = 24 * time.Hour

// CachedImageSearcher memoizes image lookups in Redis. Cache failures fall
// through to the wrapped searcher.
type CachedImageSearcher struct {
	next   ImageSearcher
	redis  redis.Cmdable
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedImageSearcher wraps next with a Redis cache
func NewCachedImageSearcher(next ImageSearcher, rdb redis.Cmdable, ttl time.Duration) *CachedImageSearcher {
	if ttl <= 0 {
		ttl = DefaultImageCacheTTL
	}
	return &CachedImageSearcher{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		logger: log.With().Str("component", "ImageCache").Logger(),
	}
}

func imageCacheKey(query string) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(query))))
	return "image:lookup:" + hex.EncodeToString(sum[:])
}

// SearchImage implements ImageSearcher
func (c *CachedImageSearcher) SearchImage(ctx context.Context, query string) (string, error) {
	key := imageCacheKey(query)

	cached, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Msg("image cache read failed")
	}

	url, err := c.next.SearchImage(ctx, query)
	if err != nil || url == "" {
		return url, err
	}

	if err := c.redis.Set(ctx, key, url, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("image cache write failed")
	}
	return url, nil
}
