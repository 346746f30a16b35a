package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/backend/internal/service"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCachedImageSearcherReusesHits(t *testing.T) {
	mr, client := setupRedis(t)
	next := new(MockImageSearcher)
	next.On("SearchImage", mock.Anything, "Green Curry").Return("https://images.unsplash.com/curry.jpg", nil).Once()

	cache := service.NewCachedImageSearcher(next, client, time.Hour)

	first, err := cache.SearchImage(context.Background(), "Green Curry")
	require.NoError(t, err)
	second, err := cache.SearchImage(context.Background(), "  green curry")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	next.AssertNumberOfCalls(t, "SearchImage", 1)

	mr.FastForward(2 * time.Hour)
	next.On("SearchImage", mock.Anything, "green curry").Return("https://images.unsplash.com/curry2.jpg", nil).Once()
	third, err := cache.SearchImage(context.Background(), "green curry")
	require.NoError(t, err)
	assert.Equal(t, "https://images.unsplash.com/curry2.jpg", third)
}

func TestCachedImageSearcherSkipsMisses(t *testing.T) {
	_, client := setupRedis(t)
	next := new(MockImageSearcher)
	next.On("SearchImage", mock.Anything, "nothing").Return("", nil)
	next.On("SearchImage", mock.Anything, "broken").Return("", errors.New("boom"))

	cache := service.NewCachedImageSearcher(next, client, 0)

	for i := 0; i < 2; i++ {
		url, err := cache.SearchImage(context.Background(), "nothing")
		require.NoError(t, err)
		assert.Empty(t, url)
	}
	_, err := cache.SearchImage(context.Background(), "broken")
	assert.Error(t, err)

	next.AssertNumberOfCalls(t, "SearchImage", 3)
}

func TestCachedImageSearcherFallsThroughWhenRedisIsDown(t *testing.T) {
	mr, client := setupRedis(t)
	mr.Close()

	next := new(MockImageSearcher)
	next.On("SearchImage", mock.Anything, "curry").Return("https://images.unsplash.com/curry.jpg", nil)

	cache := service.NewCachedImageSearcher(next, client, time.Hour)
	url, err := cache.SearchImage(context.Background(), "curry")
	require.NoError(t, err)
	assert.Equal(t, "https://images.unsplash.com/curry.jpg", url)
}
