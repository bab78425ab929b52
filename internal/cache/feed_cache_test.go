package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*TagCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTagCache(client, time.Minute), mr
}

func TestGetOrComputeComputesOnce(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	calls := 0
	compute := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte(`["a","b"]`), nil
	}

	first, err := c.GetOrCompute(ctx, "tweets", "feed:1:10", compute)
	require.NoError(t, err)
	second, err := c.GetOrCompute(ctx, "tweets", "feed:1:10", compute)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestInvalidateTagForcesRecompute(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	calls := 0
	compute := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte(`["v"]`), nil
	}

	_, err := c.GetOrCompute(ctx, "tweets", "feed:1:10", compute)
	require.NoError(t, err)
	require.NoError(t, c.InvalidateTag(ctx, "tweets"))
	_, err = c.GetOrCompute(ctx, "tweets", "feed:1:10", compute)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestInvalidateTagAppliesToAllKeysUnderTag(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	calls := map[string]int{}
	computeFor := func(key string) func(context.Context) ([]byte, error) {
		return func(ctx context.Context) ([]byte, error) {
			calls[key]++
			return []byte(key), nil
		}
	}

	for _, key := range []string{"feed:1:10", "feed:2:10", "tweets:0:20"} {
		_, err := c.GetOrCompute(ctx, "tweets", key, computeFor(key))
		require.NoError(t, err)
	}
	require.NoError(t, c.InvalidateTag(ctx, "tweets"))
	for _, key := range []string{"feed:1:10", "feed:2:10", "tweets:0:20"} {
		_, err := c.GetOrCompute(ctx, "tweets", key, computeFor(key))
		require.NoError(t, err)
		assert.Equal(t, 2, calls[key])
	}
}

func TestInvalidateTagTwiceIsNoop(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.InvalidateTag(ctx, "tweets"))
	require.NoError(t, c.InvalidateTag(ctx, "tweets"))

	data, err := c.GetOrCompute(ctx, "tweets", "k", func(ctx context.Context) ([]byte, error) {
		return []byte("x"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestComputeErrorIsNotCached(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	calls := 0
	_, err := c.GetOrCompute(ctx, "tweets", "k", func(ctx context.Context) ([]byte, error) {
		calls++
		return nil, assert.AnError
	})
	require.Error(t, err)

	data, err := c.GetOrCompute(ctx, "tweets", "k", func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), data)
	assert.Equal(t, 2, calls)
}
