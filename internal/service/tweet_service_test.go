package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/feed-service/internal/repository"
)

func TestGetTweetsPagesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	ctx := context.Background()

	svc := NewTweetService(repository.NewTweetRepository(db), c)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedTweet(t, db, 1, fmt.Sprintf("t%d", i), base.Add(time.Duration(i)*time.Minute))
	}

	page0, err := svc.GetTweets(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page0, 2)
	assert.Equal(t, "t4", page0[0].Text)
	assert.Equal(t, "t3", page0[1].Text)

	page1, err := svc.GetTweets(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "t2", page1[0].Text)
}

func TestGetTweetsResultIsCached(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	ctx := context.Background()

	svc := NewTweetService(repository.NewTweetRepository(db), c)
	seedTweet(t, db, 1, "only", time.Now())

	first, err := svc.GetTweets(ctx, 0, 20)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// 直接落库绕过失效，读到的仍是缓存页
	seedTweet(t, db, 1, "hidden", time.Now())
	cachedPage, err := svc.GetTweets(ctx, 0, 20)
	require.NoError(t, err)
	assert.Len(t, cachedPage, 1)

	require.NoError(t, c.InvalidateTag(ctx, CacheTagTweets))
	fresh, err := svc.GetTweets(ctx, 0, 20)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}
