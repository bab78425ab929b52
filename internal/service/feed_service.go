package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/d60-Lab/feed-service/internal/cache"
	"github.com/d60-Lab/feed-service/internal/repository"
)

// DefaultFeedSize 未指定 count 时的默认条数
const DefaultFeedSize = 20

// FeedService 组装粉丝时间线：推模式读物化项，拉模式读时聚合
type FeedService struct {
	feed   repository.FeedRepository
	subs   repository.SubscriptionRepository
	tweets repository.TweetRepository
	cache  *cache.TagCache
}

func NewFeedService(feed repository.FeedRepository, subs repository.SubscriptionRepository, tweets repository.TweetRepository, c *cache.TagCache) *FeedService {
	return &FeedService{feed: feed, subs: subs, tweets: tweets, cache: c}
}

// GetFeed 推模式：读 feed_items，最新在前；空结果合法
func (s *FeedService) GetFeed(ctx context.Context, userID int64, count int) ([]TweetDTO, error) {
	if count <= 0 {
		count = DefaultFeedSize
	}
	key := fmt.Sprintf("feed:%d:%d", userID, count)
	return s.cached(ctx, key, func(ctx context.Context) ([]byte, error) {
		rows, err := s.feed.ListByUser(ctx, userID, count)
		if err != nil {
			return nil, err
		}
		return json.Marshal(NewTweetDTOs(rows))
	})
}

// GetFeedFromTweets 拉模式：按关注的作者在读时聚合
func (s *FeedService) GetFeedFromTweets(ctx context.Context, userID int64, count int) ([]TweetDTO, error) {
	if count <= 0 {
		count = DefaultFeedSize
	}
	key := fmt.Sprintf("feedq:%d:%d", userID, count)
	return s.cached(ctx, key, func(ctx context.Context) ([]byte, error) {
		authorIDs, err := s.subs.FolloweeIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		rows, err := s.tweets.ListByAuthors(ctx, authorIDs, count)
		if err != nil {
			return nil, err
		}
		return json.Marshal(NewTweetDTOs(rows))
	})
}

func (s *FeedService) cached(ctx context.Context, key string, compute func(ctx context.Context) ([]byte, error)) ([]TweetDTO, error) {
	data, err := s.cache.GetOrCompute(ctx, CacheTagTweets, key, compute)
	if err != nil {
		return nil, err
	}
	out := make([]TweetDTO, 0)
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
