package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/d60-Lab/feed-service/internal/cache"
	"github.com/d60-Lab/feed-service/internal/repository"
)

// TweetService 全量推文分页读取，结果挂在 tweets tag 下缓存
type TweetService struct {
	tweets repository.TweetRepository
	cache  *cache.TagCache
}

func NewTweetService(tweets repository.TweetRepository, c *cache.TagCache) *TweetService {
	return &TweetService{tweets: tweets, cache: c}
}

func (s *TweetService) GetTweets(ctx context.Context, page, perPage int) ([]TweetDTO, error) {
	if perPage < 1 {
		perPage = 20
	}
	key := fmt.Sprintf("tweets:%d:%d", page, perPage)
	data, err := s.cache.GetOrCompute(ctx, CacheTagTweets, key, func(ctx context.Context) ([]byte, error) {
		rows, err := s.tweets.PagedList(ctx, page, perPage)
		if err != nil {
			return nil, err
		}
		return json.Marshal(NewTweetDTOs(rows))
	})
	if err != nil {
		return nil, err
	}
	var out []TweetDTO
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
