package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/feed-service/internal/cache"
	"github.com/d60-Lab/feed-service/internal/model"
	"github.com/d60-Lab/feed-service/internal/mq"
	"github.com/d60-Lab/feed-service/internal/repository"
	"github.com/d60-Lab/feed-service/pkg/logger"
)

// Publisher 发布能力：同步 / 异步两个实现，按配置选用
type Publisher interface {
	// Publish 落地推文并向全部粉丝扇出，返回推文 ID
	Publish(ctx context.Context, authorID int64, text string) (int64, error)
}

// buildFanoutMessages 逐粉丝构造投递单元；粉丝集合在此刻快照
func buildFanoutMessages(tweet *model.Tweet, followers []*model.User) []FanoutMessage {
	msgs := make([]FanoutMessage, 0, len(followers))
	for _, f := range followers {
		msgs = append(msgs, FanoutMessage{
			TweetID:    tweet.ID,
			AuthorID:   tweet.AuthorID,
			FollowerID: f.ID,
			Text:       tweet.Text,
			Preferred:  f.Preferred,
		})
	}
	return msgs
}

// SyncPublisher 单事务扇出：推文、全部 feed 项、全部通知要么都提交要么都回滚
type SyncPublisher struct {
	db       *gorm.DB
	users    repository.UserRepository
	subs     repository.SubscriptionRepository
	notifier Notifier
	cache    *cache.TagCache
}

func NewSyncPublisher(db *gorm.DB, users repository.UserRepository, subs repository.SubscriptionRepository, notifier Notifier, c *cache.TagCache) *SyncPublisher {
	return &SyncPublisher{db: db, users: users, subs: subs, notifier: notifier, cache: c}
}

func (p *SyncPublisher) Publish(ctx context.Context, authorID int64, text string) (int64, error) {
	author, err := p.users.FindByID(ctx, authorID)
	if err != nil {
		return 0, err
	}
	if author == nil {
		return 0, fmt.Errorf("author %d: %w", authorID, ErrUserNotFound)
	}
	followers, err := p.subs.Followers(ctx, authorID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	tweet := model.Tweet{AuthorID: authorID, Text: text, CreatedAt: now, UpdatedAt: now}
	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tweet).Error; err != nil {
			return err
		}
		for _, msg := range buildFanoutMessages(&tweet, followers) {
			item := model.FeedItem{UserID: msg.FollowerID, TweetID: msg.TweetID, Score: now.UnixNano(), CreatedAt: now}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error; err != nil {
				return err
			}
			if err := p.notifier.Notify(ctx, msg.FollowerID, msg.Text, msg.Preferred); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := p.cache.InvalidateTag(ctx, CacheTagTweets); err != nil {
		logger.Warn("cache invalidation failed", zap.Int64("tweet", tweet.ID), zap.Error(err))
	}
	return tweet.ID, nil
}

// AsyncPublisher 推文独立提交，随后每个粉丝一条持久化消息
type AsyncPublisher struct {
	users  repository.UserRepository
	tweets repository.TweetRepository
	subs   repository.SubscriptionRepository
	broker mq.Broker
	cache  *cache.TagCache
}

func NewAsyncPublisher(users repository.UserRepository, tweets repository.TweetRepository, subs repository.SubscriptionRepository, broker mq.Broker, c *cache.TagCache) *AsyncPublisher {
	return &AsyncPublisher{users: users, tweets: tweets, subs: subs, broker: broker, cache: c}
}

func (p *AsyncPublisher) Publish(ctx context.Context, authorID int64, text string) (int64, error) {
	author, err := p.users.FindByID(ctx, authorID)
	if err != nil {
		return 0, err
	}
	if author == nil {
		return 0, fmt.Errorf("author %d: %w", authorID, ErrUserNotFound)
	}

	now := time.Now()
	tweet := model.Tweet{AuthorID: authorID, Text: text, CreatedAt: now, UpdatedAt: now}
	if err := p.tweets.Create(ctx, &tweet); err != nil {
		return 0, err
	}

	followers, err := p.subs.Followers(ctx, authorID)
	if err != nil {
		return 0, err
	}
	for _, msg := range buildFanoutMessages(&tweet, followers) {
		data, err := json.Marshal(msg)
		if err != nil {
			return 0, err
		}
		if err := p.broker.Publish(ctx, mq.SubjectUpdateFeed, msg.MsgID(), data); err != nil {
			return 0, fmt.Errorf("enqueue fanout for follower %d: %w", msg.FollowerID, err)
		}
	}

	if err := p.cache.InvalidateTag(ctx, CacheTagTweets); err != nil {
		logger.Warn("cache invalidation failed", zap.Int64("tweet", tweet.ID), zap.Error(err))
	}
	return tweet.ID, nil
}
