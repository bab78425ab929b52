package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/feed-service/internal/model"
)

type FeedRepository interface {
	Put(ctx context.Context, userID, tweetID int64) error
	ListByUser(ctx context.Context, userID int64, count int) ([]*model.Tweet, error)
}

type feedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) FeedRepository { return &feedRepository{db: db} }

func (r *feedRepository) Put(ctx context.Context, userID, tweetID int64) error {
	now := time.Now()
	item := &model.FeedItem{UserID: userID, TweetID: tweetID, Score: now.UnixNano(), CreatedAt: now}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(item).Error
}

// ListByUser 推模式：直接读物化的 feed_items
func (r *feedRepository) ListByUser(ctx context.Context, userID int64, count int) ([]*model.Tweet, error) {
	var res []*model.Tweet
	err := r.db.WithContext(ctx).
		Model(&model.Tweet{}).
		Joins("JOIN feed_items ON feed_items.tweet_id = tweets.id").
		Where("feed_items.user_id = ?", userID).
		Order("feed_items.score DESC").
		Limit(count).
		Find(&res).Error
	return res, err
}
