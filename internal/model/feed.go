package model

import "time"

// FeedItem 按粉丝物化的时间线项。
// (user_id, tweet_id) 唯一，重复投递只落一条。
type FeedItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"index:idx_feed_user;uniqueIndex:ux_feed_user_tweet;not null"`
	TweetID   int64     `gorm:"index:idx_feed_tweet;uniqueIndex:ux_feed_user_tweet;not null"`
	Score     int64     `gorm:"index:idx_feed_user_score"`
	CreatedAt time.Time `gorm:"index:idx_feed_user_score"`
}

func (FeedItem) TableName() string { return "feed_items" }
