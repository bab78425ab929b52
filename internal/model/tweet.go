package model

import "time"

// Tweet 内容主体，发布后不可变
type Tweet struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	AuthorID  int64     `gorm:"index:idx_tweet_author;not null"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_tweet_created"`
	UpdatedAt time.Time
}

func (Tweet) TableName() string { return "tweets" }
