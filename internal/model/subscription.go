package model

import "time"

// Subscription 订阅关系（author 的粉丝是 follower）。
// (author_id, follower_id) 唯一，重复订阅幂等。
type Subscription struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	AuthorID   int64     `gorm:"index:idx_sub_author;index:idx_sub_pair,unique;not null"`
	FollowerID int64     `gorm:"index:idx_sub_follower;index:idx_sub_pair,unique;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Subscription) TableName() string { return "subscriptions" }
