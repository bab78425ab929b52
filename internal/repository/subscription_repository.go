package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/feed-service/internal/model"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, authorID, followerID int64) error
	FollowerIDs(ctx context.Context, authorID int64) ([]int64, error)
	FolloweeIDs(ctx context.Context, followerID int64) ([]int64, error)
	Followers(ctx context.Context, authorID int64) ([]*model.User, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, authorID, followerID int64) error {
	s := &model.Subscription{AuthorID: authorID, FollowerID: followerID}
	// 幂等：重复订阅不报错
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(s).Error
}

func (r *subscriptionRepository) FollowerIDs(ctx context.Context, authorID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("author_id = ?", authorID).
		Pluck("follower_id", &ids).Error
	return ids, err
}

func (r *subscriptionRepository) FolloweeIDs(ctx context.Context, followerID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("follower_id = ?", followerID).
		Pluck("author_id", &ids).Error
	return ids, err
}

// Followers 带用户信息（投递时需要偏好渠道）
func (r *subscriptionRepository) Followers(ctx context.Context, authorID int64) ([]*model.User, error) {
	var res []*model.User
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Joins("JOIN subscriptions ON subscriptions.follower_id = users.id").
		Where("subscriptions.author_id = ?", authorID).
		Find(&res).Error
	return res, err
}
