package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/feed-service/internal/model"
)

type TweetRepository interface {
	Create(ctx context.Context, tweet *model.Tweet) error
	PagedList(ctx context.Context, page, perPage int) ([]*model.Tweet, error)
	ListByAuthors(ctx context.Context, authorIDs []int64, limit int) ([]*model.Tweet, error)
}

type tweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) TweetRepository { return &tweetRepository{db: db} }

func (r *tweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	return r.db.WithContext(ctx).Create(tweet).Error
}

func (r *tweetRepository) PagedList(ctx context.Context, page, perPage int) ([]*model.Tweet, error) {
	if page < 0 {
		page = 0
	}
	if perPage < 1 {
		perPage = 20
	}
	var res []*model.Tweet
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(page * perPage).
		Limit(perPage).
		Find(&res).Error
	return res, err
}

// ListByAuthors 拉模式：读时按关注的作者聚合
func (r *tweetRepository) ListByAuthors(ctx context.Context, authorIDs []int64, limit int) ([]*model.Tweet, error) {
	var res []*model.Tweet
	if len(authorIDs) == 0 {
		return res, nil
	}
	err := r.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC").
		Limit(limit).
		Find(&res).Error
	return res, err
}
