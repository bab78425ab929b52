package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/feed-service/internal/metrics"
	"github.com/d60-Lab/feed-service/internal/model"
	"github.com/d60-Lab/feed-service/internal/mq"
	"github.com/d60-Lab/feed-service/internal/service"
	"github.com/d60-Lab/feed-service/pkg/logger"
)

const updateFeedName = "update_feed"

// UpdateFeed 消费 feed.update：事务内写 feed 项并派发通知。
// 解析失败丢弃，事务失败回滚后重投。
type UpdateFeed struct {
	db       *gorm.DB
	notifier service.Notifier
}

func NewUpdateFeed(db *gorm.DB, notifier service.Notifier) *UpdateFeed {
	return &UpdateFeed{db: db, notifier: notifier}
}

func (h *UpdateFeed) Handle(ctx context.Context, data []byte) mq.Result {
	var msg service.FanoutMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return h.reject(data, err)
	}
	if err := msg.Validate(); err != nil {
		return h.reject(data, err)
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		item := model.FeedItem{UserID: msg.FollowerID, TweetID: msg.TweetID, Score: now.UnixNano(), CreatedAt: now}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error; err != nil {
			return err
		}
		return h.notifier.Notify(ctx, msg.FollowerID, msg.Text, msg.Preferred)
	})
	if err != nil {
		logger.Error("update feed failed",
			zap.Int64("tweet", msg.TweetID), zap.Int64("follower", msg.FollowerID), zap.Error(err))
		metrics.MessagesProcessed.WithLabelValues(updateFeedName, metrics.OutcomeRequeued).Inc()
		return mq.RejectRequeue
	}

	metrics.MessagesProcessed.WithLabelValues(updateFeedName, metrics.OutcomeAcked).Inc()
	return mq.Ack
}

func (h *UpdateFeed) reject(data []byte, err error) mq.Result {
	logger.Warn("incorrect message", zap.ByteString("body", data), zap.Error(err))
	metrics.MessagesProcessed.WithLabelValues(updateFeedName, metrics.OutcomeDropped).Inc()
	return mq.RejectDrop
}
