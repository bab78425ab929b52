package consumer

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/d60-Lab/feed-service/internal/metrics"
	"github.com/d60-Lab/feed-service/internal/mq"
	"github.com/d60-Lab/feed-service/internal/repository"
	"github.com/d60-Lab/feed-service/internal/service"
	"github.com/d60-Lab/feed-service/pkg/logger"
)

const addFollowersName = "add_followers"

// AddFollowers 消费 feed.followers：为作者批量创建粉丝账号。
// 作者不存在视为毒消息（重投也不会成功）。
type AddFollowers struct {
	users repository.UserRepository
	subs  *service.SubscriptionService
}

func NewAddFollowers(users repository.UserRepository, subs *service.SubscriptionService) *AddFollowers {
	return &AddFollowers{users: users, subs: subs}
}

func (h *AddFollowers) Handle(ctx context.Context, data []byte) mq.Result {
	var msg service.AddFollowersMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return h.reject(data, err)
	}
	if err := msg.Validate(); err != nil {
		return h.reject(data, err)
	}

	author, err := h.users.FindByID(ctx, msg.UserID)
	if err != nil {
		metrics.MessagesProcessed.WithLabelValues(addFollowersName, metrics.OutcomeRequeued).Inc()
		return mq.RejectRequeue
	}
	if author == nil {
		return h.reject(data, service.ErrUserNotFound)
	}

	created, err := h.subs.AddFollowers(ctx, author, msg.FollowerLogin, msg.Count)
	if err != nil {
		logger.Error("add followers failed",
			zap.Int64("author", msg.UserID), zap.Int("created", created), zap.Error(err))
		metrics.MessagesProcessed.WithLabelValues(addFollowersName, metrics.OutcomeRequeued).Inc()
		return mq.RejectRequeue
	}

	metrics.MessagesProcessed.WithLabelValues(addFollowersName, metrics.OutcomeAcked).Inc()
	return mq.Ack
}

func (h *AddFollowers) reject(data []byte, err error) mq.Result {
	logger.Warn("incorrect message", zap.ByteString("body", data), zap.Error(err))
	metrics.MessagesProcessed.WithLabelValues(addFollowersName, metrics.OutcomeDropped).Inc()
	return mq.RejectDrop
}
