package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/d60-Lab/feed-service/internal/model"
	"github.com/d60-Lab/feed-service/internal/mq"
)

// Notifier 通知分发边界：按粉丝偏好路由到对应渠道
type Notifier interface {
	Notify(ctx context.Context, userID int64, text, preferred string) error
}

type mqNotifier struct {
	broker mq.Broker
}

func NewNotifier(broker mq.Broker) Notifier { return &mqNotifier{broker: broker} }

func (n *mqNotifier) Notify(ctx context.Context, userID int64, text, preferred string) error {
	if preferred != model.ChannelEmail && preferred != model.ChannelSMS {
		return fmt.Errorf("notify user %d: unknown channel %q", userID, preferred)
	}
	data, err := json.Marshal(NotificationMessage{UserID: userID, Text: text})
	if err != nil {
		return err
	}
	return n.broker.Publish(ctx, mq.SubjectNotification+preferred, "", data)
}
