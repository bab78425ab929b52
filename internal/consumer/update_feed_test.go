package consumer

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/feed-service/internal/model"
	"github.com/d60-Lab/feed-service/internal/mq"
	"github.com/d60-Lab/feed-service/internal/service"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Tweet{}, &model.Subscription{}, &model.FeedItem{}))
	return db
}

type notified struct {
	userID    int64
	preferred string
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notified
	err   error
}

func (n *fakeNotifier) Notify(_ context.Context, userID int64, _, preferred string) error {
	if n.err != nil {
		return n.err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notified{userID: userID, preferred: preferred})
	return nil
}

func fanoutBody(t *testing.T, msg service.FanoutMessage) []byte {
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	return data
}

func TestUpdateFeedDropsMalformedMessage(t *testing.T) {
	db := newTestDB(t)
	h := NewUpdateFeed(db, &fakeNotifier{})

	res := h.Handle(context.Background(), []byte("{not json"))
	assert.Equal(t, mq.RejectDrop, res)

	var count int64
	require.NoError(t, db.Model(&model.FeedItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateFeedDropsUnknownChannel(t *testing.T) {
	db := newTestDB(t)
	h := NewUpdateFeed(db, &fakeNotifier{})

	body := fanoutBody(t, service.FanoutMessage{TweetID: 1, AuthorID: 2, FollowerID: 3, Text: "x", Preferred: "pigeon"})
	assert.Equal(t, mq.RejectDrop, h.Handle(context.Background(), body))
}

func TestUpdateFeedWritesItemAndNotifies(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	h := NewUpdateFeed(db, notifier)

	body := fanoutBody(t, service.FanoutMessage{TweetID: 10, AuthorID: 2, FollowerID: 3, Text: "hello", Preferred: model.ChannelSMS})
	assert.Equal(t, mq.Ack, h.Handle(context.Background(), body))

	var item model.FeedItem
	require.NoError(t, db.First(&item).Error)
	assert.Equal(t, int64(3), item.UserID)
	assert.Equal(t, int64(10), item.TweetID)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, int64(3), notifier.calls[0].userID)
	assert.Equal(t, model.ChannelSMS, notifier.calls[0].preferred)
}

func TestUpdateFeedRedeliveryWritesSingleItem(t *testing.T) {
	db := newTestDB(t)
	h := NewUpdateFeed(db, &fakeNotifier{})

	body := fanoutBody(t, service.FanoutMessage{TweetID: 10, AuthorID: 2, FollowerID: 3, Text: "again", Preferred: model.ChannelEmail})
	assert.Equal(t, mq.Ack, h.Handle(context.Background(), body))
	assert.Equal(t, mq.Ack, h.Handle(context.Background(), body))

	var count int64
	require.NoError(t, db.Model(&model.FeedItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateFeedRequeuesOnNotifierFailure(t *testing.T) {
	db := newTestDB(t)
	h := NewUpdateFeed(db, &fakeNotifier{err: assert.AnError})

	body := fanoutBody(t, service.FanoutMessage{TweetID: 10, AuthorID: 2, FollowerID: 3, Text: "retry me", Preferred: model.ChannelEmail})
	assert.Equal(t, mq.RejectRequeue, h.Handle(context.Background(), body))

	// 通知失败要把 feed 写入一并回滚
	var count int64
	require.NoError(t, db.Model(&model.FeedItem{}).Count(&count).Error)
	assert.Zero(t, count)
}
