package consumer

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/feed-service/internal/model"
	"github.com/d60-Lab/feed-service/internal/mq"
	"github.com/d60-Lab/feed-service/internal/repository"
	"github.com/d60-Lab/feed-service/internal/service"
)

func followersBody(t *testing.T, msg service.AddFollowersMessage) []byte {
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	return data
}

func TestAddFollowersDropsMalformedMessage(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	h := NewAddFollowers(users, service.NewSubscriptionService(users, repository.NewSubscriptionRepository(db)))

	assert.Equal(t, mq.RejectDrop, h.Handle(context.Background(), []byte("]")))
}

func TestAddFollowersDropsUnknownAuthor(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	h := NewAddFollowers(users, service.NewSubscriptionService(users, repository.NewSubscriptionRepository(db)))

	body := followersBody(t, service.AddFollowersMessage{UserID: 404, FollowerLogin: "Reader", Count: 1})
	assert.Equal(t, mq.RejectDrop, h.Handle(context.Background(), body))
}

func TestAddFollowersCreatesAndAcks(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	subs := repository.NewSubscriptionRepository(db)
	h := NewAddFollowers(users, service.NewSubscriptionService(users, subs))
	ctx := context.Background()

	author := &model.User{Login: "author", Password: "p", IsActive: true, Preferred: model.ChannelEmail}
	require.NoError(t, db.Create(author).Error)

	body := followersBody(t, service.AddFollowersMessage{UserID: author.ID, FollowerLogin: "Reader", Count: 2})
	assert.Equal(t, mq.Ack, h.Handle(ctx, body))

	ids, err := subs.FollowerIDs(ctx, author.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestAddFollowersRedeliveryCreatesNoDuplicates(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	subs := repository.NewSubscriptionRepository(db)
	h := NewAddFollowers(users, service.NewSubscriptionService(users, subs))
	ctx := context.Background()

	author := &model.User{Login: "author", Password: "p", IsActive: true, Preferred: model.ChannelEmail}
	require.NoError(t, db.Create(author).Error)

	body := followersBody(t, service.AddFollowersMessage{UserID: author.ID, FollowerLogin: "Reader", Count: 2})
	assert.Equal(t, mq.Ack, h.Handle(ctx, body))
	assert.Equal(t, mq.Ack, h.Handle(ctx, body))

	ids, err := subs.FollowerIDs(ctx, author.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	var userCount int64
	require.NoError(t, db.Model(&model.User{}).Count(&userCount).Error)
	assert.Equal(t, int64(3), userCount)
}
