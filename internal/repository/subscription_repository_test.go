package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/feed-service/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Tweet{}, &model.Subscription{}, &model.FeedItem{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, login, preferred string) *model.User {
	u := &model.User{Login: login, Password: "p", IsActive: true, Preferred: preferred}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestSubscriptionCreateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author", model.ChannelEmail)
	follower := seedUser(t, db, "follower", model.ChannelSMS)

	require.NoError(t, repo.Create(ctx, author.ID, follower.ID))
	require.NoError(t, repo.Create(ctx, author.ID, follower.ID))

	ids, err := repo.FollowerIDs(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{follower.ID}, ids)
}

func TestFollowerAndFolloweeIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author", model.ChannelEmail)
	followers := make([]*model.User, 3)
	for i := range followers {
		followers[i] = seedUser(t, db, fmt.Sprintf("reader%d", i), model.ChannelEmail)
		require.NoError(t, repo.Create(ctx, author.ID, followers[i].ID))
	}

	ids, err := repo.FollowerIDs(ctx, author.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	followees, err := repo.FolloweeIDs(ctx, followers[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{author.ID}, followees)
}

func TestFollowersCarryPreferredChannel(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author", model.ChannelEmail)
	follower := seedUser(t, db, "sms_reader", model.ChannelSMS)
	require.NoError(t, repo.Create(ctx, author.ID, follower.ID))

	users, err := repo.Followers(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "sms_reader", users[0].Login)
	assert.Equal(t, model.ChannelSMS, users[0].Preferred)
}
