package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/feed-service/internal/cache"
	"github.com/d60-Lab/feed-service/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Tweet{}, &model.Subscription{}, &model.FeedItem{}))
	return db
}

func newTestCache(t *testing.T) (*cache.TagCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewTagCache(client, time.Minute), mr
}

func createUser(t *testing.T, db *gorm.DB, login, preferred string) *model.User {
	u := &model.User{Login: login, Password: "p", IsActive: true, Preferred: preferred}
	require.NoError(t, db.Create(u).Error)
	return u
}

type published struct {
	subject string
	msgID   string
	data    []byte
}

type fakeBroker struct {
	mu       sync.Mutex
	messages []published
	err      error
}

func (b *fakeBroker) Publish(_ context.Context, subject, msgID string, data []byte) error {
	if b.err != nil {
		return b.err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	b.messages = append(b.messages, published{subject: subject, msgID: msgID, data: cp})
	return nil
}

func (b *fakeBroker) bySubject(subject string) []published {
	b.mu.Lock()
	defer b.mu.Unlock()
	var res []published
	for _, m := range b.messages {
		if m.subject == subject {
			res = append(res, m)
		}
	}
	return res
}

type notified struct {
	userID    int64
	text      string
	preferred string
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notified
	err   error
}

func (n *fakeNotifier) Notify(_ context.Context, userID int64, text, preferred string) error {
	if n.err != nil {
		return n.err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notified{userID: userID, text: text, preferred: preferred})
	return nil
}
