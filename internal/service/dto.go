package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/d60-Lab/feed-service/internal/model"
)

// CacheTagTweets 推文相关缓存统一打在这个 tag 下，发布时整体失效
const CacheTagTweets = "tweets"

// TweetDTO 对外字段白名单
type TweetDTO struct {
	ID        int64  `json:"id"`
	AuthorID  int64  `json:"authorId"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

func NewTweetDTO(t *model.Tweet) TweetDTO {
	return TweetDTO{
		ID:        t.ID,
		AuthorID:  t.AuthorID,
		Text:      t.Text,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

func NewTweetDTOs(tweets []*model.Tweet) []TweetDTO {
	return lo.Map(tweets, func(t *model.Tweet, _ int) TweetDTO { return NewTweetDTO(t) })
}

// FanoutMessage 每个粉丝一条的投递单元（feed.update）
type FanoutMessage struct {
	TweetID    int64  `json:"tweetId"`
	AuthorID   int64  `json:"authorId"`
	FollowerID int64  `json:"followerId"`
	Text       string `json:"text"`
	Preferred  string `json:"preferred"`
}

// MsgID 去重键：同一 (tweet, follower) 的重投在去重窗口内被吞掉
func (m FanoutMessage) MsgID() string {
	return fmt.Sprintf("fanout:%d:%d", m.TweetID, m.FollowerID)
}

func (m FanoutMessage) Validate() error {
	if m.TweetID <= 0 || m.AuthorID <= 0 || m.FollowerID <= 0 {
		return errors.New("fanout message: missing ids")
	}
	if m.Text == "" {
		return errors.New("fanout message: empty text")
	}
	if m.Preferred != model.ChannelEmail && m.Preferred != model.ChannelSMS {
		return fmt.Errorf("fanout message: unknown channel %q", m.Preferred)
	}
	return nil
}

// AddFollowersMessage 异步造粉请求（feed.followers）
type AddFollowersMessage struct {
	UserID        int64  `json:"userId"`
	FollowerLogin string `json:"followerLogin"`
	Count         int    `json:"count"`
}

func (m AddFollowersMessage) Validate() error {
	if m.UserID <= 0 {
		return errors.New("add followers message: missing userId")
	}
	if m.FollowerLogin == "" {
		return errors.New("add followers message: empty followerLogin")
	}
	if m.Count < 0 {
		return errors.New("add followers message: negative count")
	}
	return nil
}

// NotificationMessage 下游通知负载（notification.<channel>）
type NotificationMessage struct {
	UserID int64  `json:"userId"`
	Text   string `json:"text"`
}
