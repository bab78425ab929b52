package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"math/rand"

	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/feed-service/internal/model"
	"github.com/d60-Lab/feed-service/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// SubscriptionService 订阅关系服务
type SubscriptionService struct {
	users repository.UserRepository
	subs  repository.SubscriptionRepository
}

func NewSubscriptionService(users repository.UserRepository, subs repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{users: users, subs: subs}
}

// Subscribe 建立 author -> follower 订阅边，重复订阅幂等
func (s *SubscriptionService) Subscribe(ctx context.Context, authorID, followerID int64) error {
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return err
	}
	if author == nil {
		return fmt.Errorf("author %d: %w", authorID, ErrUserNotFound)
	}
	follower, err := s.users.FindByID(ctx, followerID)
	if err != nil {
		return err
	}
	if follower == nil {
		return fmt.Errorf("follower %d: %w", followerID, ErrUserNotFound)
	}
	return s.subs.Create(ctx, authorID, followerID)
}

// AddFollowers 批量造粉：创建 count 个粉丝账号并订阅到 author，返回创建数。
// 登录名已存在时复用该账号，整个批次可安全重放。
func (s *SubscriptionService) AddFollowers(ctx context.Context, author *model.User, prefix string, count int) (int, error) {
	created := 0
	for i := 0; i < count; i++ {
		login := fmt.Sprintf("%s #%d", prefix, i)
		follower, err := s.users.FindByLogin(ctx, login)
		if err != nil {
			return created, err
		}
		if follower == nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(prefix), bcrypt.MinCost)
			if err != nil {
				return created, err
			}
			preferred := model.ChannelEmail
			if rand.Intn(2) == 1 {
				preferred = model.ChannelSMS
			}
			follower = &model.User{
				Login:     login,
				Password:  string(hash),
				Age:       i,
				IsActive:  true,
				Phone:     fmt.Sprintf("+%010d", crc32.ChecksumIEEE([]byte(login))),
				Email:     fmt.Sprintf("%s@example.com", login),
				Preferred: preferred,
			}
			if err := s.users.Create(ctx, follower); err != nil {
				return created, err
			}
		}
		if err := s.subs.Create(ctx, author.ID, follower.ID); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// FollowerIDs 作者不存在时返回空集（与空粉丝集等价）
func (s *SubscriptionService) FollowerIDs(ctx context.Context, authorID int64) ([]int64, error) {
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, nil
	}
	return s.subs.FollowerIDs(ctx, authorID)
}

// FollowerMessages 构造逐粉丝的造粉消息体（不发布）
func (s *SubscriptionService) FollowerMessages(authorID int64, prefix string, count int) ([][]byte, error) {
	res := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		msg := AddFollowersMessage{UserID: authorID, FollowerLogin: fmt.Sprintf("%s #%d", prefix, i), Count: 1}
		data, err := json.Marshal(msg)
		if err != nil {
			return nil, err
		}
		res = append(res, data)
	}
	return res, nil
}
