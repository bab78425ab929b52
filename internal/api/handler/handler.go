package handler

import (
	"github.com/d60-Lab/feed-service/internal/mq"
	"github.com/d60-Lab/feed-service/internal/repository"
	"github.com/d60-Lab/feed-service/internal/service"
)

// Handler 聚合各 API 依赖
type Handler struct {
	users    repository.UserRepository
	tweetSvc *service.TweetService
	feedSvc  *service.FeedService
	subSvc   *service.SubscriptionService
	syncPub  service.Publisher
	asyncPub service.Publisher
	broker   mq.Broker
}

func New(
	users repository.UserRepository,
	tweetSvc *service.TweetService,
	feedSvc *service.FeedService,
	subSvc *service.SubscriptionService,
	syncPub, asyncPub service.Publisher,
	broker mq.Broker,
) *Handler {
	return &Handler{
		users:    users,
		tweetSvc: tweetSvc,
		feedSvc:  feedSvc,
		subSvc:   subSvc,
		syncPub:  syncPub,
		asyncPub: asyncPub,
		broker:   broker,
	}
}
