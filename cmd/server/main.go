package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/feed-service/config"
	"github.com/d60-Lab/feed-service/internal/api"
	"github.com/d60-Lab/feed-service/internal/api/handler"
	"github.com/d60-Lab/feed-service/internal/cache"
	"github.com/d60-Lab/feed-service/internal/mq"
	"github.com/d60-Lab/feed-service/internal/repository"
	"github.com/d60-Lab/feed-service/internal/service"
	"github.com/d60-Lab/feed-service/pkg/database"
	"github.com/d60-Lab/feed-service/pkg/logger"
	"github.com/d60-Lab/feed-service/pkg/tracing"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}

// @title Feed Service API
// @version 1.0
// @description Social feed backend: publish, fan-out, timelines.
func main() {
	cfg := must(config.Load())
	mustDo(logger.Init(cfg.Log.Level, cfg.Log.Dev))
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		mustDo(sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}))
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown := must(tracing.Init(ctx, "feed-service", cfg.Tracing.Endpoint))
		defer func() { _ = shutdown(context.Background()) }()
	}

	db := must(database.InitDB(cfg))
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer rdb.Close()

	broker := must(mq.Connect(cfg.NATS.URL))
	defer broker.Close()
	mustDo(broker.Init(ctx))

	tagCache := cache.NewTagCache(rdb, cfg.Cache.TTL)

	userRepo := repository.NewUserRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	feedRepo := repository.NewFeedRepository(db)

	notifier := service.NewNotifier(broker)
	subSvc := service.NewSubscriptionService(userRepo, subRepo)
	tweetSvc := service.NewTweetService(tweetRepo, tagCache)
	feedSvc := service.NewFeedService(feedRepo, subRepo, tweetRepo, tagCache)
	syncPub := service.NewSyncPublisher(db, userRepo, subRepo, notifier, tagCache)
	asyncPub := service.NewAsyncPublisher(userRepo, tweetRepo, subRepo, broker, tagCache)

	h := handler.New(userRepo, tweetSvc, feedSvc, subSvc, syncPub, asyncPub, broker)
	router := api.NewRouter(cfg, h)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
