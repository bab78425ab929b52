package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/d60-Lab/feed-service/config"
	"github.com/d60-Lab/feed-service/internal/consumer"
	"github.com/d60-Lab/feed-service/internal/metrics"
	"github.com/d60-Lab/feed-service/internal/mq"
	"github.com/d60-Lab/feed-service/internal/repository"
	"github.com/d60-Lab/feed-service/internal/service"
	"github.com/d60-Lab/feed-service/pkg/database"
	"github.com/d60-Lab/feed-service/pkg/logger"
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

func main() {
	cfg := must(config.Load())
	mustDo(logger.Init(cfg.Log.Level, cfg.Log.Dev))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := must(database.InitDB(cfg))
	broker := must(mq.Connect(cfg.NATS.URL))
	defer broker.Close()
	mustDo(broker.Init(ctx))

	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	notifier := service.NewNotifier(broker)
	subSvc := service.NewSubscriptionService(userRepo, subRepo)

	updateFeed := consumer.NewUpdateFeed(db, notifier)
	addFollowers := consumer.NewAddFollowers(userRepo, subSvc)

	go func() {
		if err := metrics.Serve(cfg.Metrics.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := broker.Consume(ctx, mq.StreamFeed, "update-feed", mq.SubjectUpdateFeed, updateFeed); err != nil {
			logger.Error("update feed consumer stopped", zap.Error(err))
			stop()
		}
	}()
	go func() {
		defer wg.Done()
		if err := broker.Consume(ctx, mq.StreamFeed, "add-followers", mq.SubjectAddFollowers, addFollowers); err != nil {
			logger.Error("add followers consumer stopped", zap.Error(err))
			stop()
		}
	}()

	logger.Info("consumers running")
	wg.Wait()
}
