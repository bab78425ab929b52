package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/feed-service/config"
	_ "github.com/d60-Lab/feed-service/docs"
	"github.com/d60-Lab/feed-service/internal/api/handler"
	"github.com/d60-Lab/feed-service/internal/api/middleware"
)

// NewRouter 组装路由与中间件
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(middleware.RequestID())
	r.Use(middleware.RateLimit(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(otelgin.Middleware("feed-service"))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/tweet", h.SaveTweet)
		v1.GET("/tweet", h.GetTweets)
		v1.GET("/get-feed", h.GetFeed)
		v1.POST("/add-followers", h.AddFollowers)
		v1.POST("/subscribe", h.Subscribe)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}
