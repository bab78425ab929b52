package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/feed-service/internal/service"
	"github.com/d60-Lab/feed-service/pkg/response"
)

// GetFeed 查询粉丝时间线（最新在前）。source=tweets 时读时聚合，默认读物化 feed。
// @Summary 个人时间线
// @Tags 时间线
// @Param userId query int true "用户ID"
// @Param count query int false "条数" default(20)
// @Param source query string false "feed / tweets" default(feed)
// @Success 200 {object} map[string]interface{}
// @Success 204 "empty"
// @Failure 400 {object} response.Response
// @Router /api/v1/get-feed [get]
func (h *Handler) GetFeed(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil || userID <= 0 {
		response.BadRequest(c, "userId is required and must be a positive integer")
		return
	}
	count, _ := strconv.Atoi(c.DefaultQuery("count", "0"))
	var tweets []service.TweetDTO
	if c.Query("source") == "tweets" {
		tweets, err = h.feedSvc.GetFeedFromTweets(c.Request.Context(), userID, count)
	} else {
		tweets, err = h.feedSvc.GetFeed(c.Request.Context(), userID, count)
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if len(tweets) == 0 {
		response.NoContent(c)
		return
	}
	response.Success(c, gin.H{"tweets": tweets})
}
