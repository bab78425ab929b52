package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/feed-service/internal/service"
	"github.com/d60-Lab/feed-service/pkg/response"
)

type saveTweetRequest struct {
	AuthorID int64  `json:"authorId" binding:"required"`
	Text     string `json:"text" binding:"required"`
	Async    int    `json:"async" binding:"oneof=0 1"`
}

// SaveTweet 发布推文并向粉丝扇出
// @Summary 发布推文
// @Tags 推文
// @Accept json
// @Produce json
// @Param request body saveTweetRequest true "推文内容"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/v1/tweet [post]
func (h *Handler) SaveTweet(c *gin.Context) {
	var req saveTweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	pub := h.syncPub
	if req.Async == 1 {
		pub = h.asyncPub
	}
	tweetID, err := pub.Publish(c.Request.Context(), req.AuthorID, req.Text)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, service.ErrUserNotFound) {
			code = http.StatusBadRequest
		}
		c.JSON(code, gin.H{"success": false})
		return
	}
	response.Success(c, gin.H{"success": true, "tweet": tweetID})
}

// GetTweets 全量推文分页列表
// @Summary 推文列表
// @Tags 推文
// @Param page query int false "页码" default(0)
// @Param perPage query int false "每页数量" default(20)
// @Success 200 {object} map[string]interface{}
// @Success 204 "empty"
// @Router /api/v1/tweet [get]
func (h *Handler) GetTweets(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("perPage", "20"))
	tweets, err := h.tweetSvc.GetTweets(c.Request.Context(), page, perPage)
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
