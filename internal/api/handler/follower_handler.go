package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/feed-service/internal/mq"
	"github.com/d60-Lab/feed-service/internal/service"
	"github.com/d60-Lab/feed-service/pkg/response"
)

type addFollowersRequest struct {
	UserID         int64  `json:"userId" binding:"required"`
	FollowersLogin string `json:"followersLogin" binding:"required"`
	Count          int    `json:"count" binding:"required,min=1"`
	Async          int    `json:"async" binding:"oneof=0 1"`
}

// AddFollowers 给作者批量造粉，同步执行或转入队列
// @Summary 批量添加粉丝
// @Tags 订阅
// @Accept json
// @Produce json
// @Param request body addFollowersRequest true "造粉请求"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/add-followers [post]
func (h *Handler) AddFollowers(c *gin.Context) {
	var req addFollowersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	user, err := h.users.FindByID(c.Request.Context(), req.UserID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false})
		return
	}

	if req.Async == 0 {
		created, err := h.subSvc.AddFollowers(c.Request.Context(), user, req.FollowersLogin, req.Count)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		response.Success(c, gin.H{"created": created})
		return
	}

	msg := service.AddFollowersMessage{UserID: req.UserID, FollowerLogin: req.FollowersLogin, Count: req.Count}
	data, err := json.Marshal(msg)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if err := h.broker.Publish(c.Request.Context(), mq.SubjectAddFollowers, "", data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}
	response.Success(c, gin.H{"success": true})
}

type subscribeRequest struct {
	AuthorID   int64 `json:"authorId" binding:"required"`
	FollowerID int64 `json:"followerId" binding:"required"`
}

// Subscribe 建立订阅关系
// @Summary 订阅作者
// @Tags 订阅
// @Accept json
// @Produce json
// @Param request body subscribeRequest true "订阅信息"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.Response
// @Router /api/v1/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := h.subSvc.Subscribe(c.Request.Context(), req.AuthorID, req.FollowerID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"success": true})
}
