package response

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Response 错误响应体
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Success 业务负载直接作为响应体
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent 空结果不是错误
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Code: http.StatusNotFound, Message: msg})
}

func InternalError(c *gin.Context, err error) {
	sentry.CaptureException(err)
	c.JSON(http.StatusInternalServerError, Response{Code: http.StatusInternalServerError, Message: err.Error()})
}

// BindError 绑定失败时展开 validator 的字段错误
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		BadRequest(c, verrs[0].Error())
		return
	}
	BadRequest(c, err.Error())
}
