package shared

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gaubong-next/internal/http/response"
	"github.com/gaubong-next/internal/logger"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, resultCode, msg string, err error) {
	appErr := response.WrapError(code, resultCode, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"result", appErr.Result,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Result, appErr.Message)
}

// RespondErrorWithData 返回携带上下文数据的错误响应。
func RespondErrorWithData(c *gin.Context, code int, resultCode, msg string, data interface{}) {
	response.ErrorWithData(c, code, resultCode, msg, data)
}
