package admin

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	handlershared "github.com/gaubong-next/internal/http/handlers/shared"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, resultCode, msg string, err error) {
	handlershared.RespondError(c, code, resultCode, msg, err)
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}
