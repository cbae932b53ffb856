package shared

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gaubong-next/internal/http/response"
)

// AdminID 从上下文读取已认证的管理员 ID
func AdminID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("admin_id")
	if !exists {
		RespondError(c, response.CodeUnauthorized, response.ResultUnauthorized, "未登录或登录已过期", nil)
		return 0, false
	}
	id, ok := value.(uint)
	if !ok {
		RespondError(c, response.CodeInternal, response.ResultInternal, "上下文身份类型异常", nil)
		return 0, false
	}
	return id, true
}

// AdminUsername 从上下文读取已认证的管理员账号
func AdminUsername(c *gin.Context) string {
	if value, ok := c.Get("admin_username"); ok {
		if username, ok := value.(string); ok {
			return username
		}
	}
	return ""
}

// RequestID 从上下文读取请求 ID
func RequestID(c *gin.Context) string {
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}

// ParamUint 解析路径参数为 uint
func ParamUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		RespondError(c, response.CodeBadRequest, response.ResultBadRequest, "无效的 "+name, err)
		return 0, false
	}
	return uint(value), true
}

// QueryInt 解析查询参数为 int，缺省时返回默认值
func QueryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
