package admin

import (
	"errors"

	"github.com/gin-gonic/gin"

	handlershared "github.com/gaubong-next/internal/http/handlers/shared"
	"github.com/gaubong-next/internal/http/response"
	"github.com/gaubong-next/internal/service"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 管理员登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, response.ResultBadRequest, "请求参数错误", err)
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, response.CodeUnauthorized, response.ResultUnauthorized, "用户名或密码错误", nil)
			return
		}
		respondError(c, response.CodeInternal, response.ResultInternal, "登录失败", err)
		return
	}

	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"admin": gin.H{
			"id":       admin.ID,
			"username": admin.Username,
		},
	})
}

// Me 当前登录管理员信息
func (h *Handler) Me(c *gin.Context) {
	adminID, ok := handlershared.AdminID(c)
	if !ok {
		return
	}
	admin, err := h.AuthService.GetAdmin(adminID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeUnauthorized, response.ResultUnauthorized, "账号不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, response.ResultInternal, "获取账号信息失败", err)
		return
	}
	response.Success(c, admin)
}
