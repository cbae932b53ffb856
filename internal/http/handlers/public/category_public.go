package public

import (
	"github.com/gin-gonic/gin"

	handlershared "github.com/gaubong-next/internal/http/handlers/shared"
	"github.com/gaubong-next/internal/http/response"
)

// GetCategories 分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, response.ResultInternal, "获取分类列表失败", err)
		return
	}
	response.Success(c, categories)
}
