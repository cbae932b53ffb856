package admin

import (
	"errors"

	"github.com/gin-gonic/gin"

	handlershared "github.com/gaubong-next/internal/http/handlers/shared"
	"github.com/gaubong-next/internal/http/response"
	"github.com/gaubong-next/internal/service"
)

// GetCategories 分类列表 (Admin)
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, response.ResultInternal, "获取分类列表失败", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类 (Admin)
func (h *Handler) CreateCategory(c *gin.Context) {
	var input service.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, response.ResultBadRequest, "请求参数错误", err)
		return
	}
	category, err := h.CategoryService.Create(&input)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类 (Admin)
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	var input service.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, response.ResultBadRequest, "请求参数错误", err)
		return
	}
	category, err := h.CategoryService.Update(id, &input)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, response.ResultNotFound, "分类不存在", nil)
			return
		}
		h.respondEngineError(c, err)
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类 (Admin)
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, response.ResultNotFound, "分类不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, response.ResultInternal, "删除分类失败", err)
		return
	}
	response.Success(c, nil)
}
