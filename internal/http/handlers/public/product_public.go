package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	handlershared "github.com/gaubong-next/internal/http/handlers/shared"
	"github.com/gaubong-next/internal/http/response"
	"github.com/gaubong-next/internal/repository"
	"github.com/gaubong-next/internal/service"
)

// GetProducts 商品列表（仅已发布）
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:          page,
		PageSize:      pageSize,
		Search:        c.Query("search"),
		ProductType:   c.Query("product_type"),
		PublishedOnly: true,
	}
	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.CategoryID = uint(id)
		}
	}

	products, total, err := h.ProductService.List(filter)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, response.ResultInternal, "获取商品列表失败", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 商品详情（slug，走快照缓存）
func (h *Handler) GetProduct(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		handlershared.RespondError(c, response.CodeBadRequest, response.ResultBadRequest, "无效的 slug", nil)
		return
	}

	if cached := h.SnapshotStore.Get(slug); cached != nil {
		response.Success(c, cached)
		return
	}

	product, err := h.ProductService.GetBySlug(slug, true)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			handlershared.RespondError(c, response.CodeNotFound, response.ResultNotFound, "商品不存在", nil)
			return
		}
		handlershared.RespondError(c, response.CodeInternal, response.ResultInternal, "获取商品失败", err)
		return
	}

	h.SnapshotStore.Set(product)
	response.Success(c, product)
}
