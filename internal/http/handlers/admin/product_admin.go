package admin

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	handlershared "github.com/gaubong-next/internal/http/handlers/shared"
	"github.com/gaubong-next/internal/http/response"
	"github.com/gaubong-next/internal/repository"
	"github.com/gaubong-next/internal/service"
)

// actorFromContext 从请求上下文提取操作者与来源信息
func actorFromContext(c *gin.Context) (service.UpdateActor, service.RequestProvenance, bool) {
	adminID, ok := handlershared.AdminID(c)
	if !ok {
		return service.UpdateActor{}, service.RequestProvenance{}, false
	}
	actor := service.UpdateActor{
		AdminID:  adminID,
		Username: handlershared.AdminUsername(c),
	}
	prov := service.RequestProvenance{
		RequestID: handlershared.RequestID(c),
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	return actor, prov, true
}

// GetProducts 商品列表 (Admin)
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		Search:       c.Query("search"),
		ProductType:  c.Query("product_type"),
		Status:       c.Query("status"),
		StockStatus:  c.Query("stock_status"),
		IncludeTrash: c.Query("include_trash") == "true",
		WithVariants: c.Query("with_variants") == "true",
	}
	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.CategoryID = uint(id)
		}
	}

	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, response.ResultInternal, "获取商品列表失败", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 商品详情 (Admin)
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, response.ResultNotFound, "商品不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, response.ResultInternal, "获取商品失败", err)
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品 (Admin)
func (h *Handler) CreateProduct(c *gin.Context) {
	actor, prov, ok := actorFromContext(c)
	if !ok {
		return
	}
	var input service.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, response.ResultBadRequest, "请求参数错误", err)
		return
	}
	product, err := h.ProductService.Create(&input, actor, prov)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct 商品部分更新 (Admin)
// 冲突类结果均携带可供调用方重试决策的上下文。
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	actor, prov, ok := actorFromContext(c)
	if !ok {
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		respondError(c, response.CodeBadRequest, response.ResultBadRequest, "请求参数错误", err)
		return
	}
	input, err := service.DecodeUpdateProductInput(raw)
	if err != nil {
		respondError(c, response.CodeBadRequest, response.ResultBadRequest, "请求参数错误", err)
		return
	}

	product, err := h.ProductUpdateService.Update(id, input, actor, prov)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	response.Success(c, gin.H{
		"product": product,
		"version": product.Version,
	})
}

// TrashProduct 商品移入回收站 (Admin)
func (h *Handler) TrashProduct(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	actor, prov, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.ProductService.Trash(id, actor, prov); err != nil {
		h.respondEngineError(c, err)
		return
	}
	response.Success(c, nil)
}

// RestoreProduct 商品从回收站恢复 (Admin)
func (h *Handler) RestoreProduct(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	actor, prov, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.ProductService.Restore(id, actor, prov); err != nil {
		h.respondEngineError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetProductAuditLogs 指定商品的审计日志 (Admin)
func (h *Handler) GetProductAuditLogs(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	logs, total, err := h.AuditService.ListByProduct(id, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, response.ResultInternal, "获取审计日志失败", err)
		return
	}
	response.SuccessWithPage(c, logs, response.NewPagination(page, pageSize, total))
}

// respondEngineError 更新引擎错误到结果码的统一映射
func (h *Handler) respondEngineError(c *gin.Context, err error) {
	var (
		ve       *service.ValidationError
		conflict *service.VersionConflictError
		locked   *service.SKULockedError
		refErr   *service.ReferenceError
	)
	switch {
	case errors.As(err, &ve):
		response.ErrorWithData(c, response.CodeValidation, response.ResultValidationError,
			"字段校验失败", gin.H{"fields": ve.Fields})
	case errors.As(err, &conflict):
		response.ErrorWithData(c, response.CodeConflict, response.ResultVersionMismatch,
			"版本已过期，请刷新后重试", gin.H{
				"provided_version": conflict.Provided,
				"current_version":  conflict.Current,
			})
	case errors.Is(err, service.ErrVersionRangeInvalid):
		response.Error(c, response.CodeConflict, response.ResultVersionRangeInvalid,
			"版本号异常，已拒绝本次更新")
	case errors.As(err, &locked):
		response.ErrorWithData(c, response.CodeConflict, response.ResultSKULocked,
			"存在未结算订单引用该 SKU，无法修改", gin.H{
				"sku":             locked.SKU,
				"blocking_orders": locked.BlockingOrders,
			})
	case errors.As(err, &refErr):
		response.ErrorWithData(c, response.CodeBadRequest, response.ResultReferenceInvalid,
			"存在无效的关联引用", gin.H{
				"field":       refErr.Field,
				"invalid_ids": refErr.InvalidIDs,
			})
	case errors.Is(err, service.ErrSKUExists):
		response.Error(c, response.CodeConflict, response.ResultDuplicateSKU, "SKU 已存在")
	case errors.Is(err, service.ErrSlugExists):
		response.Error(c, response.CodeConflict, response.ResultDuplicateSlug, "slug 已存在")
	case errors.Is(err, service.ErrProductTrashed):
		respondError(c, response.CodeConflict, response.ResultProductTrashed, "商品已在回收站中", nil)
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, response.ResultNotFound, "商品不存在", nil)
	default:
		respondError(c, response.CodeInternal, response.ResultInternal, "操作失败", err)
	}
}
