package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	handlershared "github.com/gaubong-next/internal/http/handlers/shared"
	"github.com/gaubong-next/internal/http/response"
	"github.com/gaubong-next/internal/repository"
	"github.com/gaubong-next/internal/service"
)

// GetOrders 订单列表 (Admin)
func (h *Handler) GetOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		OrderNo:  c.Query("order_no"),
		SKU:      c.Query("sku"),
	}
	orders, total, err := h.OrderService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, response.ResultInternal, "获取订单列表失败", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// UpdateOrderStatusRequest 订单状态更新请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 订单状态流转 (Admin)
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, response.ResultBadRequest, "请求参数错误", err)
		return
	}
	if err := h.OrderService.UpdateStatus(id, req.Status); err != nil {
		h.respondEngineError(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateOrder 运营侧创建订单 (Admin)
func (h *Handler) CreateOrder(c *gin.Context) {
	var input service.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, response.ResultBadRequest, "请求参数错误", err)
		return
	}
	if input.ClientIP == "" {
		input.ClientIP = c.ClientIP()
	}
	order, err := h.OrderService.Create(&input)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	response.Success(c, order)
}
