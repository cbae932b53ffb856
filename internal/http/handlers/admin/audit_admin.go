package admin

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gaubong-next/internal/http/response"
	"github.com/gaubong-next/internal/repository"
)

// GetAuditLogs 审计日志列表 (Admin)
func (h *Handler) GetAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.AuditLogListFilter{
		Page:      page,
		PageSize:  pageSize,
		Action:    c.Query("action"),
		RequestID: c.Query("request_id"),
	}
	if raw := c.Query("product_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.ProductID = uint(id)
		}
	}
	if raw := c.Query("operator_admin_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.OperatorAdminID = uint(id)
		}
	}
	if raw := c.Query("created_from"); raw != "" {
		if from, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.CreatedFrom = &from
		}
	}
	if raw := c.Query("created_to"); raw != "" {
		if to, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.CreatedTo = &to
		}
	}

	logs, total, err := h.AuditService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, response.ResultInternal, "获取审计日志失败", err)
		return
	}
	response.SuccessWithPage(c, logs, response.NewPagination(page, pageSize, total))
}
