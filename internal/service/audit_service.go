package service

import (
	"github.com/gaubong-next/internal/models"
	"github.com/gaubong-next/internal/repository"
)

// AuditService 商品审计日志检索
type AuditService struct {
	auditRepo repository.ProductAuditLogRepository
}

// NewAuditService 创建审计服务
func NewAuditService(auditRepo repository.ProductAuditLogRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// List 审计日志列表
func (s *AuditService) List(filter repository.AuditLogListFilter) ([]models.ProductAuditLog, int64, error) {
	return s.auditRepo.ListAdmin(filter)
}

// ListByProduct 指定商品的审计日志
func (s *AuditService) ListByProduct(productID uint, page, pageSize int) ([]models.ProductAuditLog, int64, error) {
	return s.auditRepo.ListAdmin(repository.AuditLogListFilter{
		ProductID: productID,
		Page:      page,
		PageSize:  pageSize,
	})
}
