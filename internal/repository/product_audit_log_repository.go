package repository

import (
	"github.com/gaubong-next/internal/models"

	"gorm.io/gorm"
)

// ProductAuditLogRepository 商品审计日志数据访问接口
type ProductAuditLogRepository interface {
	Create(log *models.ProductAuditLog) error
	ListAdmin(filter AuditLogListFilter) ([]models.ProductAuditLog, int64, error)
	WithTx(tx *gorm.DB) ProductAuditLogRepository
}

// GormProductAuditLogRepository GORM 实现
type GormProductAuditLogRepository struct {
	db *gorm.DB
}

// NewProductAuditLogRepository 创建商品审计日志仓库
func NewProductAuditLogRepository(db *gorm.DB) *GormProductAuditLogRepository {
	return &GormProductAuditLogRepository{db: db}
}

// WithTx 绑定事务（审计写入与商品条件写同事务）
func (r *GormProductAuditLogRepository) WithTx(tx *gorm.DB) ProductAuditLogRepository {
	if tx == nil {
		return r
	}
	return &GormProductAuditLogRepository{db: tx}
}

// Create 追加审计日志
func (r *GormProductAuditLogRepository) Create(log *models.ProductAuditLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// ListAdmin 管理端查询审计日志
func (r *GormProductAuditLogRepository) ListAdmin(filter AuditLogListFilter) ([]models.ProductAuditLog, int64, error) {
	query := r.db.Model(&models.ProductAuditLog{})
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.OperatorAdminID != 0 {
		query = query.Where("operator_admin_id = ?", filter.OperatorAdminID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.RequestID != "" {
		query = query.Where("request_id = ?", filter.RequestID)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	logs := make([]models.ProductAuditLog, 0)
	if err := query.Order("id DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
