package repository

import (
	"strings"

	"github.com/gaubong-next/internal/constants"
	"github.com/gaubong-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口（变更引擎视角为只读协作方）
type OrderRepository interface {
	List(filter OrderListFilter) ([]models.Order, int64, error)
	Create(order *models.Order) error
	UpdateStatus(orderID uint, status string) error
	// CountUnsettledBySKU 统计引用指定 SKU 的未结算订单数量。
	// 注意：该检查相对并发下单只有建议一致性，检查与提交之间仍可能产生新订单，
	// 这是有意接受的窄竞态窗口，不构成线性一致保证。
	CountUnsettledBySKU(skus []string) (int64, error)
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// List 订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Preload("Items")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if orderNo := strings.TrimSpace(filter.OrderNo); orderNo != "" {
		query = query.Where("order_no = ?", orderNo)
	}
	if sku := strings.TrimSpace(filter.SKU); sku != "" {
		query = query.Where("EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND oi.sku = ?)", sku)
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

	orders := make([]models.Order, 0)
	if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Create 创建订单
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// UpdateStatus 更新订单状态
func (r *GormOrderRepository) UpdateStatus(orderID uint, status string) error {
	return r.db.Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}

// CountUnsettledBySKU 统计引用指定 SKU 的未结算订单数量
func (r *GormOrderRepository) CountUnsettledBySKU(skus []string) (int64, error) {
	if len(skus) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("status IN ?", constants.UnsettledOrderStatuses).
		Where("EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND oi.sku IN ?)", skus).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
