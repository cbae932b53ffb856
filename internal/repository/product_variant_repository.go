package repository

import (
	"errors"

	"github.com/gaubong-next/internal/models"

	"gorm.io/gorm"
)

// ProductVariantRepository 商品变体数据访问接口
type ProductVariantRepository interface {
	ListByProduct(productID uint) ([]models.ProductVariant, error)
	Create(variant *models.ProductVariant) error
	// UpdateFields 按列更新单个变体
	UpdateFields(variantID uint, assignments map[string]interface{}) error
	// DeleteByProduct 删除商品下全部变体（类型迁出 variable 时的幽灵数据清理）
	DeleteByProduct(productID uint) error
	WithTx(tx *gorm.DB) ProductVariantRepository
}

// GormProductVariantRepository GORM 实现
type GormProductVariantRepository struct {
	db *gorm.DB
}

// NewProductVariantRepository 创建商品变体仓库
func NewProductVariantRepository(db *gorm.DB) *GormProductVariantRepository {
	return &GormProductVariantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductVariantRepository) WithTx(tx *gorm.DB) ProductVariantRepository {
	if tx == nil {
		return r
	}
	return &GormProductVariantRepository{db: tx}
}

// ListByProduct 获取商品全部变体
func (r *GormProductVariantRepository) ListByProduct(productID uint) ([]models.ProductVariant, error) {
	variants := make([]models.ProductVariant, 0)
	if err := r.db.Where("product_id = ?", productID).
		Order("sort_order DESC, id ASC").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// Create 创建变体
func (r *GormProductVariantRepository) Create(variant *models.ProductVariant) error {
	return r.db.Create(variant).Error
}

// UpdateFields 按列更新单个变体
func (r *GormProductVariantRepository) UpdateFields(variantID uint, assignments map[string]interface{}) error {
	if variantID == 0 {
		return errors.New("invalid variant id")
	}
	if len(assignments) == 0 {
		return nil
	}
	return r.db.Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		Updates(assignments).Error
}

// DeleteByProduct 删除商品下全部变体
func (r *GormProductVariantRepository) DeleteByProduct(productID uint) error {
	if productID == 0 {
		return errors.New("invalid product id")
	}
	return r.db.Where("product_id = ?", productID).Delete(&models.ProductVariant{}).Error
}
