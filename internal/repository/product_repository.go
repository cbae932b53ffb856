package repository

import (
	"errors"
	"strings"

	"github.com/gaubong-next/internal/constants"
	"github.com/gaubong-next/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	GetBySlug(slug string, publishedOnly bool) (*models.Product, error)
	Create(product *models.Product) error
	// UpdateWithVersion 以提交前版本号为写入过滤条件的条件更新。
	// 返回受影响行数：0 行意味着并发写者抢先或商品不存在，由调用方甄别。
	UpdateWithVersion(productID uint, baseVersion uint64, assignments map[string]interface{}) (int64, error)
	// CurrentVersion 重读当前版本号，用于条件写 0 行后的归因
	CurrentVersion(productID uint) (uint64, bool, error)
	CountBySlug(slug string, excludeID *uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{})
	if filter.WithVariants {
		query = query.Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order DESC, id ASC")
		})
	}
	if filter.PublishedOnly {
		query = query.Where("status = ?", constants.ProductStatusPublish)
	} else if !filter.IncludeTrash {
		query = query.Where("status != ?", constants.ProductStatusTrash)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ProductType != "" {
		query = query.Where("product_type = ?", filter.ProductType)
	}
	if filter.StockStatus != "" {
		query = query.Where("stock_status = ?", filter.StockStatus)
	}
	if filter.CategoryID != 0 {
		query = query.Where(categoryContainsExpr(r.db), filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name "+likeOperator(r.db)+" ? OR slug "+likeOperator(r.db)+" ? OR sku "+likeOperator(r.db)+" ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at DESC, id DESC").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID 根据 ID 获取商品（含变体，回收站商品可见）
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order DESC, id ASC")
		}).
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetBySlug 根据 slug 获取商品
func (r *GormProductRepository) GetBySlug(slug string, publishedOnly bool) (*models.Product, error) {
	query := r.db.Where("slug = ?", slug).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order DESC, id ASC")
		})
	if publishedOnly {
		query = query.Where("status = ?", constants.ProductStatusPublish)
	}

	var product models.Product
	if err := query.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// UpdateWithVersion 条件更新：WHERE id = ? AND version = ?
func (r *GormProductRepository) UpdateWithVersion(productID uint, baseVersion uint64, assignments map[string]interface{}) (int64, error) {
	if productID == 0 {
		return 0, errors.New("invalid product id")
	}
	if len(assignments) == 0 {
		return 0, errors.New("empty assignments")
	}
	merged := make(map[string]interface{}, len(assignments)+1)
	for column, value := range assignments {
		merged[column] = value
	}
	// 版本号在同一条条件写里自增，关闭检查与写入之间的窗口
	merged["version"] = gorm.Expr("version + ?", 1)

	result := r.db.Model(&models.Product{}).
		Where("id = ? AND version = ?", productID, baseVersion).
		Updates(merged)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CurrentVersion 重读当前版本号
func (r *GormProductRepository) CurrentVersion(productID uint) (uint64, bool, error) {
	var product models.Product
	if err := r.db.Select("id", "version").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return product.Version, true, nil
}

// CountBySlug 统计 slug 数量（忽略回收站商品）
func (r *GormProductRepository) CountBySlug(slug string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Product{}).
		Where("slug = ?", slug).
		Where("status != ?", constants.ProductStatusTrash)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
