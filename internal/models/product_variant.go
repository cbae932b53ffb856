package models

import (
	"time"
)

// ProductVariant 商品变体表（variable 商品的具体可售配置）
// 变体不持有独立的库存状态，库存状态始终是父商品级属性。
type ProductVariant struct {
	ID            uint    `gorm:"primarykey" json:"id"`                                   // 主键（归属于父商品）
	ProductID     uint    `gorm:"not null;index" json:"product_id"`                       // 父商品 ID
	SKU           string  `gorm:"type:varchar(128)" json:"sku"`                           // 变体 SKU
	SKUNormalized *string `gorm:"type:varchar(128);uniqueIndex" json:"sku_normalized,omitempty"` // 规范化 SKU（稀疏唯一）
	Price         Money   `gorm:"type:decimal(20,2);not null;default:0" json:"price"`     // 变体价格
	Stock         int     `gorm:"not null;default:0" json:"stock"`                        // 变体库存
	SpecValues    JSON    `gorm:"column:spec_values;type:json" json:"spec_values"`        // 规格值（属性名→取值）
	SortOrder     int     `gorm:"default:0;index" json:"sort_order"`                      // 排序权重

	CreatedAt time.Time `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt time.Time `json:"updated_at"`              // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
