package models

import (
	"time"
)

// Product 商品表（可变聚合根）
// Version 是乐观并发令牌：每次成功提交 +1，由条件写保证单版本内最多一个写者。
// Price/MinPrice/MaxPrice/SKUNormalized/TotalStock/VolumetricWeight 均为派生
// 投影，只能由变更引擎重算，禁止调用方直接设置。
type Product struct {
	ID      uint   `gorm:"primarykey" json:"id"`                  // 主键，创建后不可变
	Version uint64 `gorm:"not null;default:0" json:"version"`     // 乐观并发版本号
	Name    string `gorm:"type:varchar(255);not null" json:"name"` // 商品名称
	Slug    string `gorm:"uniqueIndex;not null" json:"slug"`      // 唯一标识

	ProductType string `gorm:"type:varchar(20);not null;default:'simple';index" json:"product_type"` // simple/variable/grouped/external
	Status      string `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`        // draft/publish/trash

	// SKU 为空字符串时 SKUNormalized 必须为 NULL（稀疏唯一约束依赖列缺失而非空值）
	SKU           string  `gorm:"type:varchar(128)" json:"sku"`
	SKUNormalized *string `gorm:"type:varchar(128);uniqueIndex" json:"sku_normalized,omitempty"`
	Barcode       string  `gorm:"type:varchar(64)" json:"barcode,omitempty"`
	GTIN          string  `gorm:"type:varchar(64)" json:"gtin,omitempty"`
	EAN           string  `gorm:"type:varchar(64)" json:"ean,omitempty"`

	RegularPrice Money  `gorm:"type:decimal(20,2);not null;default:0" json:"regular_price"` // 原价
	SalePrice    *Money `gorm:"type:decimal(20,2)" json:"sale_price,omitempty"`             // 促销价（必须低于原价）
	Price        Money  `gorm:"type:decimal(20,2);not null;default:0" json:"price"`         // 生效价镜像（派生）
	MinPrice     *Money `gorm:"type:decimal(20,2)" json:"min_price,omitempty"`              // 价格下界（派生，NULL 表示无价）
	MaxPrice     *Money `gorm:"type:decimal(20,2)" json:"max_price,omitempty"`              // 价格上界（派生）
	CostPrice    *Money `gorm:"type:decimal(20,2)" json:"cost_price,omitempty"`             // 成本价

	ManageStock       bool   `gorm:"not null;default:false" json:"manage_stock"`                          // 是否管理库存
	StockQuantity     int    `gorm:"not null;default:0" json:"stock_quantity"`                            // 库存数量
	StockStatus       string `gorm:"type:varchar(20);not null;default:'instock';index" json:"stock_status"` // instock/outofstock/onbackorder
	Backorders        string `gorm:"type:varchar(10);not null;default:'no'" json:"backorders"`            // no/notify/yes
	TotalStock        int    `gorm:"not null;default:0" json:"total_stock"`                               // 变体库存合计（派生）
	LowStockThreshold *int   `gorm:"" json:"low_stock_threshold,omitempty"`                               // 低库存告警阈值
	SoldIndividually  bool   `gorm:"not null;default:false" json:"sold_individually"`                     // 限购单件

	Weight           *Money `gorm:"type:decimal(20,2)" json:"weight,omitempty"`            // 重量(kg)
	Length           *Money `gorm:"type:decimal(20,2)" json:"length,omitempty"`            // 长(cm)
	Width            *Money `gorm:"type:decimal(20,2)" json:"width,omitempty"`             // 宽(cm)
	Height           *Money `gorm:"type:decimal(20,2)" json:"height,omitempty"`            // 高(cm)
	VolumetricWeight *Money `gorm:"type:decimal(20,2)" json:"volumetric_weight,omitempty"` // 体积重(kg，派生)

	CategoryIDs    UintArray     `gorm:"type:json" json:"category_ids"`           // 引用的分类 ID 列表
	Tags           StringArray   `gorm:"type:json" json:"tags"`                   // 标签
	Images         StringArray   `gorm:"type:json" json:"images"`                 // 图片引用
	AttributesJSON AttributeList `gorm:"column:attributes;type:json" json:"attributes"` // 属性定义
	MetaJSON       JSON          `gorm:"column:meta;type:json" json:"meta"`       // 元数据盒（按品类扩展字段）

	Description      string `gorm:"type:text" json:"description"`                    // 描述（入库前剥离 HTML）
	ShortDescription string `gorm:"type:text" json:"short_description"`              // 摘要描述
	SeoTitle         string `gorm:"type:varchar(255)" json:"seo_title,omitempty"`    // SEO 标题
	SeoDescription   string `gorm:"type:varchar(500)" json:"seo_description,omitempty"` // SEO 描述

	Visibility    string `gorm:"type:varchar(20);not null;default:'public'" json:"visibility"` // public/private/password
	Password      string `gorm:"type:varchar(255)" json:"-"`                                   // 仅 visibility=password 时有效
	ShippingClass string `gorm:"type:varchar(64)" json:"shipping_class,omitempty"`             // 运费类别
	TaxStatus     string `gorm:"type:varchar(20);not null;default:'taxable'" json:"tax_status"` // taxable/shipping/none
	TaxClass      string `gorm:"type:varchar(64)" json:"tax_class,omitempty"`                  // 税率类别

	CreatedAt time.Time  `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt time.Time  `json:"updated_at"`              // 更新时间
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"` // 软删除标记（status=trash 时设置，可恢复）

	// 关联
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"` // 变体列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// IsTrashed 判断商品是否处于回收站
func (p *Product) IsTrashed() bool {
	return p != nil && p.DeletedAt != nil
}

// VariantByID 按变体 ID 查找归属于本商品的变体
func (p *Product) VariantByID(id uint) *ProductVariant {
	if p == nil {
		return nil
	}
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// EffectivePrice 返回生效价：促销价优先于原价
func (p *Product) EffectivePrice() Money {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.RegularPrice
}
