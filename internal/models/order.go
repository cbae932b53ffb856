package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表（变更引擎只读：SKU 变更保护检查未结算订单）
type Order struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo     string         `gorm:"uniqueIndex;not null" json:"order_no"`                      // 订单编号
	Status      string         `gorm:"index;not null" json:"status"`                              // 订单状态
	Currency    string         `gorm:"type:varchar(10);not null;default:'VND'" json:"currency"`   // 币种
	TotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 实付金额
	ClientIP    string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`               // 下单客户端 IP
	PaidAt      *time.Time     `gorm:"index" json:"paid_at"`                                      // 支付时间
	CanceledAt  *time.Time     `gorm:"index" json:"canceled_at"`                                  // 取消时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单项表
// SKU 为下单时刻的快照值，履约记录按该值对账，因此 SKU 变更保护以此为准。
type OrderItem struct {
	ID        uint   `gorm:"primarykey" json:"id"`                               // 主键
	OrderID   uint   `gorm:"not null;index" json:"order_id"`                     // 订单 ID
	ProductID uint   `gorm:"not null;index" json:"product_id"`                   // 商品 ID
	VariantID *uint  `gorm:"index" json:"variant_id,omitempty"`                  // 变体 ID
	SKU       string `gorm:"type:varchar(128);index" json:"sku"`                 // SKU 快照
	Name      string `gorm:"type:varchar(255);not null" json:"name"`             // 名称快照
	Quantity  int    `gorm:"not null;default:1" json:"quantity"`                 // 数量
	UnitPrice Money  `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价快照

	CreatedAt time.Time `gorm:"index" json:"created_at"` // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
