package models

import "time"

// ProductAuditLog 商品变更审计日志
// 说明：与商品条件写同事务追加，记录变更前后的关键字段（敏感字段已脱敏），
// 支持按商品与操作者检索。不存在商品已变更但无审计记录的可观测状态。
type ProductAuditLog struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	ProductID        uint      `gorm:"index;not null" json:"product_id"`
	OperatorAdminID  uint      `gorm:"index;not null" json:"operator_admin_id"`
	OperatorUsername string    `gorm:"type:varchar(100);index;not null;default:''" json:"operator_username"`
	Action           string    `gorm:"type:varchar(100);index;not null" json:"action"`
	FromVersion      uint64    `gorm:"not null;default:0" json:"from_version"`
	ToVersion        uint64    `gorm:"not null;default:0" json:"to_version"`
	BeforeJSON       JSON      `gorm:"column:before_values;type:json" json:"before"`
	AfterJSON        JSON      `gorm:"column:after_values;type:json" json:"after"`
	RequestID        string    `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"`
	ClientIP         string    `gorm:"type:varchar(64);not null;default:''" json:"client_ip"`
	UserAgent        string    `gorm:"type:varchar(255);not null;default:''" json:"user_agent"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (ProductAuditLog) TableName() string {
	return "product_audit_logs"
}
