package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page          int
	PageSize      int
	CategoryID    uint
	Search        string
	ProductType   string
	Status        string
	StockStatus   string
	PublishedOnly bool
	IncludeTrash  bool
	WithVariants  bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	Status      string
	OrderNo     string
	SKU         string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// AuditLogListFilter 查询商品审计日志列表的过滤条件
type AuditLogListFilter struct {
	Page            int
	PageSize        int
	ProductID       uint
	OperatorAdminID uint
	Action          string
	RequestID       string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}
