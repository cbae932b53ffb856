package constants

// 商品类型常量
const (
	ProductTypeSimple   = "simple"
	ProductTypeVariable = "variable"
	ProductTypeGrouped  = "grouped"
	ProductTypeExternal = "external"
)

// 商品状态常量
const (
	ProductStatusDraft   = "draft"
	ProductStatusPublish = "publish"
	ProductStatusTrash   = "trash"
)

// 库存状态常量
const (
	StockStatusInStock     = "instock"
	StockStatusOutOfStock  = "outofstock"
	StockStatusOnBackorder = "onbackorder"
)

// 缺货购买策略常量
const (
	BackordersNo     = "no"
	BackordersNotify = "notify"
	BackordersYes    = "yes"
)

// 商品可见性常量
const (
	ProductVisibilityPublic   = "public"
	ProductVisibilityPrivate  = "private"
	ProductVisibilityPassword = "password"
)

// 税务状态常量
const (
	TaxStatusTaxable  = "taxable"
	TaxStatusShipping = "shipping"
	TaxStatusNone     = "none"
)

// 订单状态常量
const (
	OrderStatusPending         = "pending"
	OrderStatusAwaitingPayment = "awaiting_payment"
	OrderStatusConfirmed       = "confirmed"
	OrderStatusCompleted       = "completed"
	OrderStatusCanceled        = "cancelled"
)

// UnsettledOrderStatuses 未结算订单状态集合（SKU 变更保护检查范围）
var UnsettledOrderStatuses = []string{
	OrderStatusPending,
	OrderStatusAwaitingPayment,
	OrderStatusConfirmed,
}

// 审计动作常量
const (
	AuditActionProductCreate  = "product.create"
	AuditActionProductUpdate  = "product.update"
	AuditActionProductTrash   = "product.trash"
	AuditActionProductRestore = "product.restore"
)

// 队列常量
const (
	QueueDefault        = "default"
	TaskStockAlert      = "catalog:stock_alert"
	TaskCacheInvalidate = "catalog:cache_invalidate"
)

// 目录默认值常量
const (
	// DefaultMaxVariants 单次更新允许的最大变体数量（防御病态载荷）
	DefaultMaxVariants = 100
	// VolumetricDivisor 体积重换算除数：长×宽×高(cm)/6000 = 公斤
	VolumetricDivisor = 6000
)
