package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gaubong-next/internal/constants"
	"github.com/gaubong-next/internal/models"
	"github.com/gaubong-next/internal/repository"
)

// CreateOrderItemInput 订单行载荷
type CreateOrderItemInput struct {
	ProductID uint         `json:"product_id"`
	VariantID *uint        `json:"variant_id,omitempty"`
	Quantity  FlexInt      `json:"quantity"`
	UnitPrice models.Money `json:"unit_price"`
}

// CreateOrderInput 创建订单载荷（运营侧/种子数据用的精简下单路径）
type CreateOrderInput struct {
	Currency string                 `json:"currency"`
	ClientIP string                 `json:"client_ip"`
	Items    []CreateOrderItemInput `json:"items"`
}

// OrderService 订单读模型与状态流转。商品 SKU 变更保护依赖
// 这里的未结算订单数据。
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo, productRepo: productRepo}
}

// List 订单列表
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// Create 创建订单：逐行快照商品名称与 SKU，金额按行价×数量累加
func (s *OrderService) Create(input *CreateOrderInput) (*models.Order, error) {
	ve := newValidationError()
	if len(input.Items) == 0 {
		ve.add("items", "must not be empty")
	}
	for _, item := range input.Items {
		if item.Quantity.Int() <= 0 {
			ve.add("items", "quantity must be positive")
			break
		}
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "VND"
	}

	order := &models.Order{
		OrderNo:  generateOrderNo(),
		Status:   constants.OrderStatusPending,
		Currency: currency,
		ClientIP: input.ClientIP,
	}
	total := models.NewMoneyFromInt(0)
	for _, item := range input.Items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.IsTrashed() {
			return nil, &ReferenceError{Field: "items", InvalidIDs: []uint{item.ProductID}}
		}

		sku := product.SKU
		name := product.Name
		if item.VariantID != nil {
			variant := product.VariantByID(*item.VariantID)
			if variant == nil {
				return nil, &ReferenceError{Field: "items", InvalidIDs: []uint{*item.VariantID}}
			}
			sku = variant.SKU
		}

		line := models.OrderItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			SKU:       sku,
			Name:      name,
			Quantity:  item.Quantity.Int(),
			UnitPrice: item.UnitPrice,
		}
		order.Items = append(order.Items, line)
		lineTotal := item.UnitPrice.Mul(models.NewMoneyFromInt(int64(item.Quantity.Int())).Decimal)
		total = models.NewMoneyFromDecimal(total.Add(lineTotal))
	}
	order.TotalAmount = total

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus 订单状态流转
func (s *OrderService) UpdateStatus(orderID uint, status string) error {
	switch status {
	case constants.OrderStatusPending,
		constants.OrderStatusAwaitingPayment,
		constants.OrderStatusConfirmed,
		constants.OrderStatusCompleted,
		constants.OrderStatusCanceled:
	default:
		ve := newValidationError()
		ve.add("status", "unknown order status")
		return ve.orNil()
	}
	return s.orderRepo.UpdateStatus(orderID, status)
}

// generateOrderNo 订单号：日期前缀 + 随机后缀
func generateOrderNo() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("GB%s%s", time.Now().Format("20060102"), strings.ToUpper(suffix))
}
