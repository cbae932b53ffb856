package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/gaubong-next/internal/constants"
	"github.com/gaubong-next/internal/models"
)

func setupOrderRepositoryTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func createTestOrder(t *testing.T, repo *GormOrderRepository, orderNo, status string, skus ...string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:     orderNo,
		Status:      status,
		Currency:    "VND",
		TotalAmount: models.NewMoneyFromInt(350000),
	}
	for _, sku := range skus {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: 1,
			SKU:       sku,
			Name:      "Gấu bông",
			Quantity:  1,
			UnitPrice: models.NewMoneyFromInt(350000),
		})
	}
	if err := repo.Create(order); err != nil {
		t.Fatalf("create order %s failed: %v", orderNo, err)
	}
	return order
}

func TestCountUnsettledBySKU(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)
	createTestOrder(t, repo, "GB-UNSETTLED-1", constants.OrderStatusPending, "SKU-HELD")
	createTestOrder(t, repo, "GB-UNSETTLED-2", constants.OrderStatusAwaitingPayment, "SKU-HELD")
	createTestOrder(t, repo, "GB-UNSETTLED-3", constants.OrderStatusConfirmed, "SKU-HELD", "SKU-OTHER")
	createTestOrder(t, repo, "GB-SETTLED-1", constants.OrderStatusCompleted, "SKU-HELD")
	createTestOrder(t, repo, "GB-SETTLED-2", constants.OrderStatusCanceled, "SKU-HELD")

	count, err := repo.CountUnsettledBySKU([]string{"SKU-HELD"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("unsettled count want 3 got %d", count)
	}

	count, err = repo.CountUnsettledBySKU([]string{"SKU-FREE"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("unreferenced sku count want 0 got %d", count)
	}

	count, err = repo.CountUnsettledBySKU(nil)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("empty sku list count want 0 got %d", count)
	}
}

func TestOrderListFilterBySKU(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)
	createTestOrder(t, repo, "GB-FILTER-1", constants.OrderStatusPending, "SKU-FILTER-A")
	createTestOrder(t, repo, "GB-FILTER-2", constants.OrderStatusPending, "SKU-FILTER-B")

	orders, total, err := repo.List(OrderListFilter{SKU: "SKU-FILTER-A", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(orders) != 1 {
		t.Fatalf("filtered list want 1 got total=%d len=%d", total, len(orders))
	}
	if orders[0].OrderNo != "GB-FILTER-1" {
		t.Fatalf("order_no want GB-FILTER-1 got %s", orders[0].OrderNo)
	}
}
