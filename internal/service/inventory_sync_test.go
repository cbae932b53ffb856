package service

import (
	"testing"

	"github.com/gaubong-next/internal/constants"
	"github.com/gaubong-next/internal/models"
)

func flexPtr(v int) *FlexInt {
	f := FlexInt(v)
	return &f
}

func newStockFixture() *models.Product {
	product := newMergeFixture()
	product.ManageStock = true
	product.StockQuantity = 5
	return product
}

func applyUpdate(product *models.Product, input *UpdateProductInput) *mergeResult {
	res := mergeUpdate(product, input)
	syncInventory(res)
	return res
}

func TestStockStatusDerivedFromQuantity(t *testing.T) {
	res := applyUpdate(newStockFixture(), &UpdateProductInput{StockQuantity: flexPtr(0)})
	if res.merged.StockStatus != constants.StockStatusOutOfStock {
		t.Fatalf("zero stock with backorders=no want outofstock got %s", res.merged.StockStatus)
	}
	if res.patch.assignments["stock_status"] != constants.StockStatusOutOfStock {
		t.Fatal("derived stock_status missing from write plan")
	}

	depleted := newStockFixture()
	depleted.StockQuantity = 0
	depleted.StockStatus = constants.StockStatusOutOfStock
	res = applyUpdate(depleted, &UpdateProductInput{StockQuantity: flexPtr(3)})
	if res.merged.StockStatus != constants.StockStatusInStock {
		t.Fatalf("restock want instock got %s", res.merged.StockStatus)
	}
}

func TestStockStatusExplicitValueSuppressesDerivation(t *testing.T) {
	status := constants.StockStatusInStock
	res := applyUpdate(newStockFixture(), &UpdateProductInput{
		StockQuantity: flexPtr(0),
		StockStatus:   &status,
	})
	if res.merged.StockStatus != constants.StockStatusInStock {
		t.Fatalf("explicit stock_status must win, got %s", res.merged.StockStatus)
	}
}

func TestStockStatusBackorderOverrideIsSticky(t *testing.T) {
	product := newStockFixture()
	product.StockStatus = constants.StockStatusOnBackorder
	res := applyUpdate(product, &UpdateProductInput{StockQuantity: flexPtr(50)})
	if res.merged.StockStatus != constants.StockStatusOnBackorder {
		t.Fatalf("onbackorder must stick until explicitly changed, got %s", res.merged.StockStatus)
	}
}

func TestStockStatusZeroWithBackordersAllowed(t *testing.T) {
	product := newStockFixture()
	product.Backorders = constants.BackordersYes
	res := applyUpdate(product, &UpdateProductInput{StockQuantity: flexPtr(0)})
	if res.merged.StockStatus != constants.StockStatusOnBackorder {
		t.Fatalf("zero stock with backorders=yes want onbackorder got %s", res.merged.StockStatus)
	}
}

func newVariableFixture() *models.Product {
	product := newMergeFixture()
	product.ProductType = constants.ProductTypeVariable
	product.Variants = []models.ProductVariant{
		{ID: 11, ProductID: 1, SKU: "GB-CAPY-40", Price: models.NewMoneyFromInt(120000), Stock: 2},
		{ID: 12, ProductID: 1, SKU: "GB-CAPY-60", Price: models.NewMoneyFromInt(150000), Stock: 0},
		{ID: 13, ProductID: 1, SKU: "GB-CAPY-80", Price: models.NewMoneyFromInt(99000), Stock: 4},
	}
	return product
}

func TestVariableAggregatesRecomputed(t *testing.T) {
	res := applyUpdate(newVariableFixture(), &UpdateProductInput{
		Variants: []UpdateVariantInput{{ID: 13, Stock: flexPtr(5)}},
	})

	merged := res.merged
	if merged.MinPrice == nil || !merged.MinPrice.Equal(models.NewMoneyFromInt(99000).Decimal) {
		t.Fatalf("min_price want 99000 got %v", merged.MinPrice)
	}
	if merged.MaxPrice == nil || !merged.MaxPrice.Equal(models.NewMoneyFromInt(150000).Decimal) {
		t.Fatalf("max_price want 150000 got %v", merged.MaxPrice)
	}
	if merged.TotalStock != 7 {
		t.Fatalf("total_stock want 7 got %d", merged.TotalStock)
	}
	if merged.StockQuantity != 7 {
		t.Fatalf("stock_quantity must mirror total_stock, got %d", merged.StockQuantity)
	}
	if res.patch.assignments["total_stock"] != 7 {
		t.Fatal("total_stock missing from write plan")
	}
}

func TestVariableWithoutPositivePricesHasNoBounds(t *testing.T) {
	product := newVariableFixture()
	for i := range product.Variants {
		product.Variants[i].Price = models.NewMoneyFromInt(0)
	}
	res := applyUpdate(product, &UpdateProductInput{
		Variants: []UpdateVariantInput{{ID: 11, Stock: flexPtr(3)}},
	})

	if res.merged.MinPrice != nil || res.merged.MaxPrice != nil {
		t.Fatalf("no positive prices want nil bounds got %v / %v", res.merged.MinPrice, res.merged.MaxPrice)
	}
	if res.patch.assignments["min_price"] != nil {
		t.Fatalf("min_price assignment want nil got %v", res.patch.assignments["min_price"])
	}
}

func TestTypeChangePurgesGhostVariants(t *testing.T) {
	productType := constants.ProductTypeSimple
	res := applyUpdate(newVariableFixture(), &UpdateProductInput{ProductType: &productType})

	if !res.patch.purgeVariants {
		t.Fatal("purgeVariants flag must be set on variable -> simple")
	}
	if len(res.merged.Variants) != 0 {
		t.Fatalf("merged variants want empty got %d", len(res.merged.Variants))
	}
	if len(res.patch.variantAssignments) != 0 {
		t.Fatal("per-variant assignments must be discarded with the purge")
	}
	if res.merged.TotalStock != 0 {
		t.Fatalf("total_stock want 0 got %d", res.merged.TotalStock)
	}
	// 类型切回 simple 后价格区间回到原价
	if res.merged.MinPrice == nil || !res.merged.MinPrice.Equal(res.merged.RegularPrice.Decimal) {
		t.Fatalf("simple bounds want regular price got %v", res.merged.MinPrice)
	}
}

func TestVolumetricWeightComputedWhenAllDimensionsPositive(t *testing.T) {
	res := applyUpdate(newStockFixture(), &UpdateProductInput{
		Length: moneyPtr(30),
		Width:  moneyPtr(20),
		Height: moneyPtr(10),
	})

	if res.merged.VolumetricWeight == nil {
		t.Fatal("volumetric weight want computed got nil")
	}
	if got := res.merged.VolumetricWeight.String(); got != "1.00" {
		t.Fatalf("volumetric weight want 1.00 got %s", got)
	}
}

func TestVolumetricWeightSkippedWhenDimensionMissingOrZero(t *testing.T) {
	res := applyUpdate(newStockFixture(), &UpdateProductInput{
		Length: moneyPtr(30),
		Width:  moneyPtr(20),
	})
	if res.merged.VolumetricWeight != nil {
		t.Fatalf("missing height must skip recompute, got %v", res.merged.VolumetricWeight)
	}

	res = applyUpdate(newStockFixture(), &UpdateProductInput{
		Length: moneyPtr(30),
		Width:  moneyPtr(20),
		Height: moneyPtr(0),
	})
	if res.merged.VolumetricWeight != nil {
		t.Fatalf("zero height must skip recompute, got %v", res.merged.VolumetricWeight)
	}
	if _, ok := res.patch.assignments["volumetric_weight"]; ok {
		t.Fatal("volumetric_weight must stay out of the write plan")
	}
}
