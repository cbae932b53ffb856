package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/gaubong-next/internal/models"
)

func TestDecodeUpdateProductInputFlexibleNumbers(t *testing.T) {
	raw := []byte(`{
		"version": "3",
		"stock_quantity": "25",
		"low_stock_threshold": 5,
		"variants": [{"id": 10, "stock": "7"}]
	}`)

	input, err := DecodeUpdateProductInput(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if input.Version == nil || input.Version.Int() != 3 {
		t.Fatalf("version want 3 got %v", input.Version)
	}
	if input.StockQuantity == nil || input.StockQuantity.Int() != 25 {
		t.Fatalf("stock_quantity want 25 got %v", input.StockQuantity)
	}
	if input.LowStockThreshold == nil || input.LowStockThreshold.Int() != 5 {
		t.Fatalf("low_stock_threshold want 5 got %v", input.LowStockThreshold)
	}
	if len(input.Variants) != 1 || input.Variants[0].Stock == nil || input.Variants[0].Stock.Int() != 7 {
		t.Fatalf("variant stock want 7 got %+v", input.Variants)
	}
}

func TestDecodeUpdateProductInputSalePriceTriState(t *testing.T) {
	absent, err := DecodeUpdateProductInput([]byte(`{"name": "x"}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if absent.SalePrice.Set {
		t.Fatal("absent sale_price must not be marked as set")
	}

	cleared, err := DecodeUpdateProductInput([]byte(`{"sale_price": null}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !cleared.SalePrice.Set || cleared.SalePrice.Valid {
		t.Fatalf("explicit null want set+invalid got %+v", cleared.SalePrice)
	}

	provided, err := DecodeUpdateProductInput([]byte(`{"sale_price": "99000"}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !provided.SalePrice.Set || !provided.SalePrice.Valid {
		t.Fatalf("provided sale_price want set+valid got %+v", provided.SalePrice)
	}
	if !provided.SalePrice.Money.Equal(decimal.NewFromInt(99000)) {
		t.Fatalf("sale_price want 99000 got %s", provided.SalePrice.Money.String())
	}
}

func TestValidateUpdateInputCollectsAllFieldErrors(t *testing.T) {
	badStatus := "published"
	negative := models.NewMoneyFromInt(-1)
	input := &UpdateProductInput{
		Status:       &badStatus,
		RegularPrice: &negative,
	}

	err := validateUpdateInput(input, engineLimits{MaxVariants: 100})
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("want *ValidationError got %v", err)
	}
	if _, ok := ve.Fields["status"]; !ok {
		t.Fatalf("missing status error: %v", ve.Fields)
	}
	if _, ok := ve.Fields["regular_price"]; !ok {
		t.Fatalf("missing regular_price error: %v", ve.Fields)
	}
}

func TestValidateUpdateInputSalePriceAgainstRegular(t *testing.T) {
	regular := models.NewMoneyFromInt(100000)

	equal := &UpdateProductInput{
		RegularPrice: &regular,
		SalePrice:    NullableMoney{Set: true, Valid: true, Money: models.NewMoneyFromInt(100000)},
	}
	if err := validateUpdateInput(equal, engineLimits{}); err == nil {
		t.Fatal("sale_price equal to regular_price must be rejected")
	}

	lower := &UpdateProductInput{
		RegularPrice: &regular,
		SalePrice:    NullableMoney{Set: true, Valid: true, Money: models.NewMoneyFromInt(80000)},
	}
	if err := validateUpdateInput(lower, engineLimits{}); err != nil {
		t.Fatalf("lower sale_price must pass, got %v", err)
	}

	// 载荷只带促销价时不与库内原价比较，跨字段检查延后到合并阶段
	saleOnly := &UpdateProductInput{
		SalePrice: NullableMoney{Set: true, Valid: true, Money: models.NewMoneyFromInt(80000)},
	}
	if err := validateUpdateInput(saleOnly, engineLimits{}); err != nil {
		t.Fatalf("sale_price alone must pass, got %v", err)
	}
}

func TestValidateUpdateInputVariantCap(t *testing.T) {
	input := &UpdateProductInput{}
	for i := 0; i < 3; i++ {
		input.Variants = append(input.Variants, UpdateVariantInput{ID: uint(i + 1)})
	}
	input.Variations = append(input.Variations, VariationInput{ID: 9})

	err := validateUpdateInput(input, engineLimits{MaxVariants: 3})
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("want *ValidationError got %v", err)
	}
	if _, ok := ve.Fields["variants"]; !ok {
		t.Fatalf("missing variants cap error: %v", ve.Fields)
	}

	if err := validateUpdateInput(input, engineLimits{MaxVariants: 4}); err != nil {
		t.Fatalf("within cap must pass, got %v", err)
	}
}
