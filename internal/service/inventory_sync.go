package service

import (
	"github.com/shopspring/decimal"

	"github.com/gaubong-next/internal/constants"
	"github.com/gaubong-next/internal/models"
)

// volumetricDivisor 体积重换算系数：长×宽×高(cm) / 6000 = kg
var volumetricDivisor = decimal.NewFromInt(constants.VolumetricDivisor)

// syncInventory 在合并后的文档上重算全部派生库存/价格字段：
// 库存状态推导、variable 商品价格区间与总库存、类型切换幽灵数据清理、
// 体积重。只读写内存中的合并结果，不做任何 I/O。
func syncInventory(res *mergeResult) {
	purgeGhostVariants(res)
	syncVariableAggregates(res)
	syncSimplePriceBounds(res)
	syncStockStatus(res)
	syncVolumetricWeight(res)
}

// purgeGhostVariants variable 切换为其它类型时整体清空变体，
// 不留陈旧的幽灵数据
func purgeGhostVariants(res *mergeResult) {
	if !res.productTypeChanged {
		return
	}
	if res.previousType != constants.ProductTypeVariable || res.merged.ProductType == constants.ProductTypeVariable {
		return
	}
	res.patch.purgeVariants = true
	// 指向将被删除行的逐变体赋值一并作废
	res.patch.variantAssignments = map[uint]map[string]interface{}{}
	res.merged.Variants = nil
	res.patch.setDerived("total_stock", 0)
	res.merged.TotalStock = 0
	res.variantsChanged = true
}

// syncVariableAggregates variable 商品：正价变体的最低/最高价、
// 总库存，并把总库存回灌到列表页使用的 stock_quantity
func syncVariableAggregates(res *mergeResult) {
	merged := res.merged
	if merged.ProductType != constants.ProductTypeVariable {
		return
	}
	if !res.variantsChanged && !res.productTypeChanged {
		return
	}

	var minPrice, maxPrice *models.Money
	totalStock := 0
	for i := range merged.Variants {
		variant := &merged.Variants[i]
		totalStock += variant.Stock
		if !variant.Price.IsPositive() {
			continue
		}
		price := variant.Price
		if minPrice == nil || price.LessThan(minPrice.Decimal) {
			minPrice = &price
		}
		if maxPrice == nil || price.GreaterThan(maxPrice.Decimal) {
			maxPrice = &price
		}
	}

	// 没有任何正价变体时回退到"无价"状态，避免把商品标成免费
	merged.MinPrice = minPrice
	merged.MaxPrice = maxPrice
	merged.TotalStock = totalStock
	merged.StockQuantity = totalStock
	res.patch.setDerived("min_price", moneyPtrValue(minPrice))
	res.patch.setDerived("max_price", moneyPtrValue(maxPrice))
	res.patch.setDerived("total_stock", totalStock)
	res.patch.setDerived("stock_quantity", totalStock)
	res.stockQuantityChanged = true
}

// syncSimplePriceBounds simple 商品的价格区间恒等于原价
func syncSimplePriceBounds(res *mergeResult) {
	merged := res.merged
	if merged.ProductType != constants.ProductTypeSimple {
		return
	}
	if !res.priceChanged && !res.productTypeChanged {
		return
	}
	price := merged.RegularPrice
	minPrice, maxPrice := price, price
	merged.MinPrice = &minPrice
	merged.MaxPrice = &maxPrice
	res.patch.setDerived("min_price", minPrice)
	res.patch.setDerived("max_price", maxPrice)
}

// syncStockStatus 按库存量与缺货策略推导库存状态。调用方显式指定
// 本次状态、或当前状态为 onbackorder（人工覆盖有粘性）时不推导。
func syncStockStatus(res *mergeResult) {
	merged := res.merged
	if res.stockStatusExplicit {
		return
	}
	if merged.StockStatus == constants.StockStatusOnBackorder {
		return
	}
	if !res.stockQuantityChanged && !res.backordersChanged && !res.productTypeChanged && !res.variantsChanged {
		return
	}
	if !merged.ManageStock && merged.ProductType != constants.ProductTypeVariable {
		return
	}

	derived := constants.StockStatusInStock
	if merged.StockQuantity <= 0 {
		if merged.Backorders == constants.BackordersNo {
			derived = constants.StockStatusOutOfStock
		} else {
			derived = constants.StockStatusOnBackorder
		}
	}
	if derived == merged.StockStatus {
		return
	}
	res.patch.set("stock_status", merged.StockStatus, derived)
	merged.StockStatus = derived
}

// syncVolumetricWeight 三维尺寸齐备且均为正时重算体积重，
// 否则保留既有值
func syncVolumetricWeight(res *mergeResult) {
	merged := res.merged
	if !res.dimensionsChanged {
		return
	}
	if merged.Length == nil || merged.Width == nil || merged.Height == nil {
		return
	}
	if !merged.Length.IsPositive() || !merged.Width.IsPositive() || !merged.Height.IsPositive() {
		return
	}
	volume := merged.Length.Mul(merged.Width.Decimal).Mul(merged.Height.Decimal)
	weight := models.NewMoneyFromDecimal(volume.Div(volumetricDivisor))
	merged.VolumetricWeight = &weight
	res.patch.setDerived("volumetric_weight", weight)
}

func moneyPtrValue(m *models.Money) interface{} {
	if m == nil {
		return nil
	}
	return *m
}
