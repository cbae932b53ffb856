package service

import (
	"reflect"
	"strings"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"

	"github.com/gaubong-next/internal/models"
)

// htmlStripper 富文本字段入库前统一剥离标签
var htmlStripper = bluemonday.StrictPolicy()

// skuChange SKU 变更记录，供引用守卫做未结订单锁检查
type skuChange struct {
	Old string
	New string
}

// mergeResult 合并阶段的全部产出：合并后的工作副本、写入计划、
// 库存同步触发标记与引用守卫所需的 ID / SKU 清单。
type mergeResult struct {
	merged *models.Product
	patch  *productPatch

	previousType         string
	productTypeChanged   bool
	stockQuantityChanged bool
	backordersChanged    bool
	variantsChanged      bool
	stockStatusExplicit  bool
	priceChanged         bool
	dimensionsChanged    bool

	categoryIDs       []uint
	categoryIDsSet    bool
	unknownVariantIDs []uint
	skuChanges        []skuChange
	slugChanged       bool
}

// mergeUpdate 把校验后的部分更新合并进现有商品：顶层字段浅合并、
// meta 深合并、派生镜像重算、富文本剥离、variation 形态转换。
// 纯函数，不做任何 I/O。
func mergeUpdate(product *models.Product, input *UpdateProductInput) *mergeResult {
	ctx := &mergeContext{
		before: product,
		input:  input,
		result: &mergeResult{
			merged:       cloneProduct(product),
			patch:        newProductPatch(),
			previousType: product.ProductType,
		},
	}
	ctx.applyIdentity()
	ctx.applyPricing()
	ctx.applyInventoryFields()
	ctx.applyDimensions()
	ctx.applyTaxonomy()
	ctx.applySEO()
	ctx.applyMisc()
	ctx.applyAttributes()
	ctx.applyMeta()
	ctx.applyVariants()
	ctx.applyVariations()
	return ctx.result
}

type mergeContext struct {
	before *models.Product
	input  *UpdateProductInput
	result *mergeResult
}

// cloneProduct 复制聚合工作副本，变体切片一并复制
func cloneProduct(p *models.Product) *models.Product {
	clone := *p
	if len(p.Variants) > 0 {
		clone.Variants = make([]models.ProductVariant, len(p.Variants))
		copy(clone.Variants, p.Variants)
	}
	return &clone
}

// normalizeSKU 去空白并大写；空 SKU 返回 nil，保证稀疏唯一索引语义
func normalizeSKU(sku string) *string {
	trimmed := strings.TrimSpace(sku)
	if trimmed == "" {
		return nil
	}
	upper := strings.ToUpper(trimmed)
	return &upper
}

// attrKey 属性名归一化：音调符号与大小写不敏感
func attrKey(name string) string {
	return slug.Make(name)
}

func (c *mergeContext) setString(column string, before string, provided *string, sanitize bool) string {
	if provided == nil {
		return before
	}
	after := strings.TrimSpace(*provided)
	if sanitize {
		after = strings.TrimSpace(htmlStripper.Sanitize(after))
	}
	if after == before {
		return before
	}
	c.result.patch.set(column, before, after)
	return after
}

func (c *mergeContext) applyIdentity() {
	merged, in := c.result.merged, c.input

	merged.Name = c.setString("name", merged.Name, in.Name, true)

	if in.Slug != nil {
		after := slug.Make(strings.TrimSpace(*in.Slug))
		if after != merged.Slug {
			c.result.patch.set("slug", merged.Slug, after)
			merged.Slug = after
			c.result.slugChanged = true
		}
	}

	merged.Status = c.setString("status", merged.Status, in.Status, false)

	if in.ProductType != nil {
		after := strings.TrimSpace(*in.ProductType)
		if after != merged.ProductType {
			c.result.patch.set("product_type", merged.ProductType, after)
			merged.ProductType = after
			c.result.productTypeChanged = true
		}
	}

	merged.Description = c.setString("description", merged.Description, in.Description, true)
	merged.ShortDescription = c.setString("short_description", merged.ShortDescription, in.ShortDescription, true)

	if in.SKU != nil {
		after := strings.TrimSpace(*in.SKU)
		if after != merged.SKU {
			c.result.patch.set("sku", merged.SKU, after)
			normalized := normalizeSKU(after)
			c.result.patch.setDerived("sku_normalized", normalized)
			if after != "" {
				c.result.skuChanges = append(c.result.skuChanges, skuChange{Old: merged.SKU, New: after})
			}
			merged.SKU = after
			merged.SKUNormalized = normalized
		}
	}

	merged.Barcode = c.setString("barcode", merged.Barcode, in.Barcode, false)
	merged.GTIN = c.setString("gtin", merged.GTIN, in.GTIN, false)
	merged.EAN = c.setString("ean", merged.EAN, in.EAN, false)
}

func (c *mergeContext) applyPricing() {
	merged, in := c.result.merged, c.input

	if in.RegularPrice != nil && !in.RegularPrice.Equal(merged.RegularPrice.Decimal) {
		c.result.patch.set("regular_price", merged.RegularPrice.String(), in.RegularPrice.String())
		merged.RegularPrice = *in.RegularPrice
		c.result.priceChanged = true
	}

	if in.SalePrice.Set {
		switch {
		case !in.SalePrice.Valid && merged.SalePrice != nil:
			// 显式 null 清除促销价
			c.result.patch.set("sale_price", merged.SalePrice.String(), nil)
			merged.SalePrice = nil
			c.result.priceChanged = true
		case in.SalePrice.Valid && (merged.SalePrice == nil || !in.SalePrice.Money.Equal(merged.SalePrice.Decimal)):
			var before interface{}
			if merged.SalePrice != nil {
				before = merged.SalePrice.String()
			}
			c.result.patch.set("sale_price", before, in.SalePrice.Money.String())
			value := in.SalePrice.Money
			merged.SalePrice = &value
			c.result.priceChanged = true
		}
	}

	if in.CostPrice != nil && (merged.CostPrice == nil || !in.CostPrice.Equal(merged.CostPrice.Decimal)) {
		var before interface{}
		if merged.CostPrice != nil {
			before = merged.CostPrice.String()
		}
		c.result.patch.set("cost_price", before, in.CostPrice.String())
		value := *in.CostPrice
		merged.CostPrice = &value
	}

	// price 是派生镜像，只能重算，永不接受调用方直接赋值
	if c.result.priceChanged {
		merged.Price = merged.EffectivePrice()
		c.result.patch.setDerived("price", merged.Price)
	}
}

func (c *mergeContext) applyInventoryFields() {
	merged, in := c.result.merged, c.input

	if in.ManageStock != nil && *in.ManageStock != merged.ManageStock {
		c.result.patch.set("manage_stock", merged.ManageStock, *in.ManageStock)
		merged.ManageStock = *in.ManageStock
		c.result.stockQuantityChanged = true
	}

	if in.StockQuantity != nil && in.StockQuantity.Int() != merged.StockQuantity {
		c.result.patch.set("stock_quantity", merged.StockQuantity, in.StockQuantity.Int())
		merged.StockQuantity = in.StockQuantity.Int()
		c.result.stockQuantityChanged = true
	}

	if in.StockStatus != nil {
		c.result.stockStatusExplicit = true
		after := strings.TrimSpace(*in.StockStatus)
		if after != merged.StockStatus {
			c.result.patch.set("stock_status", merged.StockStatus, after)
			merged.StockStatus = after
		}
	}

	if in.Backorders != nil {
		after := strings.TrimSpace(*in.Backorders)
		if after != merged.Backorders {
			c.result.patch.set("backorders", merged.Backorders, after)
			merged.Backorders = after
			c.result.backordersChanged = true
		}
	}

	if in.LowStockThreshold != nil {
		after := in.LowStockThreshold.Int()
		if merged.LowStockThreshold == nil || *merged.LowStockThreshold != after {
			var before interface{}
			if merged.LowStockThreshold != nil {
				before = *merged.LowStockThreshold
			}
			c.result.patch.set("low_stock_threshold", before, after)
			merged.LowStockThreshold = &after
		}
	}

	if in.SoldIndividually != nil && *in.SoldIndividually != merged.SoldIndividually {
		c.result.patch.set("sold_individually", merged.SoldIndividually, *in.SoldIndividually)
		merged.SoldIndividually = *in.SoldIndividually
	}
}

func (c *mergeContext) applyDimensions() {
	merged, in := c.result.merged, c.input

	apply := func(column string, current **models.Money, provided *models.Money) {
		if provided == nil {
			return
		}
		if *current != nil && provided.Equal((*current).Decimal) {
			return
		}
		var before interface{}
		if *current != nil {
			before = (*current).String()
		}
		c.result.patch.set(column, before, provided.String())
		value := *provided
		*current = &value
		c.result.dimensionsChanged = true
	}

	apply("weight", &merged.Weight, in.Weight)
	apply("length", &merged.Length, in.Length)
	apply("width", &merged.Width, in.Width)
	apply("height", &merged.Height, in.Height)
}

func (c *mergeContext) applyTaxonomy() {
	merged, in := c.result.merged, c.input

	if in.CategoryIDs != nil {
		c.result.categoryIDsSet = true
		c.result.categoryIDs = *in.CategoryIDs
		after := models.UintArray(*in.CategoryIDs)
		if !equalUintSlice(merged.CategoryIDs, after) {
			// 赋值必须保留 Valuer 包装类型，否则 JSON 列无法绑定
			c.result.patch.set("category_ids", []uint(merged.CategoryIDs), after)
			merged.CategoryIDs = after
		}
	}

	if in.Tags != nil {
		after := models.StringArray(*in.Tags)
		if !equalStringSlice(merged.Tags, after) {
			c.result.patch.set("tags", []string(merged.Tags), after)
			merged.Tags = after
		}
	}

	if in.Images != nil {
		after := models.StringArray(*in.Images)
		if !equalStringSlice(merged.Images, after) {
			c.result.patch.set("images", []string(merged.Images), after)
			merged.Images = after
		}
	}
}

func (c *mergeContext) applySEO() {
	merged, in := c.result.merged, c.input
	merged.SeoTitle = c.setString("seo_title", merged.SeoTitle, in.SeoTitle, true)
	merged.SeoDescription = c.setString("seo_description", merged.SeoDescription, in.SeoDescription, true)
}

func (c *mergeContext) applyMisc() {
	merged, in := c.result.merged, c.input

	merged.Visibility = c.setString("visibility", merged.Visibility, in.Visibility, false)

	// password 仅在 password 可见性下有意义，但始终允许提前写入
	if in.Password != nil && *in.Password != merged.Password {
		c.result.patch.set("password", "[redacted]", "[redacted]")
		c.result.patch.assignments["password"] = *in.Password
		merged.Password = *in.Password
	}

	merged.ShippingClass = c.setString("shipping_class", merged.ShippingClass, in.ShippingClass, false)
	merged.TaxStatus = c.setString("tax_status", merged.TaxStatus, in.TaxStatus, false)
	merged.TaxClass = c.setString("tax_class", merged.TaxClass, in.TaxClass, false)
}

// applyAttributes 更新属性可见性，名称按归一化键匹配
func (c *mergeContext) applyAttributes() {
	merged, in := c.result.merged, c.input
	if len(in.Attributes) == 0 {
		return
	}

	updated := make(models.AttributeList, len(merged.AttributesJSON))
	copy(updated, merged.AttributesJSON)
	changed := false
	for _, patch := range in.Attributes {
		key := attrKey(patch.Name)
		for i := range updated {
			if attrKey(updated[i].Name) != key {
				continue
			}
			if updated[i].Visible != patch.Visible {
				updated[i].Visible = patch.Visible
				changed = true
			}
			break
		}
	}
	if changed {
		c.result.patch.set("attributes", merged.AttributesJSON, updated)
		merged.AttributesJSON = updated
	}
}

// applyMeta 深合并 meta 箱：新键覆盖、缺省键保留、显式 null 删除
func (c *mergeContext) applyMeta() {
	merged, in := c.result.merged, c.input
	if in.Meta == nil {
		return
	}
	after := mergeMetaBox(merged.MetaJSON, in.Meta)
	if reflect.DeepEqual(map[string]interface{}(merged.MetaJSON), map[string]interface{}(after)) {
		return
	}
	c.result.patch.set("meta", map[string]interface{}(merged.MetaJSON), after)
	merged.MetaJSON = after
}

// mergeMetaBox 递归合并两个 meta 箱，不修改入参
func mergeMetaBox(existing, patch models.JSON) models.JSON {
	out := models.JSON{}
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		patchMap, patchIsMap := v.(map[string]interface{})
		if !patchIsMap {
			out[k] = v
			continue
		}
		existingMap, existingIsMap := out[k].(map[string]interface{})
		if !existingIsMap {
			out[k] = v
			continue
		}
		out[k] = map[string]interface{}(mergeMetaBox(models.JSON(existingMap), models.JSON(patchMap)))
	}
	return out
}

// applyVariants 应用规范化形态的变体部分更新
func (c *mergeContext) applyVariants() {
	for i := range c.input.Variants {
		c.applyVariantFields(&c.input.Variants[i], nil)
	}
}

// applyVariations 调用方形态转换：属性名→取值映射先按商品属性定义
// 做音调/大小写不敏感匹配，再落到规范化的变体规格上
func (c *mergeContext) applyVariations() {
	for i := range c.input.Variations {
		variation := &c.input.Variations[i]
		normalized := UpdateVariantInput{
			ID:    variation.ID,
			SKU:   variation.SKU,
			Price: variation.Price,
			Stock: variation.Stock,
		}
		c.applyVariantFields(&normalized, variation.Attributes)
	}
}

func (c *mergeContext) applyVariantFields(in *UpdateVariantInput, attributes map[string]string) {
	merged := c.result.merged
	variant := merged.VariantByID(in.ID)
	if variant == nil {
		c.result.unknownVariantIDs = append(c.result.unknownVariantIDs, in.ID)
		return
	}

	if in.SKU != nil {
		after := strings.TrimSpace(*in.SKU)
		if after != variant.SKU {
			c.result.patch.setVariant(variant.ID, "sku", variant.SKU, after)
			normalized := normalizeSKU(after)
			c.result.patch.variantAssignments[variant.ID]["sku_normalized"] = normalized
			if after != "" {
				c.result.skuChanges = append(c.result.skuChanges, skuChange{Old: variant.SKU, New: after})
			}
			variant.SKU = after
			variant.SKUNormalized = normalized
			c.result.variantsChanged = true
		}
	}

	if in.Price != nil && !in.Price.Equal(variant.Price.Decimal) {
		c.result.patch.setVariant(variant.ID, "price", variant.Price.String(), in.Price.String())
		variant.Price = *in.Price
		c.result.variantsChanged = true
	}

	if in.Stock != nil && in.Stock.Int() != variant.Stock {
		c.result.patch.setVariant(variant.ID, "stock", variant.Stock, in.Stock.Int())
		variant.Stock = in.Stock.Int()
		c.result.variantsChanged = true
	}

	if len(attributes) > 0 {
		c.applyVariantSpecValues(variant, attributes)
	}
}

// applyVariantSpecValues 把 variation 的属性映射并入变体规格。
// 未在商品属性定义中匹配到的名称直接忽略。
func (c *mergeContext) applyVariantSpecValues(variant *models.ProductVariant, attributes map[string]string) {
	merged := c.result.merged

	canonical := map[string]string{}
	for _, attr := range merged.AttributesJSON {
		canonical[attrKey(attr.Name)] = attr.Name
	}

	spec := models.JSON{}
	for k, v := range variant.SpecValues {
		spec[k] = v
	}
	changed := false
	for name, value := range attributes {
		canonicalName, ok := canonical[attrKey(name)]
		if !ok {
			continue
		}
		if existing, ok := spec[canonicalName].(string); ok && existing == value {
			continue
		}
		spec[canonicalName] = value
		changed = true
	}
	if !changed {
		return
	}
	before := map[string]interface{}(variant.SpecValues)
	c.result.patch.setVariant(variant.ID, "spec_values", before, spec)
	variant.SpecValues = spec
	c.result.variantsChanged = true
}

func equalUintSlice(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalStringSlice(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
