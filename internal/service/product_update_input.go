package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gaubong-next/internal/constants"
	"github.com/gaubong-next/internal/models"
)

// FlexInt 宽松整型：同时接受 JSON 数字与数字字符串
type FlexInt int

// UnmarshalJSON 解析整数（数字或字符串）
func (f *FlexInt) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	raw = strings.Trim(raw, `"`)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return err
	}
	*f = FlexInt(value)
	return nil
}

// Int 返回原生 int 值
func (f FlexInt) Int() int {
	return int(f)
}

// NullableMoney 三态金额：未提供 / 显式置空(null) / 提供值
type NullableMoney struct {
	Set   bool
	Valid bool
	Money models.Money
}

// UnmarshalJSON 解析三态金额
func (n *NullableMoney) UnmarshalJSON(b []byte) error {
	n.Set = true
	if strings.TrimSpace(string(b)) == "null" {
		n.Valid = false
		return nil
	}
	if err := n.Money.UnmarshalJSON(b); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// MarshalJSON 序列化三态金额
func (n NullableMoney) MarshalJSON() ([]byte, error) {
	if !n.Set || !n.Valid {
		return []byte("null"), nil
	}
	return n.Money.MarshalJSON()
}

// UpdateVariantInput 变体部分更新载荷（规范化形态）
type UpdateVariantInput struct {
	ID    uint          `json:"id"`
	SKU   *string       `json:"sku,omitempty"`
	Price *models.Money `json:"price,omitempty"`
	Stock *FlexInt      `json:"stock,omitempty"`
}

// VariationInput 调用方形态的变体载荷（属性名→取值映射，variable 商品）
// 属性名按音调符号与大小写不敏感的方式匹配商品属性定义。
type VariationInput struct {
	ID         uint              `json:"id"`
	SKU        *string           `json:"sku,omitempty"`
	Price      *models.Money     `json:"price,omitempty"`
	Stock      *FlexInt          `json:"stock,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// AttributeVisibilityInput 属性可见性更新载荷
type AttributeVisibilityInput struct {
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
}

// UpdateProductInput 商品部分更新载荷。
// 指针字段区分"未提供"与"零值"；派生字段（price/min_price/max_price/
// sku_normalized/total_stock/volumetric_weight）不可直接提交，始终由引擎重算。
type UpdateProductInput struct {
	Version *FlexInt `json:"version,omitempty"` // 乐观并发令牌；缺省为尽力而为模式

	Name             *string `json:"name,omitempty"`
	Slug             *string `json:"slug,omitempty"`
	Status           *string `json:"status,omitempty"`
	ProductType      *string `json:"product_type,omitempty"`
	Description      *string `json:"description,omitempty"`
	ShortDescription *string `json:"short_description,omitempty"`

	SKU     *string `json:"sku,omitempty"`
	Barcode *string `json:"barcode,omitempty"`
	GTIN    *string `json:"gtin,omitempty"`
	EAN     *string `json:"ean,omitempty"`

	RegularPrice *models.Money `json:"regular_price,omitempty"`
	SalePrice    NullableMoney `json:"sale_price,omitzero"`
	CostPrice    *models.Money `json:"cost_price,omitempty"`

	ManageStock   *bool    `json:"manage_stock,omitempty"`
	StockQuantity *FlexInt `json:"stock_quantity,omitempty"`
	StockStatus   *string  `json:"stock_status,omitempty"`
	Backorders    *string  `json:"backorders,omitempty"`

	LowStockThreshold *FlexInt `json:"low_stock_threshold,omitempty"`
	SoldIndividually  *bool    `json:"sold_individually,omitempty"`

	Weight *models.Money `json:"weight,omitempty"`
	Length *models.Money `json:"length,omitempty"`
	Width  *models.Money `json:"width,omitempty"`
	Height *models.Money `json:"height,omitempty"`

	CategoryIDs *[]uint   `json:"category_ids,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Images      *[]string `json:"images,omitempty"`

	SeoTitle       *string `json:"seo_title,omitempty"`
	SeoDescription *string `json:"seo_description,omitempty"`

	Visibility    *string `json:"visibility,omitempty"`
	Password      *string `json:"password,omitempty"`
	ShippingClass *string `json:"shipping_class,omitempty"`
	TaxStatus     *string `json:"tax_status,omitempty"`
	TaxClass      *string `json:"tax_class,omitempty"`

	Attributes []AttributeVisibilityInput `json:"attributes,omitempty"`
	Meta       models.JSON                `json:"meta,omitempty"`

	Variants   []UpdateVariantInput `json:"variants,omitempty"`
	Variations []VariationInput     `json:"variations,omitempty"`
}

// DecodeUpdateProductInput 解析原始 JSON 载荷为规范化部分更新记录
func DecodeUpdateProductInput(raw []byte) (*UpdateProductInput, error) {
	var input UpdateProductInput
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	if err := decoder.Decode(&input); err != nil {
		return nil, err
	}
	return &input, nil
}

var productStatusUpdateSet = map[string]struct{}{
	constants.ProductStatusDraft:   {},
	constants.ProductStatusPublish: {},
}

var productTypeSet = map[string]struct{}{
	constants.ProductTypeSimple:   {},
	constants.ProductTypeVariable: {},
	constants.ProductTypeGrouped:  {},
	constants.ProductTypeExternal: {},
}

var stockStatusSet = map[string]struct{}{
	constants.StockStatusInStock:     {},
	constants.StockStatusOutOfStock:  {},
	constants.StockStatusOnBackorder: {},
}

var backordersSet = map[string]struct{}{
	constants.BackordersNo:     {},
	constants.BackordersNotify: {},
	constants.BackordersYes:    {},
}

var visibilitySet = map[string]struct{}{
	constants.ProductVisibilityPublic:   {},
	constants.ProductVisibilityPrivate:  {},
	constants.ProductVisibilityPassword: {},
}

var taxStatusSet = map[string]struct{}{
	constants.TaxStatusTaxable:  {},
	constants.TaxStatusShipping: {},
	constants.TaxStatusNone:     {},
}

// fieldValidator 单字段校验函数：字段缺省时自行跳过
type fieldValidator struct {
	field    string
	validate func(in *UpdateProductInput, limits engineLimits, ve *ValidationError)
}

// engineLimits 校验所需的配置上限
type engineLimits struct {
	MaxVariants int
}

// updateFieldValidators 部分更新字段校验表。每个条目独立可测，
// 由 validateUpdateInput 汇总为一次性的逐字段错误清单。
var updateFieldValidators = []fieldValidator{
	{field: "version", validate: func(in *UpdateProductInput, _ engineLimits, ve *ValidationError) {
		if in.Version != nil && in.Version.Int() < 0 {
			ve.add("version", "must be a non-negative integer")
		}
	}},
	{field: "name", validate: func(in *UpdateProductInput, _ engineLimits, ve *ValidationError) {
		if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
			ve.add("name", "must not be empty")
		}
	}},
	{field: "slug", validate: func(in *UpdateProductInput, _ engineLimits, ve *ValidationError) {
		if in.Slug != nil && strings.TrimSpace(*in.Slug) == "" {
			ve.add("slug", "must not be empty")
		}
	}},
	{field: "status", validate: func(in *UpdateProductInput, _ engineLimits, ve *ValidationError) {
		if in.Status == nil {
			return
		}
		if _, ok := productStatusUpdateSet[strings.TrimSpace(*in.Status)]; !ok {
			ve.add("status", "must be one of draft/publish")
		}
	}},
	{field: "product_type", validate: func(in *UpdateProductInput, _ engineLimits, ve *ValidationError) {
		if in.ProductType == nil {
			return
		}
		if _, ok := productTypeSet[strings.TrimSpace(*in.ProductType)]; !ok {
			ve.add("product_type", "must be one of simple/variable/grouped/external")
		}
	}},
	{field: "regular_price", validate: func(in *UpdateProductInput, _ engineLimits, ve *ValidationError) {
		if in.RegularPrice != nil && in.RegularPrice.IsNegative() {
			ve.add("regular_price", "must not be negative")
		}
	}},
	{field: "sale_price", validate: func(in *UpdateProductInput, _ engineLimits, ve *ValidationError) {
		if !in.SalePrice.Set || !in.SalePrice.Valid {
			return
		}
		if in.SalePrice.Money.IsNegative() {
			ve.add("sale_price", "must not be negative")
			return
		}
		// 仅当同一载荷同时携带两个价格时才做纯结构性比较
		if in.RegularPrice != nil && !in.SalePrice.Money.LessThan(in.RegularPrice.Decimal) {
			ve.add("sale_price", "must be strictly less than regular_price")
		}
	}},
	{field: "cost_price", validate: func(in *UpdateProductInput, _ engineLimits, ve *ValidationError) {
		if in.CostPrice != nil && in.CostPrice.IsNegative() {
			ve.add("cost_price", "must not be negative")
		}
	}},
	{field: "stock_quantity", validate: func(in *UpdateProductInput, _ engineLimits, ve *ValidationError) {
		if in.StockQuantity != nil && in.StockQuantity.Int() < 0 {
			ve.add("stock_quantity", "must be a non-negative integer")
		}
	}},
	{field: "stock_status", validate: func(in *UpdateProductInput, _ engineLimits, ve *ValidationError) {
		if in.StockStatus == nil {
			return
		}
		if _, ok := stockStatusSet[strings.TrimSpace(*in.StockStatus)]; !ok {
			ve.add("stock_status", "must be one of instock/outofstock/onbackorder")
		}
	}},
	{field: "backorders", validate: func(in *UpdateProductInput, _ engineLimits, ve *ValidationError) {
		if in.Backorders == nil {
			return
		}
		if _, ok := backordersSet[strings.TrimSpace(*in.Backorders)]; !ok {
			ve.add("backorders", "must be one of no/notify/yes")
		}
	}},
	{field: "low_stock_threshold", validate: func(in *UpdateProductInput, _ engineLimits, ve *ValidationError) {
		if in.LowStockThreshold != nil && in.LowStockThreshold.Int() < 0 {
			ve.add("low_stock_threshold", "must be a non-negative integer")
		}
	}},
	{field: "dimensions", validate: func(in *UpdateProductInput, _ engineLimits, ve *ValidationError) {
		for name, value := range map[string]*models.Money{
			"weight": in.Weight,
			"length": in.Length,
			"width":  in.Width,
			"height": in.Height,
		} {
			if value != nil && value.IsNegative() {
				ve.add(name, "must not be negative")
			}
		}
	}},
	{field: "visibility", validate: func(in *UpdateProductInput, _ engineLimits, ve *ValidationError) {
		if in.Visibility == nil {
			return
		}
		if _, ok := visibilitySet[strings.TrimSpace(*in.Visibility)]; !ok {
			ve.add("visibility", "must be one of public/private/password")
		}
	}},
	{field: "tax_status", validate: func(in *UpdateProductInput, _ engineLimits, ve *ValidationError) {
		if in.TaxStatus == nil {
			return
		}
		if _, ok := taxStatusSet[strings.TrimSpace(*in.TaxStatus)]; !ok {
			ve.add("tax_status", "must be one of taxable/shipping/none")
		}
	}},
	{field: "attributes", validate: func(in *UpdateProductInput, _ engineLimits, ve *ValidationError) {
		for _, attr := range in.Attributes {
			if strings.TrimSpace(attr.Name) == "" {
				ve.add("attributes", "attribute name must not be empty")
				return
			}
		}
	}},
	{field: "variants", validate: func(in *UpdateProductInput, limits engineLimits, ve *ValidationError) {
		if limits.MaxVariants > 0 && len(in.Variants)+len(in.Variations) > limits.MaxVariants {
			ve.add("variants", "too many variants in one update")
			return
		}
		for _, variant := range in.Variants {
			if variant.Price != nil && variant.Price.IsNegative() {
				ve.add("variants", "variant price must not be negative")
				return
			}
			if variant.Stock != nil && variant.Stock.Int() < 0 {
				ve.add("variants", "variant stock must be a non-negative integer")
				return
			}
		}
		for _, variation := range in.Variations {
			if variation.Price != nil && variation.Price.IsNegative() {
				ve.add("variations", "variation price must not be negative")
				return
			}
			if variation.Stock != nil && variation.Stock.Int() < 0 {
				ve.add("variations", "variation stock must be a non-negative integer")
				return
			}
		}
	}},
}

// validateUpdateInput 结构化校验部分更新载荷：纯函数，不触碰持久状态，
// 一次性枚举全部问题字段。
func validateUpdateInput(input *UpdateProductInput, limits engineLimits) error {
	ve := newValidationError()
	for _, entry := range updateFieldValidators {
		entry.validate(input, limits, ve)
	}
	return ve.orNil()
}

// validateMerged 合并后校验：simple 商品的原价必须为正数。
// 仅在本次更新触碰了原价或商品类型时生效，不阻断历史数据的无关更新。
func validateMerged(res *mergeResult) error {
	if res.merged.ProductType != constants.ProductTypeSimple {
		return nil
	}
	_, priceTouched := res.patch.assignments["regular_price"]
	if !priceTouched && !res.productTypeChanged {
		return nil
	}
	if res.merged.RegularPrice.IsPositive() {
		return nil
	}
	ve := newValidationError()
	ve.add("regular_price", "must be positive for simple products")
	return ve.orNil()
}
