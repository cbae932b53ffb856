package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/gaubong-next/internal/constants"
	"github.com/gaubong-next/internal/models"
	"github.com/gaubong-next/internal/repository"
)

// CreateVariantInput 创建商品时的变体载荷
type CreateVariantInput struct {
	SKU        string            `json:"sku"`
	Price      models.Money      `json:"price"`
	Stock      FlexInt           `json:"stock"`
	Attributes map[string]string `json:"attributes,omitempty"`
	SortOrder  int               `json:"sort_order"`
}

// CreateProductInput 创建商品载荷
type CreateProductInput struct {
	Name              string               `json:"name"`
	Slug              string               `json:"slug"`
	ProductType       string               `json:"product_type"`
	Status            string               `json:"status"`
	Description       string               `json:"description"`
	ShortDescription  string               `json:"short_description"`
	SKU               string               `json:"sku"`
	RegularPrice      models.Money         `json:"regular_price"`
	SalePrice         NullableMoney        `json:"sale_price,omitzero"`
	CostPrice         *models.Money        `json:"cost_price,omitempty"`
	ManageStock       bool                 `json:"manage_stock"`
	StockQuantity     FlexInt              `json:"stock_quantity"`
	Backorders        string               `json:"backorders"`
	LowStockThreshold *FlexInt             `json:"low_stock_threshold,omitempty"`
	Weight            *models.Money        `json:"weight,omitempty"`
	Length            *models.Money        `json:"length,omitempty"`
	Width             *models.Money        `json:"width,omitempty"`
	Height            *models.Money        `json:"height,omitempty"`
	CategoryIDs       []uint               `json:"category_ids"`
	Tags              []string             `json:"tags"`
	Images            []string             `json:"images"`
	Attributes        models.AttributeList `json:"attributes"`
	Meta              models.JSON          `json:"meta"`
	SeoTitle          string               `json:"seo_title"`
	SeoDescription    string               `json:"seo_description"`
	Visibility        string               `json:"visibility"`
	TaxStatus         string               `json:"tax_status"`
	TaxClass          string               `json:"tax_class"`
	Variants          []CreateVariantInput `json:"variants"`
}

// ProductService 商品聚合的创建/查询/回收站管理。
// 部分更新走独立的 ProductUpdateService。
type ProductService struct {
	productRepo  repository.ProductRepository
	variantRepo  repository.ProductVariantRepository
	auditRepo    repository.ProductAuditLogRepository
	categoryRepo repository.CategoryRepository
	maxVariants  int
}

// NewProductService 创建商品服务
func NewProductService(
	productRepo repository.ProductRepository,
	variantRepo repository.ProductVariantRepository,
	auditRepo repository.ProductAuditLogRepository,
	categoryRepo repository.CategoryRepository,
	maxVariants int,
) *ProductService {
	if maxVariants <= 0 {
		maxVariants = constants.DefaultMaxVariants
	}
	return &ProductService{
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		auditRepo:    auditRepo,
		categoryRepo: categoryRepo,
		maxVariants:  maxVariants,
	}
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// Get 商品详情（含变体）
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// GetBySlug 按 slug 获取商品
func (s *ProductService) GetBySlug(productSlug string, publishedOnly bool) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(productSlug, publishedOnly)
	if err != nil {
		return nil, err
	}
	if product == nil || product.IsTrashed() {
		return nil, ErrNotFound
	}
	return product, nil
}

// Create 创建商品，初始版本为 0。变体只在创建时整体给定，
// 后续更新仅允许修改既有变体。
func (s *ProductService) Create(input *CreateProductInput, actor UpdateActor, prov RequestProvenance) (*models.Product, error) {
	if err := s.validateCreate(input); err != nil {
		return nil, err
	}

	productSlug, err := s.resolveSlug(input.Slug, input.Name)
	if err != nil {
		return nil, err
	}

	product := s.buildProduct(input, productSlug)
	variants := s.buildVariants(input, product)
	applyCreateDerived(product, variants)

	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		txProducts := s.productRepo.WithTx(tx)
		txVariants := s.variantRepo.WithTx(tx)
		txAudits := s.auditRepo.WithTx(tx)

		if err := txProducts.Create(product); err != nil {
			return translateCreateDuplicate(err, input)
		}
		for i := range variants {
			variants[i].ProductID = product.ID
			if err := txVariants.Create(&variants[i]); err != nil {
				return translateCreateDuplicate(err, input)
			}
		}
		return txAudits.Create(&models.ProductAuditLog{
			ProductID:        product.ID,
			OperatorAdminID:  actor.AdminID,
			OperatorUsername: actor.Username,
			Action:           constants.AuditActionProductCreate,
			FromVersion:      0,
			ToVersion:        0,
			AfterJSON:        models.JSON{"name": product.Name, "slug": product.Slug, "product_type": product.ProductType},
			RequestID:        prov.RequestID,
			ClientIP:         prov.ClientIP,
			UserAgent:        prov.UserAgent,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(product.ID)
}

// Trash 软删除：状态转 trash 并记录删除时间，物理删除不在常规路径内
func (s *ProductService) Trash(id uint, actor UpdateActor, prov RequestProvenance) error {
	return s.transition(id, actor, prov, constants.AuditActionProductTrash, func(product *models.Product) (map[string]interface{}, error) {
		if product.IsTrashed() {
			return nil, ErrNotFound
		}
		now := time.Now()
		return map[string]interface{}{
			"status":     constants.ProductStatusTrash,
			"deleted_at": now,
			"updated_at": now,
		}, nil
	})
}

// Restore 从回收站恢复为草稿
func (s *ProductService) Restore(id uint, actor UpdateActor, prov RequestProvenance) error {
	return s.transition(id, actor, prov, constants.AuditActionProductRestore, func(product *models.Product) (map[string]interface{}, error) {
		if !product.IsTrashed() {
			return nil, ErrNotFound
		}
		return map[string]interface{}{
			"status":     constants.ProductStatusDraft,
			"deleted_at": nil,
			"updated_at": time.Now(),
		}, nil
	})
}

// transition 回收站进出共用的条件写：版本照常 +1，审计同事务
func (s *ProductService) transition(
	id uint,
	actor UpdateActor,
	prov RequestProvenance,
	action string,
	plan func(product *models.Product) (map[string]interface{}, error),
) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	assignments, err := plan(product)
	if err != nil {
		return err
	}

	return s.productRepo.Transaction(func(tx *gorm.DB) error {
		txProducts := s.productRepo.WithTx(tx)
		txAudits := s.auditRepo.WithTx(tx)

		rows, err := txProducts.UpdateWithVersion(id, product.Version, assignments)
		if err != nil {
			return err
		}
		if rows == 0 {
			current, found, err := txProducts.CurrentVersion(id)
			if err != nil {
				return err
			}
			if !found {
				return ErrNotFound
			}
			return &VersionConflictError{Provided: product.Version, Current: current}
		}
		return txAudits.Create(&models.ProductAuditLog{
			ProductID:        id,
			OperatorAdminID:  actor.AdminID,
			OperatorUsername: actor.Username,
			Action:           action,
			FromVersion:      product.Version,
			ToVersion:        product.Version + 1,
			BeforeJSON:       models.JSON{"status": product.Status},
			AfterJSON:        models.JSON{"status": assignments["status"]},
			RequestID:        prov.RequestID,
			ClientIP:         prov.ClientIP,
			UserAgent:        prov.UserAgent,
		})
	})
}

func (s *ProductService) validateCreate(input *CreateProductInput) error {
	ve := newValidationError()
	if strings.TrimSpace(input.Name) == "" {
		ve.add("name", "must not be empty")
	}
	if input.ProductType == "" {
		input.ProductType = constants.ProductTypeSimple
	}
	if _, ok := productTypeSet[input.ProductType]; !ok {
		ve.add("product_type", "must be one of simple/variable/grouped/external")
	}
	if input.Status == "" {
		input.Status = constants.ProductStatusDraft
	}
	if _, ok := productStatusUpdateSet[input.Status]; !ok {
		ve.add("status", "must be one of draft/publish")
	}
	if input.ProductType == constants.ProductTypeSimple && !input.RegularPrice.IsPositive() {
		ve.add("regular_price", "must be positive for simple products")
	} else if input.RegularPrice.IsNegative() {
		ve.add("regular_price", "must not be negative")
	}
	if input.SalePrice.Set && input.SalePrice.Valid && !input.SalePrice.Money.LessThan(input.RegularPrice.Decimal) {
		ve.add("sale_price", "must be strictly less than regular_price")
	}
	if input.StockQuantity.Int() < 0 {
		ve.add("stock_quantity", "must be a non-negative integer")
	}
	if input.Backorders == "" {
		input.Backorders = constants.BackordersNo
	}
	if _, ok := backordersSet[input.Backorders]; !ok {
		ve.add("backorders", "must be one of no/notify/yes")
	}
	if len(input.Variants) > s.maxVariants {
		ve.add("variants", "too many variants")
	}
	if input.ProductType != constants.ProductTypeVariable && len(input.Variants) > 0 {
		ve.add("variants", "only variable products may carry variants")
	}
	if err := ve.orNil(); err != nil {
		return err
	}

	if len(input.CategoryIDs) > 0 {
		categories, err := s.categoryRepo.ListByIDs(input.CategoryIDs)
		if err != nil {
			return err
		}
		found := map[uint]struct{}{}
		for _, category := range categories {
			found[category.ID] = struct{}{}
		}
		var invalid []uint
		for _, id := range input.CategoryIDs {
			if _, ok := found[id]; !ok {
				invalid = append(invalid, id)
			}
		}
		if len(invalid) > 0 {
			return &ReferenceError{Field: "category_ids", InvalidIDs: invalid}
		}
	}
	return nil
}

// resolveSlug slug 缺省时从名称生成，冲突时追加序号
func (s *ProductService) resolveSlug(raw, name string) (string, error) {
	base := slug.Make(strings.TrimSpace(raw))
	if base == "" {
		base = slug.Make(name)
	}
	if base == "" {
		base = "product"
	}
	candidate := base
	for i := 2; ; i++ {
		count, err := s.productRepo.CountBySlug(candidate, nil)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *ProductService) buildProduct(input *CreateProductInput, productSlug string) *models.Product {
	sku := strings.TrimSpace(input.SKU)
	product := &models.Product{
		Version:          0,
		Name:             strings.TrimSpace(htmlStripper.Sanitize(input.Name)),
		Slug:             productSlug,
		ProductType:      input.ProductType,
		Status:           input.Status,
		Description:      htmlStripper.Sanitize(input.Description),
		ShortDescription: htmlStripper.Sanitize(input.ShortDescription),
		SKU:              sku,
		SKUNormalized:    normalizeSKU(sku),
		RegularPrice:     input.RegularPrice,
		CostPrice:        input.CostPrice,
		ManageStock:      input.ManageStock,
		StockQuantity:    input.StockQuantity.Int(),
		Backorders:       input.Backorders,
		Weight:           input.Weight,
		Length:           input.Length,
		Width:            input.Width,
		Height:           input.Height,
		CategoryIDs:      models.UintArray(input.CategoryIDs),
		Tags:             models.StringArray(input.Tags),
		Images:           models.StringArray(input.Images),
		AttributesJSON:   input.Attributes,
		MetaJSON:         input.Meta,
		SeoTitle:         strings.TrimSpace(input.SeoTitle),
		SeoDescription:   strings.TrimSpace(input.SeoDescription),
		Visibility:       input.Visibility,
		TaxStatus:        input.TaxStatus,
		TaxClass:         input.TaxClass,
	}
	if product.Visibility == "" {
		product.Visibility = constants.ProductVisibilityPublic
	}
	if input.SalePrice.Set && input.SalePrice.Valid {
		value := input.SalePrice.Money
		product.SalePrice = &value
	}
	if input.LowStockThreshold != nil {
		threshold := input.LowStockThreshold.Int()
		product.LowStockThreshold = &threshold
	}
	return product
}

func (s *ProductService) buildVariants(input *CreateProductInput, product *models.Product) []models.ProductVariant {
	canonical := map[string]string{}
	for _, attr := range product.AttributesJSON {
		canonical[attrKey(attr.Name)] = attr.Name
	}

	variants := make([]models.ProductVariant, 0, len(input.Variants))
	for _, in := range input.Variants {
		sku := strings.TrimSpace(in.SKU)
		spec := models.JSON{}
		for name, value := range in.Attributes {
			if canonicalName, ok := canonical[attrKey(name)]; ok {
				spec[canonicalName] = value
			}
		}
		variants = append(variants, models.ProductVariant{
			SKU:           sku,
			SKUNormalized: normalizeSKU(sku),
			Price:         in.Price,
			Stock:         in.Stock.Int(),
			SpecValues:    spec,
			SortOrder:     in.SortOrder,
		})
	}
	return variants
}

// applyCreateDerived 落库前补齐派生字段：生效价镜像、价格区间、
// 总库存、库存状态与体积重
func applyCreateDerived(product *models.Product, variants []models.ProductVariant) {
	product.Price = product.EffectivePrice()

	switch product.ProductType {
	case constants.ProductTypeVariable:
		var minPrice, maxPrice *models.Money
		total := 0
		for i := range variants {
			total += variants[i].Stock
			if !variants[i].Price.IsPositive() {
				continue
			}
			price := variants[i].Price
			if minPrice == nil || price.LessThan(minPrice.Decimal) {
				minPrice = &price
			}
			if maxPrice == nil || price.GreaterThan(maxPrice.Decimal) {
				maxPrice = &price
			}
		}
		product.MinPrice = minPrice
		product.MaxPrice = maxPrice
		product.TotalStock = total
		product.StockQuantity = total
	case constants.ProductTypeSimple:
		price := product.RegularPrice
		minPrice, maxPrice := price, price
		product.MinPrice = &minPrice
		product.MaxPrice = &maxPrice
	}

	if product.ManageStock || product.ProductType == constants.ProductTypeVariable {
		if product.StockQuantity > 0 {
			product.StockStatus = constants.StockStatusInStock
		} else if product.Backorders == constants.BackordersNo {
			product.StockStatus = constants.StockStatusOutOfStock
		} else {
			product.StockStatus = constants.StockStatusOnBackorder
		}
	} else if product.StockStatus == "" {
		product.StockStatus = constants.StockStatusInStock
	}

	if product.Length != nil && product.Width != nil && product.Height != nil &&
		product.Length.IsPositive() && product.Width.IsPositive() && product.Height.IsPositive() {
		volume := product.Length.Mul(product.Width.Decimal).Mul(product.Height.Decimal)
		weight := models.NewMoneyFromDecimal(volume.Div(volumetricDivisor))
		product.VolumetricWeight = &weight
	}
}

func translateCreateDuplicate(err error, input *CreateProductInput) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	if strings.TrimSpace(input.SKU) != "" || len(input.Variants) > 0 {
		return ErrSKUExists
	}
	return ErrSlugExists
}
