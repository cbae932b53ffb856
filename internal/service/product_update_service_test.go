package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/gaubong-next/internal/constants"
	"github.com/gaubong-next/internal/models"
	"github.com/gaubong-next/internal/repository"
)

type snapshotRecorder struct {
	slugs []string
}

func (r *snapshotRecorder) InvalidateProduct(slugs ...string) {
	r.slugs = append(r.slugs, slugs...)
}

type stockAlertEvent struct {
	ProductID     uint
	StockStatus   string
	StockQuantity int
}

type alertRecorder struct {
	events []stockAlertEvent
}

func (r *alertRecorder) EnqueueStockAlert(productID uint, stockStatus string, stockQuantity int) error {
	r.events = append(r.events, stockAlertEvent{
		ProductID:     productID,
		StockStatus:   stockStatus,
		StockQuantity: stockQuantity,
	})
	return nil
}

func setupUpdateServiceTest(t *testing.T) (*ProductUpdateService, *gorm.DB, *snapshotRecorder, *alertRecorder) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.ProductVariant{},
		&models.Category{},
		&models.Order{},
		&models.OrderItem{},
		&models.ProductAuditLog{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	snapshots := &snapshotRecorder{}
	alerts := &alertRecorder{}
	svc := NewProductUpdateService(
		repository.NewProductRepository(db),
		repository.NewProductVariantRepository(db),
		repository.NewProductAuditLogRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewOrderRepository(db),
		100,
		snapshots,
		alerts,
	)
	return svc, db, snapshots, alerts
}

func seedUpdateProduct(t *testing.T, db *gorm.DB, slug, sku string, mutate func(*models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          "Gấu bông " + slug,
		Slug:          slug,
		ProductType:   constants.ProductTypeSimple,
		Status:        constants.ProductStatusPublish,
		RegularPrice:  models.NewMoneyFromInt(350000),
		Price:         models.NewMoneyFromInt(350000),
		ManageStock:   true,
		StockQuantity: 10,
		StockStatus:   constants.StockStatusInStock,
		Backorders:    constants.BackordersNo,
	}
	if sku != "" {
		product.SKU = sku
		product.SKUNormalized = normalizeSKU(sku)
	}
	if mutate != nil {
		mutate(product)
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product %s failed: %v", slug, err)
	}
	return product
}

func seedOrderWithSKU(t *testing.T, db *gorm.DB, orderNo, sku, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:     orderNo,
		Status:      status,
		Currency:    "VND",
		TotalAmount: models.NewMoneyFromInt(350000),
		Items: []models.OrderItem{{
			ProductID: 1,
			SKU:       sku,
			Name:      "Gấu bông",
			Quantity:  1,
			UnitPrice: models.NewMoneyFromInt(350000),
		}},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order %s failed: %v", orderNo, err)
	}
	return order
}

func countAuditLogs(t *testing.T, db *gorm.DB, productID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.ProductAuditLog{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		t.Fatalf("count audit logs failed: %v", err)
	}
	return count
}

var testActor = UpdateActor{AdminID: 1, Username: "admin"}

var testProv = RequestProvenance{RequestID: "req-test", ClientIP: "127.0.0.1", UserAgent: "go-test"}

func TestUpdateIncrementsVersionAndWritesAudit(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	product := seedUpdateProduct(t, db, "audit-version-1", "GB-AUDIT-1", nil)

	updated, err := svc.Update(product.ID, &UpdateProductInput{
		Version: flexPtr(int(product.Version)),
		Name:    strPtr("Gấu bông Teddy cao cấp"),
	}, testActor, testProv)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Version != product.Version+1 {
		t.Fatalf("version want %d got %d", product.Version+1, updated.Version)
	}
	if updated.Name != "Gấu bông Teddy cao cấp" {
		t.Fatalf("name not persisted: %q", updated.Name)
	}

	var log models.ProductAuditLog
	if err := db.Where("product_id = ?", product.ID).First(&log).Error; err != nil {
		t.Fatalf("audit log missing: %v", err)
	}
	if log.Action != constants.AuditActionProductUpdate {
		t.Fatalf("action want %s got %s", constants.AuditActionProductUpdate, log.Action)
	}
	if log.FromVersion != product.Version || log.ToVersion != product.Version+1 {
		t.Fatalf("audit versions want %d->%d got %d->%d",
			product.Version, product.Version+1, log.FromVersion, log.ToVersion)
	}
	if log.BeforeJSON["name"] != product.Name {
		t.Fatalf("audit before want %q got %v", product.Name, log.BeforeJSON["name"])
	}
	if log.AfterJSON["name"] != "Gấu bông Teddy cao cấp" {
		t.Fatalf("audit after want new name got %v", log.AfterJSON["name"])
	}
	if log.RequestID != testProv.RequestID || log.OperatorAdminID != testActor.AdminID {
		t.Fatalf("audit provenance mismatch: %+v", log)
	}
}

func TestUpdateWithoutVersionIsBestEffort(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	product := seedUpdateProduct(t, db, "best-effort-1", "", nil)

	updated, err := svc.Update(product.ID, &UpdateProductInput{
		Name: strPtr("Gấu bông không kèm phiên bản"),
	}, testActor, testProv)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Version != product.Version+1 {
		t.Fatalf("version want %d got %d", product.Version+1, updated.Version)
	}
}

func TestUpdateAcceptsCurrentPlusOne(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	product := seedUpdateProduct(t, db, "retry-plus-one", "", nil)

	// 客户端重试场景：携带乐观预期的下一个版本号
	if _, err := svc.Update(product.ID, &UpdateProductInput{
		Version: flexPtr(int(product.Version) + 1),
		Name:    strPtr("Gấu bông thử lại"),
	}, testActor, testProv); err != nil {
		t.Fatalf("update with current+1 must succeed, got %v", err)
	}
}

func TestUpdateStaleVersionConflict(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	product := seedUpdateProduct(t, db, "stale-version", "", nil)

	if _, err := svc.Update(product.ID, &UpdateProductInput{
		Name: strPtr("Phiên bản đầu"),
	}, testActor, testProv); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	_, err := svc.Update(product.ID, &UpdateProductInput{
		Version: flexPtr(int(product.Version)),
		Name:    strPtr("Phiên bản cũ"),
	}, testActor, testProv)
	var conflict *VersionConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("want *VersionConflictError got %v", err)
	}
	if conflict.Current != product.Version+1 || conflict.Provided != product.Version {
		t.Fatalf("conflict payload want provided=%d current=%d got %+v",
			product.Version, product.Version+1, conflict)
	}
	if got := countAuditLogs(t, db, product.ID); got != 1 {
		t.Fatalf("conflict must not append audit, count want 1 got %d", got)
	}
}

func TestUpdateSuspiciousVersionJumpRejected(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	product := seedUpdateProduct(t, db, "version-jump", "", nil)

	_, err := svc.Update(product.ID, &UpdateProductInput{
		Version: flexPtr(int(product.Version) + 2),
		Name:    strPtr("Gấu bông tương lai"),
	}, testActor, testProv)
	if !errors.Is(err, ErrVersionRangeInvalid) {
		t.Fatalf("want ErrVersionRangeInvalid got %v", err)
	}
	if got := countAuditLogs(t, db, product.ID); got != 0 {
		t.Fatalf("rejected update must not touch storage, audit count got %d", got)
	}
}

func TestUpdateIdempotentReapplyConflicts(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	product := seedUpdateProduct(t, db, "reapply-once", "", nil)

	payload := &UpdateProductInput{
		Version: flexPtr(int(product.Version)),
		Name:    strPtr("Gấu bông chỉ một lần"),
	}
	if _, err := svc.Update(product.ID, payload, testActor, testProv); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}

	// 同一载荷重放：版本守卫先于无变更判定，稳定返回冲突
	_, err := svc.Update(product.ID, payload, testActor, testProv)
	var conflict *VersionConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("replay want *VersionConflictError got %v", err)
	}
}

func TestUpdateNoopWithoutEffect(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	product := seedUpdateProduct(t, db, "noop-update", "", nil)

	updated, err := svc.Update(product.ID, &UpdateProductInput{
		Name: strPtr(product.Name),
	}, testActor, testProv)
	if err != nil {
		t.Fatalf("noop update failed: %v", err)
	}
	if updated.Version != product.Version {
		t.Fatalf("noop must not bump version, want %d got %d", product.Version, updated.Version)
	}
	if got := countAuditLogs(t, db, product.ID); got != 0 {
		t.Fatalf("noop must not append audit, count got %d", got)
	}
}

func TestUpdateSKULockedByUnsettledOrder(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	product := seedUpdateProduct(t, db, "sku-lock", "GB-LOCK-1", nil)
	order := seedOrderWithSKU(t, db, "GB-ORDER-LOCK-1", "GB-LOCK-1", constants.OrderStatusPending)

	_, err := svc.Update(product.ID, &UpdateProductInput{
		SKU: strPtr("GB-LOCK-2"),
	}, testActor, testProv)
	var locked *SKULockedError
	if !errors.As(err, &locked) {
		t.Fatalf("want *SKULockedError got %v", err)
	}
	if locked.SKU != "GB-LOCK-1" || locked.BlockingOrders != 1 {
		t.Fatalf("lock payload want sku=GB-LOCK-1 blocking=1 got %+v", locked)
	}

	// 订单结清（取消）后解锁
	if err := db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", constants.OrderStatusCanceled).Error; err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}
	if _, err := svc.Update(product.ID, &UpdateProductInput{
		SKU: strPtr("GB-LOCK-2"),
	}, testActor, testProv); err != nil {
		t.Fatalf("update after settlement must succeed, got %v", err)
	}
}

func TestUpdateDuplicateSlugRejected(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	seedUpdateProduct(t, db, "slug-taken", "", nil)
	product := seedUpdateProduct(t, db, "slug-free", "", nil)

	_, err := svc.Update(product.ID, &UpdateProductInput{
		Slug: strPtr("slug-taken"),
	}, testActor, testProv)
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("want ErrSlugExists got %v", err)
	}
}

func TestUpdateDuplicateSKUTranslated(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	seedUpdateProduct(t, db, "sku-dup-a", "GB-DUP-A", nil)
	product := seedUpdateProduct(t, db, "sku-dup-b", "GB-DUP-B", nil)

	// 大小写不同但规范化后相同，唯一索引在提交时兜底
	_, err := svc.Update(product.ID, &UpdateProductInput{
		SKU: strPtr("gb-dup-a"),
	}, testActor, testProv)
	if !errors.Is(err, ErrSKUExists) {
		t.Fatalf("want ErrSKUExists got %v", err)
	}
}

func TestUpdateClearedSKUsAreNotUnique(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	first := seedUpdateProduct(t, db, "sku-clear-a", "GB-CLEAR-A", nil)
	second := seedUpdateProduct(t, db, "sku-clear-b", "GB-CLEAR-B", nil)

	for _, product := range []*models.Product{first, second} {
		if _, err := svc.Update(product.ID, &UpdateProductInput{
			SKU: strPtr(""),
		}, testActor, testProv); err != nil {
			t.Fatalf("clearing sku on %s failed: %v", product.Slug, err)
		}
	}

	var count int64
	if err := db.Model(&models.Product{}).
		Where("id IN ? AND sku_normalized IS NULL", []uint{first.ID, second.ID}).
		Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("cleared skus want 2 NULL rows got %d", count)
	}
}

func TestUpdateUnknownCategoryRejected(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	category := &models.Category{Slug: "cat-known", Name: "Gấu bông Teddy"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("seed category failed: %v", err)
	}
	product := seedUpdateProduct(t, db, "category-check", "", nil)

	ids := []uint{category.ID, 9999}
	_, err := svc.Update(product.ID, &UpdateProductInput{
		CategoryIDs: &ids,
	}, testActor, testProv)
	var refErr *ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("want *ReferenceError got %v", err)
	}
	if refErr.Field != "category_ids" || len(refErr.InvalidIDs) != 1 || refErr.InvalidIDs[0] != 9999 {
		t.Fatalf("reference error want category_ids [9999] got %+v", refErr)
	}
}

func TestUpdateUnknownVariantRejected(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	product := seedUpdateProduct(t, db, "variant-check", "", func(p *models.Product) {
		p.ProductType = constants.ProductTypeVariable
	})

	_, err := svc.Update(product.ID, &UpdateProductInput{
		Variants: []UpdateVariantInput{{ID: 777, Stock: flexPtr(3)}},
	}, testActor, testProv)
	var refErr *ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("want *ReferenceError got %v", err)
	}
	if refErr.Field != "variants" || len(refErr.InvalidIDs) != 1 || refErr.InvalidIDs[0] != 777 {
		t.Fatalf("reference error want variants [777] got %+v", refErr)
	}
}

func TestUpdateTrashedProductRejected(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	now := time.Now()
	product := seedUpdateProduct(t, db, "trashed-product", "", func(p *models.Product) {
		p.Status = constants.ProductStatusTrash
		p.DeletedAt = &now
	})

	_, err := svc.Update(product.ID, &UpdateProductInput{
		Name: strPtr("Không sửa được"),
	}, testActor, testProv)
	if !errors.Is(err, ErrProductTrashed) {
		t.Fatalf("want ErrProductTrashed got %v", err)
	}
}

func TestUpdateMissingProduct(t *testing.T) {
	svc, _, _, _ := setupUpdateServiceTest(t)
	_, err := svc.Update(987654, &UpdateProductInput{Name: strPtr("x")}, testActor, testProv)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}

func TestUpdateVariantAggregatesPersisted(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	product := seedUpdateProduct(t, db, "variable-aggregates", "", func(p *models.Product) {
		p.ProductType = constants.ProductTypeVariable
		p.AttributesJSON = models.AttributeList{{Name: "Kích cỡ", Visible: true}}
	})
	variants := []models.ProductVariant{
		{ProductID: product.ID, SKU: "GB-AGG-40", SKUNormalized: normalizeSKU("GB-AGG-40"),
			Price: models.NewMoneyFromInt(120000), Stock: 2, SpecValues: models.JSON{"Kích cỡ": "40cm"}},
		{ProductID: product.ID, SKU: "GB-AGG-60", SKUNormalized: normalizeSKU("GB-AGG-60"),
			Price: models.NewMoneyFromInt(150000), Stock: 0, SpecValues: models.JSON{"Kích cỡ": "60cm"}},
		{ProductID: product.ID, SKU: "GB-AGG-80", SKUNormalized: normalizeSKU("GB-AGG-80"),
			Price: models.NewMoneyFromInt(99000), Stock: 4, SpecValues: models.JSON{"Kích cỡ": "80cm"}},
	}
	for i := range variants {
		if err := db.Create(&variants[i]).Error; err != nil {
			t.Fatalf("seed variant failed: %v", err)
		}
	}

	updated, err := svc.Update(product.ID, &UpdateProductInput{
		Variations: []VariationInput{{
			ID:         variants[2].ID,
			Stock:      flexPtr(5),
			Attributes: map[string]string{"kich co": "80cm"},
		}},
	}, testActor, testProv)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.TotalStock != 7 || updated.StockQuantity != 7 {
		t.Fatalf("aggregates want total=7 qty=7 got total=%d qty=%d",
			updated.TotalStock, updated.StockQuantity)
	}
	if updated.MinPrice == nil || updated.MinPrice.String() != "99000.00" {
		t.Fatalf("min_price want 99000.00 got %v", updated.MinPrice)
	}
	if updated.MaxPrice == nil || updated.MaxPrice.String() != "150000.00" {
		t.Fatalf("max_price want 150000.00 got %v", updated.MaxPrice)
	}

	var variant models.ProductVariant
	if err := db.First(&variant, variants[2].ID).Error; err != nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if variant.Stock != 5 {
		t.Fatalf("variant stock want 5 got %d", variant.Stock)
	}
}

func TestUpdateTypeChangeDeletesVariantRows(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	product := seedUpdateProduct(t, db, "ghost-cleanup", "", func(p *models.Product) {
		p.ProductType = constants.ProductTypeVariable
	})
	variant := &models.ProductVariant{
		ProductID: product.ID, SKU: "GB-GHOST-1", SKUNormalized: normalizeSKU("GB-GHOST-1"),
		Price: models.NewMoneyFromInt(120000), Stock: 3,
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("seed variant failed: %v", err)
	}

	productType := constants.ProductTypeSimple
	updated, err := svc.Update(product.ID, &UpdateProductInput{
		ProductType: &productType,
	}, testActor, testProv)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.TotalStock != 0 {
		t.Fatalf("total_stock want 0 got %d", updated.TotalStock)
	}

	var count int64
	if err := db.Model(&models.ProductVariant{}).
		Where("product_id = ?", product.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count variants failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("ghost variants want deleted got %d rows", count)
	}
}

func TestUpdateAfterCommitHooks(t *testing.T) {
	svc, db, snapshots, alerts := setupUpdateServiceTest(t)
	product := seedUpdateProduct(t, db, "hook-source", "", nil)

	if _, err := svc.Update(product.ID, &UpdateProductInput{
		Slug:          strPtr("hook-renamed"),
		StockQuantity: flexPtr(0),
	}, testActor, testProv); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	wantSlugs := map[string]bool{"hook-source": false, "hook-renamed": false}
	for _, slug := range snapshots.slugs {
		if _, ok := wantSlugs[slug]; ok {
			wantSlugs[slug] = true
		}
	}
	for slug, seen := range wantSlugs {
		if !seen {
			t.Fatalf("snapshot invalidation missing slug %s (got %v)", slug, snapshots.slugs)
		}
	}

	if len(alerts.events) != 1 {
		t.Fatalf("stock alert want 1 event got %d", len(alerts.events))
	}
	event := alerts.events[0]
	if event.ProductID != product.ID || event.StockStatus != constants.StockStatusOutOfStock {
		t.Fatalf("alert payload mismatch: %+v", event)
	}
}

func TestUpdatePersistsJSONColumns(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	categories := []models.Category{
		{Slug: "cat-json-a", Name: "Gấu bông lớn"},
		{Slug: "cat-json-b", Name: "Gấu bông nhỏ"},
	}
	for i := range categories {
		if err := db.Create(&categories[i]).Error; err != nil {
			t.Fatalf("seed category failed: %v", err)
		}
	}
	product := seedUpdateProduct(t, db, "json-columns", "GB-JSON-1", func(p *models.Product) {
		p.MetaJSON = models.JSON{"origin": "Việt Nam"}
	})

	categoryIDs := []uint{categories[0].ID, categories[1].ID}
	tags := []string{"teddy", "qua-tang"}
	images := []string{"https://cdn.example.com/teddy-1.jpg"}
	if _, err := svc.Update(product.ID, &UpdateProductInput{
		CategoryIDs: &categoryIDs,
		Tags:        &tags,
		Images:      &images,
		Meta:        models.JSON{"badge": "moi-ve"},
	}, testActor, testProv); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if len(reloaded.CategoryIDs) != 2 ||
		!reloaded.CategoryIDs.Contains(categories[0].ID) ||
		!reloaded.CategoryIDs.Contains(categories[1].ID) {
		t.Fatalf("category_ids want %v got %v", categoryIDs, reloaded.CategoryIDs)
	}
	if len(reloaded.Tags) != 2 || reloaded.Tags[0] != "teddy" || reloaded.Tags[1] != "qua-tang" {
		t.Fatalf("tags want %v got %v", tags, reloaded.Tags)
	}
	if len(reloaded.Images) != 1 || reloaded.Images[0] != images[0] {
		t.Fatalf("images want %v got %v", images, reloaded.Images)
	}
	if reloaded.MetaJSON["origin"] != "Việt Nam" || reloaded.MetaJSON["badge"] != "moi-ve" {
		t.Fatalf("meta deep merge not persisted: %v", reloaded.MetaJSON)
	}
}

func TestUpdatePersistsVariantSpecValues(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	product := seedUpdateProduct(t, db, "variation-spec-persist", "", func(p *models.Product) {
		p.ProductType = constants.ProductTypeVariable
		p.AttributesJSON = models.AttributeList{{Name: "Kích cỡ", Visible: true}}
	})
	variant := &models.ProductVariant{
		ProductID: product.ID, SKU: "GB-SPEC-1", SKUNormalized: normalizeSKU("GB-SPEC-1"),
		Price: models.NewMoneyFromInt(150000), Stock: 3,
		SpecValues: models.JSON{"Kích cỡ": "60cm"},
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("seed variant failed: %v", err)
	}

	if _, err := svc.Update(product.ID, &UpdateProductInput{
		Variations: []VariationInput{{
			ID:         variant.ID,
			Attributes: map[string]string{"kich co": "80cm"},
		}},
	}, testActor, testProv); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	var reloaded models.ProductVariant
	if err := db.First(&reloaded, variant.ID).Error; err != nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if reloaded.SpecValues["Kích cỡ"] != "80cm" {
		t.Fatalf("spec_values want 80cm got %v", reloaded.SpecValues)
	}
}

func TestUpdateSimpleRequiresPositiveRegularPrice(t *testing.T) {
	svc, db, _, _ := setupUpdateServiceTest(t)
	product := seedUpdateProduct(t, db, "zero-price-update", "GB-ZERO-1", nil)

	_, err := svc.Update(product.ID, &UpdateProductInput{
		RegularPrice: moneyPtr(0),
	}, testActor, testProv)
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("want *ValidationError got %v", err)
	}
	if _, ok := ve.Fields["regular_price"]; !ok {
		t.Fatalf("missing regular_price error: %v", ve.Fields)
	}

	// 历史零价商品的无关字段更新不受阻塞
	legacy := seedUpdateProduct(t, db, "zero-price-legacy", "GB-ZERO-2", func(p *models.Product) {
		p.RegularPrice = models.NewMoneyFromInt(0)
		p.Price = models.NewMoneyFromInt(0)
	})
	if _, err := svc.Update(legacy.ID, &UpdateProductInput{
		Name: strPtr("Gấu bông giá cũ đổi tên"),
	}, testActor, testProv); err != nil {
		t.Fatalf("unrelated update on legacy product failed: %v", err)
	}
}

func TestTranslateDuplicateDistinguishesSlugAndSKU(t *testing.T) {
	svc := &ProductUpdateService{}
	res := &mergeResult{patch: newProductPatch(), slugChanged: true}
	res.patch.assignments["sku"] = "GB-DUAL-1"

	slugErr := fmt.Errorf("%w: UNIQUE constraint failed: products.slug", gorm.ErrDuplicatedKey)
	if got := svc.translateDuplicate(slugErr, res); !errors.Is(got, ErrSlugExists) {
		t.Fatalf("slug conflict want ErrSlugExists got %v", got)
	}

	skuErr := fmt.Errorf("%w: UNIQUE constraint failed: products.sku_normalized", gorm.ErrDuplicatedKey)
	if got := svc.translateDuplicate(skuErr, res); !errors.Is(got, ErrSKUExists) {
		t.Fatalf("sku conflict want ErrSKUExists got %v", got)
	}
}
