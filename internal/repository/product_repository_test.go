package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/gaubong-next/internal/constants"
	"github.com/gaubong-next/internal/models"
)

func setupProductRepositoryTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductVariant{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewProductRepository(db), db
}

func createTestProduct(t *testing.T, repo *GormProductRepository, slug string, version uint64) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:         "Gấu bông " + slug,
		Slug:         slug,
		Version:      version,
		ProductType:  constants.ProductTypeSimple,
		Status:       constants.ProductStatusPublish,
		RegularPrice: models.NewMoneyFromInt(350000),
		Price:        models.NewMoneyFromInt(350000),
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestUpdateWithVersionConditionalWrite(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "conditional-write", 4)

	rows, err := repo.UpdateWithVersion(product.ID, 4, map[string]interface{}{
		"name": "Gấu bông đổi tên",
	})
	if err != nil {
		t.Fatalf("conditional update failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("rows want 1 got %d", rows)
	}

	// 版本号与业务列在同一条语句内推进
	version, found, err := repo.CurrentVersion(product.ID)
	if err != nil || !found {
		t.Fatalf("current version lookup failed: %v found=%v", err, found)
	}
	if version != 5 {
		t.Fatalf("version want 5 got %d", version)
	}

	// 基于过期版本的条件写必须落空
	rows, err = repo.UpdateWithVersion(product.ID, 4, map[string]interface{}{
		"name": "Gấu bông ghi đè",
	})
	if err != nil {
		t.Fatalf("stale conditional update failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("stale write rows want 0 got %d", rows)
	}

	reloaded, err := repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Name != "Gấu bông đổi tên" {
		t.Fatalf("stale write must not mutate, name got %q", reloaded.Name)
	}
}

func TestUpdateWithVersionRejectsEmptyAssignments(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "empty-assignments", 0)

	if _, err := repo.UpdateWithVersion(product.ID, 0, map[string]interface{}{}); err == nil {
		t.Fatal("empty assignments must be rejected")
	}
	if _, err := repo.UpdateWithVersion(0, 0, map[string]interface{}{"name": "x"}); err == nil {
		t.Fatal("zero product id must be rejected")
	}
}

func TestCurrentVersionMissingProduct(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	_, found, err := repo.CurrentVersion(424242)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if found {
		t.Fatal("missing product must report found=false")
	}
}

func TestCountBySlugExcludesTrashAndSelf(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "slug-count", 0)

	count, err := repo.CountBySlug("slug-count", nil)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("count want 1 got %d", count)
	}

	// 排除自身：改名冲突检查不把自己算作占用者
	count, err = repo.CountBySlug("slug-count", &product.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("self-excluded count want 0 got %d", count)
	}

	// 回收站内的商品不占用 slug
	if err := db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("status", constants.ProductStatusTrash).Error; err != nil {
		t.Fatalf("trash product failed: %v", err)
	}
	count, err = repo.CountBySlug("slug-count", nil)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("trashed count want 0 got %d", count)
	}
}

func TestGetByIDReturnsNilForMissing(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	product, err := repo.GetByID(999999)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if product != nil {
		t.Fatalf("missing product want nil got %+v", product)
	}
}
