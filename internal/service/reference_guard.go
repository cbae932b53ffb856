package service

import (
	"sort"

	"github.com/gaubong-next/internal/repository"
)

// referenceGuard 提交前的关联校验：分类存在性、变体归属、
// SKU 未结订单锁与 slug 唯一性。任一检查失败整个更新中止，
// 不产生任何部分写入。
type referenceGuard struct {
	categoryRepo repository.CategoryRepository
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
}

func newReferenceGuard(
	categoryRepo repository.CategoryRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) *referenceGuard {
	return &referenceGuard{
		categoryRepo: categoryRepo,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
	}
}

// check 依序执行全部关联检查
func (g *referenceGuard) check(productID uint, res *mergeResult) error {
	if err := g.checkVariantOwnership(res); err != nil {
		return err
	}
	if err := g.checkCategories(res); err != nil {
		return err
	}
	if err := g.checkSKULock(res); err != nil {
		return err
	}
	return g.checkSlug(productID, res)
}

// checkVariantOwnership 变体 ID 必须已存在于商品自身的变体集合，
// 未知 ID 一律拒绝，绝不隐式创建
func (g *referenceGuard) checkVariantOwnership(res *mergeResult) error {
	if len(res.unknownVariantIDs) == 0 {
		return nil
	}
	ids := append([]uint(nil), res.unknownVariantIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &ReferenceError{Field: "variants", InvalidIDs: ids}
}

// checkCategories 引用的分类必须全部存在且未删除，
// 失败时返回完整的无效 ID 列表
func (g *referenceGuard) checkCategories(res *mergeResult) error {
	if !res.categoryIDsSet || len(res.categoryIDs) == 0 {
		return nil
	}
	categories, err := g.categoryRepo.ListByIDs(res.categoryIDs)
	if err != nil {
		return err
	}
	found := map[uint]struct{}{}
	for _, category := range categories {
		found[category.ID] = struct{}{}
	}
	var invalid []uint
	for _, id := range res.categoryIDs {
		if _, ok := found[id]; !ok {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		return &ReferenceError{Field: "category_ids", InvalidIDs: invalid}
	}
	return nil
}

// checkSKULock SKU 改为其它非空值时，旧 SKU 不得被未结算订单
// （pending / awaiting_payment / confirmed）引用。该检查相对并发下单
// 只有建议级一致性：检查与提交之间理论上可能插入新订单，属于已接受的
// 低概率窗口，不加全局锁。
func (g *referenceGuard) checkSKULock(res *mergeResult) error {
	var oldSKUs []string
	for _, change := range res.skuChanges {
		if change.Old == "" || change.Old == change.New {
			continue
		}
		oldSKUs = append(oldSKUs, change.Old)
	}
	if len(oldSKUs) == 0 {
		return nil
	}
	blocking, err := g.orderRepo.CountUnsettledBySKU(oldSKUs)
	if err != nil {
		return err
	}
	if blocking > 0 {
		return &SKULockedError{SKU: oldSKUs[0], BlockingOrders: blocking}
	}
	return nil
}

// checkSlug slug 变更时不得与其它未删除商品冲突
func (g *referenceGuard) checkSlug(productID uint, res *mergeResult) error {
	if !res.slugChanged {
		return nil
	}
	count, err := g.productRepo.CountBySlug(res.merged.Slug, &productID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	return nil
}
