package cache

import (
	"context"
	"time"

	"github.com/gaubong-next/internal/logger"
	"github.com/gaubong-next/internal/models"
)

// ProductSnapshotStore 公开商品详情的快照缓存。
// 更新引擎提交后按 slug 失效，新旧 slug 都会清理。
type ProductSnapshotStore struct {
	ttl time.Duration
}

// NewProductSnapshotStore 创建商品快照缓存
func NewProductSnapshotStore(ttlSeconds int) *ProductSnapshotStore {
	if ttlSeconds <= 0 {
		ttlSeconds = 300
	}
	return &ProductSnapshotStore{ttl: time.Duration(ttlSeconds) * time.Second}
}

func snapshotKey(slug string) string {
	return "product:snapshot:" + slug
}

// Get 读取快照，未命中返回 nil
func (s *ProductSnapshotStore) Get(slug string) *models.Product {
	var product models.Product
	hit, err := GetJSON(context.Background(), snapshotKey(slug), &product)
	if err != nil {
		logger.Warnw("product_snapshot_get_failed", "slug", slug, "error", err)
		return nil
	}
	if !hit {
		return nil
	}
	return &product
}

// Set 写入快照
func (s *ProductSnapshotStore) Set(product *models.Product) {
	if product == nil || product.Slug == "" {
		return
	}
	if err := SetJSON(context.Background(), snapshotKey(product.Slug), product, s.ttl); err != nil {
		logger.Warnw("product_snapshot_set_failed", "slug", product.Slug, "error", err)
	}
}

// InvalidateProduct 按 slug 使快照失效
func (s *ProductSnapshotStore) InvalidateProduct(slugs ...string) {
	for _, slug := range slugs {
		if slug == "" {
			continue
		}
		if err := Del(context.Background(), snapshotKey(slug)); err != nil {
			logger.Warnw("product_snapshot_invalidate_failed", "slug", slug, "error", err)
		}
	}
}
