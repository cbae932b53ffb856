package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/gaubong-next/internal/constants"
	"github.com/gaubong-next/internal/logger"
	"github.com/gaubong-next/internal/models"
	"github.com/gaubong-next/internal/repository"
)

// UpdateActor 执行更新的操作者身份
type UpdateActor struct {
	AdminID  uint
	Username string
}

// RequestProvenance 请求来源信息，随审计记录落库
type RequestProvenance struct {
	RequestID string
	ClientIP  string
	UserAgent string
}

// SnapshotInvalidator 商品快照缓存失效（提交后调用）
type SnapshotInvalidator interface {
	InvalidateProduct(slugs ...string)
}

// StockAlertEnqueuer 库存告警任务入队（提交后调用）
type StockAlertEnqueuer interface {
	EnqueueStockAlert(productID uint, stockStatus string, stockQuantity int) error
}

// errNothingChanged 条件写命中但无实际修改，按无操作成功处理
var errNothingChanged = errors.New("nothing to change")

// ProductUpdateService 商品部分更新引擎：
// 校验 → 版本守卫 → 字段合并 → 库存同步 → 引用守卫 → 事务提交+审计。
// 同一商品的并发更新由版本条件写保证每个版本至多一个赢家。
type ProductUpdateService struct {
	productRepo repository.ProductRepository
	variantRepo repository.ProductVariantRepository
	auditRepo   repository.ProductAuditLogRepository
	guard       *referenceGuard
	limits      engineLimits
	cache       SnapshotInvalidator
	alerts      StockAlertEnqueuer
}

// NewProductUpdateService 创建商品更新引擎。
// cache 与 alerts 可为 nil，此时跳过对应的提交后动作。
func NewProductUpdateService(
	productRepo repository.ProductRepository,
	variantRepo repository.ProductVariantRepository,
	auditRepo repository.ProductAuditLogRepository,
	categoryRepo repository.CategoryRepository,
	orderRepo repository.OrderRepository,
	maxVariants int,
	cache SnapshotInvalidator,
	alerts StockAlertEnqueuer,
) *ProductUpdateService {
	if maxVariants <= 0 {
		maxVariants = constants.DefaultMaxVariants
	}
	return &ProductUpdateService{
		productRepo: productRepo,
		variantRepo: variantRepo,
		auditRepo:   auditRepo,
		guard:       newReferenceGuard(categoryRepo, orderRepo, productRepo),
		limits:      engineLimits{MaxVariants: maxVariants},
		cache:       cache,
		alerts:      alerts,
	}
}

// Update 对单个商品应用部分更新，成功返回提交后的最新快照。
// 错误类型约定：*ValidationError（逐字段）、*VersionConflictError（携带
// 当前版本）、ErrVersionRangeInvalid（可疑版本跳跃）、*SKULockedError
// （携带阻塞订单数）、*ReferenceError、ErrSKUExists/ErrSlugExists、
// ErrNotFound、ErrProductTrashed。
func (s *ProductUpdateService) Update(
	productID uint,
	input *UpdateProductInput,
	actor UpdateActor,
	prov RequestProvenance,
) (*models.Product, error) {
	if err := validateUpdateInput(input, s.limits); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if product.IsTrashed() {
		return nil, ErrProductTrashed
	}

	if err := s.guardVersion(product, input, actor, prov); err != nil {
		return nil, err
	}

	res := mergeUpdate(product, input)
	if err := validateMerged(res); err != nil {
		return nil, err
	}
	syncInventory(res)

	if err := s.guard.check(productID, res); err != nil {
		return nil, err
	}

	// 空写入计划按无操作成功返回，不提升版本、不产生审计
	if res.patch.empty() {
		return product, nil
	}

	baseVersion := product.Version
	if err := s.commit(productID, baseVersion, res, actor, prov); err != nil {
		if errors.Is(err, errNothingChanged) {
			return product, nil
		}
		return nil, err
	}

	updated, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	// 守卫逻辑下版本增量只可能为 1，出现其它增量属于契约违例
	if updated.Version != baseVersion+1 {
		logger.Errorw("product_version_delta_violation",
			"product_id", productID,
			"base_version", baseVersion,
			"committed_version", updated.Version,
		)
	}

	s.afterCommit(product, updated, res)
	return updated, nil
}

// guardVersion 版本守卫：落后即冲突，跳跃超过一步按疑似篡改拒绝
func (s *ProductUpdateService) guardVersion(
	product *models.Product,
	input *UpdateProductInput,
	actor UpdateActor,
	prov RequestProvenance,
) error {
	var provided *uint64
	if input.Version != nil {
		value := uint64(input.Version.Int())
		provided = &value
	}
	switch checkVersion(product.Version, provided) {
	case versionStale:
		return &VersionConflictError{Provided: *provided, Current: product.Version}
	case versionSuspicious:
		logger.Warnw("product_version_jump_rejected",
			"product_id", product.ID,
			"current_version", product.Version,
			"provided_version", *provided,
			"operator_admin_id", actor.AdminID,
			"client_ip", prov.ClientIP,
		)
		return ErrVersionRangeInvalid
	default:
		return nil
	}
}

// commit 单事务完成：版本条件写、变体行更新/清理、审计追加。
// 三者同生共死，不存在商品已变更但无审计记录的中间状态。
func (s *ProductUpdateService) commit(
	productID uint,
	baseVersion uint64,
	res *mergeResult,
	actor UpdateActor,
	prov RequestProvenance,
) error {
	res.patch.stamp(time.Now())

	return s.productRepo.Transaction(func(tx *gorm.DB) error {
		txProducts := s.productRepo.WithTx(tx)
		txVariants := s.variantRepo.WithTx(tx)
		txAudits := s.auditRepo.WithTx(tx)

		rows, err := txProducts.UpdateWithVersion(productID, baseVersion, res.patch.assignments)
		if err != nil {
			return s.translateDuplicate(err, res)
		}
		if rows == 0 {
			current, found, err := txProducts.CurrentVersion(productID)
			if err != nil {
				return err
			}
			if !found {
				return ErrNotFound
			}
			if current != baseVersion {
				// 并发写入者先行提交，这是乐观并发的预期结果
				conflict := &VersionConflictError{Provided: baseVersion, Current: current}
				return conflict
			}
			return errNothingChanged
		}

		if res.patch.purgeVariants {
			if err := txVariants.DeleteByProduct(productID); err != nil {
				return err
			}
		}
		for variantID, assignments := range res.patch.variantAssignments {
			if err := txVariants.UpdateFields(variantID, assignments); err != nil {
				return s.translateDuplicate(err, res)
			}
		}

		return txAudits.Create(s.buildAuditLog(productID, baseVersion, res, actor, prov))
	})
}

// translateDuplicate 存储层唯一冲突转换为对应字段的用户可见冲突错误。
// sqlite 与 postgres 的约束报错均携带列名/索引名，同时变更 SKU 与
// slug 时以报错文本判定冲突列。
func (s *ProductUpdateService) translateDuplicate(err error, res *mergeResult) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	skuTouched := false
	if _, ok := res.patch.assignments["sku"]; ok {
		skuTouched = true
	}
	for _, fields := range res.patch.variantAssignments {
		if _, ok := fields["sku"]; ok {
			skuTouched = true
			break
		}
	}
	if res.slugChanged && strings.Contains(err.Error(), "slug") {
		return ErrSlugExists
	}
	if skuTouched {
		return ErrSKUExists
	}
	if res.slugChanged {
		return ErrSlugExists
	}
	return err
}

// buildAuditLog 从字段变更清单构建审计记录
func (s *ProductUpdateService) buildAuditLog(
	productID uint,
	baseVersion uint64,
	res *mergeResult,
	actor UpdateActor,
	prov RequestProvenance,
) *models.ProductAuditLog {
	before := models.JSON{}
	after := models.JSON{}
	for _, change := range res.patch.changes {
		before[change.Field] = change.Before
		after[change.Field] = change.After
	}
	return &models.ProductAuditLog{
		ProductID:        productID,
		OperatorAdminID:  actor.AdminID,
		OperatorUsername: actor.Username,
		Action:           constants.AuditActionProductUpdate,
		FromVersion:      baseVersion,
		ToVersion:        baseVersion + 1,
		BeforeJSON:       before,
		AfterJSON:        after,
		RequestID:        prov.RequestID,
		ClientIP:         prov.ClientIP,
		UserAgent:        prov.UserAgent,
	}
}

// afterCommit 提交后的尽力而为动作：快照缓存失效与库存告警入队，
// 失败只记日志，不影响已提交的更新结果
func (s *ProductUpdateService) afterCommit(before, updated *models.Product, res *mergeResult) {
	if s.cache != nil {
		slugs := []string{updated.Slug}
		if before.Slug != updated.Slug {
			slugs = append(slugs, before.Slug)
		}
		s.cache.InvalidateProduct(slugs...)
	}

	if s.alerts == nil {
		return
	}
	if !shouldAlertStock(before, updated) {
		return
	}
	if err := s.alerts.EnqueueStockAlert(updated.ID, updated.StockStatus, updated.StockQuantity); err != nil {
		logger.Warnw("stock_alert_enqueue_failed",
			"product_id", updated.ID,
			"error", err,
		)
	}
}

// shouldAlertStock 库存跌破阈值或转为缺货时触发告警
func shouldAlertStock(before, updated *models.Product) bool {
	if updated.StockStatus == constants.StockStatusOutOfStock &&
		before.StockStatus != constants.StockStatusOutOfStock {
		return true
	}
	if updated.LowStockThreshold == nil {
		return false
	}
	threshold := *updated.LowStockThreshold
	return updated.StockQuantity <= threshold && before.StockQuantity > threshold
}
