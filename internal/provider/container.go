package provider

import (
	"github.com/gaubong-next/internal/cache"
	"github.com/gaubong-next/internal/config"
	"github.com/gaubong-next/internal/logger"
	"github.com/gaubong-next/internal/models"
	"github.com/gaubong-next/internal/queue"
	"github.com/gaubong-next/internal/repository"
	"github.com/gaubong-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config        *config.Config
	QueueClient   *queue.Client
	SnapshotStore *cache.ProductSnapshotStore

	// Repositories
	AdminRepo    repository.AdminRepository
	ProductRepo  repository.ProductRepository
	VariantRepo  repository.ProductVariantRepository
	CategoryRepo repository.CategoryRepository
	OrderRepo    repository.OrderRepository
	AuditRepo    repository.ProductAuditLogRepository

	// Services
	AuthService          *service.AuthService
	ProductService       *service.ProductService
	ProductUpdateService *service.ProductUpdateService
	CategoryService      *service.CategoryService
	OrderService         *service.OrderService
	AuditService         *service.AuditService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:        cfg,
		QueueClient:   queueClient,
		SnapshotStore: cache.NewProductSnapshotStore(cfg.Catalog.SnapshotCacheTTLSeconds),
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewProductVariantRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.AuditRepo = repository.NewProductAuditLogRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.ProductService = service.NewProductService(
		c.ProductRepo,
		c.VariantRepo,
		c.AuditRepo,
		c.CategoryRepo,
		c.Config.Catalog.MaxVariants,
	)
	c.ProductUpdateService = service.NewProductUpdateService(
		c.ProductRepo,
		c.VariantRepo,
		c.AuditRepo,
		c.CategoryRepo,
		c.OrderRepo,
		c.Config.Catalog.MaxVariants,
		c.SnapshotStore,
		c.QueueClient,
	)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo)
	c.AuditService = service.NewAuditService(c.AuditRepo)
}
