package router

import (
	"github.com/gin-gonic/gin"

	"github.com/gaubong-next/internal/config"
	adminhandlers "github.com/gaubong-next/internal/http/handlers/admin"
	publichandlers "github.com/gaubong-next/internal/http/handlers/public"
	"github.com/gaubong-next/internal/logger"
	"github.com/gaubong-next/internal/provider"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	api := r.Group("/api")
	{
		// 前台公开接口
		api.GET("/products", publicHandler.GetProducts)
		api.GET("/products/:slug", publicHandler.GetProduct)
		api.GET("/categories", publicHandler.GetCategories)

		// 管理端登录
		api.POST("/admin/login", adminHandler.Login)

		// 管理端接口（需鉴权）
		admin := api.Group("/admin")
		admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
		{
			admin.GET("/me", adminHandler.Me)

			admin.GET("/products", adminHandler.GetProducts)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PATCH("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.TrashProduct)
			admin.POST("/products/:id/restore", adminHandler.RestoreProduct)
			admin.GET("/products/:id/audit-logs", adminHandler.GetProductAuditLogs)

			admin.GET("/categories", adminHandler.GetCategories)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

			admin.GET("/orders", adminHandler.GetOrders)
			admin.POST("/orders", adminHandler.CreateOrder)
			admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)

			admin.GET("/audit-logs", adminHandler.GetAuditLogs)
		}
	}

	return r
}
