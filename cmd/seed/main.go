package main

import (
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gaubong-next/internal/config"
	"github.com/gaubong-next/internal/constants"
	"github.com/gaubong-next/internal/logger"
	"github.com/gaubong-next/internal/models"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	// 分类
	categories := []models.Category{
		{Name: "Gấu bông Teddy", Slug: "gau-bong-teddy", SortOrder: 1},
		{Name: "Thú bông hoạt hình", Slug: "thu-bong-hoat-hinh", SortOrder: 2},
		{Name: "Phụ kiện", Slug: "phu-kien", SortOrder: 3},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"gau-bong-teddy", "thu-bong-hoat-hinh", "phu-kien"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}
	teddyID := categoryIDs["gau-bong-teddy"]
	cartoonID := categoryIDs["thu-bong-hoat-hinh"]

	// 简单商品：固定价、自管库存
	simpleSKU := "GB-TEDDY-1M"
	simplePrice := models.NewMoneyFromDecimal(decimal.NewFromInt(350000))
	simple := models.Product{
		Version:       0,
		Name:          "Gấu bông Teddy 1m",
		Slug:          "gau-bong-teddy-1m",
		ProductType:   constants.ProductTypeSimple,
		Status:        constants.ProductStatusPublish,
		Description:   "Gấu bông Teddy cao 1m, lông mịn, bông gòn trắng đàn hồi.",
		SKU:           simpleSKU,
		RegularPrice:  simplePrice,
		Price:         simplePrice,
		ManageStock:   true,
		StockQuantity: 25,
		StockStatus:   constants.StockStatusInStock,
		Backorders:    constants.BackordersNo,
		CategoryIDs:   models.UintArray{teddyID},
		Tags:          models.StringArray{"teddy", "1m"},
		Visibility:    constants.ProductVisibilityPublic,
	}
	normalized := simpleSKU
	simple.SKUNormalized = &normalized
	minPrice, maxPrice := simplePrice, simplePrice
	simple.MinPrice = &minPrice
	simple.MaxPrice = &maxPrice
	seedProduct(&simple, nil, stdLog)

	// variable 商品：按尺寸分变体
	variable := models.Product{
		Version:     0,
		Name:        "Gấu bông Capybara",
		Slug:        "gau-bong-capybara",
		ProductType: constants.ProductTypeVariable,
		Status:      constants.ProductStatusPublish,
		Description: "Capybara nhồi bông nhiều kích cỡ, mềm mịn dễ ôm.",
		ManageStock: true,
		Backorders:  constants.BackordersNo,
		CategoryIDs: models.UintArray{cartoonID},
		Tags:        models.StringArray{"capybara"},
		Visibility:  constants.ProductVisibilityPublic,
		AttributesJSON: models.AttributeList{
			{Name: "Kích cỡ", Options: []string{"40cm", "60cm", "80cm"}, Visible: true},
		},
	}
	variants := []models.ProductVariant{
		{SKU: "GB-CAPY-40", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(120000)), Stock: 10, SpecValues: models.JSON{"Kích cỡ": "40cm"}, SortOrder: 3},
		{SKU: "GB-CAPY-60", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(180000)), Stock: 6, SpecValues: models.JSON{"Kích cỡ": "60cm"}, SortOrder: 2},
		{SKU: "GB-CAPY-80", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(260000)), Stock: 0, SpecValues: models.JSON{"Kích cỡ": "80cm"}, SortOrder: 1},
	}
	for i := range variants {
		sku := variants[i].SKU
		variants[i].SKUNormalized = &sku
	}
	vMin := variants[0].Price
	vMax := variants[2].Price
	variable.MinPrice = &vMin
	variable.MaxPrice = &vMax
	variable.TotalStock = 16
	variable.StockQuantity = 16
	variable.StockStatus = constants.StockStatusInStock
	seedProduct(&variable, variants, stdLog)

	// 挂一笔 pending 订单引用简单商品 SKU，演示 SKU 变更保护
	seedOrder(simpleSKU, stdLog)

	stdLog.Println("Seed completed")
}

func seedProduct(product *models.Product, variants []models.ProductVariant, stdLog *log.Logger) {
	var existing models.Product
	if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err == nil {
		stdLog.Printf("Product already exists: %s", product.Slug)
		return
	}
	if err := models.DB.Create(product).Error; err != nil {
		stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
		return
	}
	for i := range variants {
		variants[i].ProductID = product.ID
		if err := models.DB.Create(&variants[i]).Error; err != nil {
			stdLog.Printf("Failed to create variant %s: %v", variants[i].SKU, err)
		}
	}
	stdLog.Printf("Created product: %s", product.Slug)
}

func seedOrder(sku string, stdLog *log.Logger) {
	var count int64
	models.DB.Model(&models.OrderItem{}).Where("sku = ?", sku).Count(&count)
	if count > 0 {
		stdLog.Printf("Order referencing %s already exists", sku)
		return
	}

	var product models.Product
	if err := models.DB.Where("sku = ?", sku).First(&product).Error; err != nil {
		stdLog.Printf("Failed to load product for order seed: %v", err)
		return
	}

	order := models.Order{
		OrderNo:     "GB" + time.Now().Format("20060102") + "SEED00000001",
		Status:      constants.OrderStatusPending,
		Currency:    "VND",
		TotalAmount: product.Price,
		ClientIP:    "127.0.0.1",
		Items: []models.OrderItem{
			{
				ProductID: product.ID,
				SKU:       sku,
				Name:      product.Name,
				Quantity:  1,
				UnitPrice: product.Price,
			},
		},
	}
	if err := models.DB.Create(&order).Error; err != nil {
		stdLog.Printf("Failed to create seed order: %v", err)
		return
	}
	stdLog.Printf("Created pending order %s referencing %s", order.OrderNo, sku)
}
