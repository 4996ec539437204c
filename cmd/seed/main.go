package main

import (
	"context"

	"github.com/miniteen-shop/internal/config"
	"github.com/miniteen-shop/internal/constants"
	"github.com/miniteen-shop/internal/logger"
	"github.com/miniteen-shop/internal/models"
	"github.com/miniteen-shop/internal/repository"
	"github.com/miniteen-shop/internal/service"
)

type seedProduct struct {
	name     string
	price    string
	category string
	image    string
	stock    int
	isNew    bool
}

var seedProducts = []seedProduct{
	{"MINITEEN 壓克力鑰匙圈", "237.50", constants.ProductCategoryAccessory, "/images/products/keyring.jpg", 40, true},
	{"MINITEEN 徽章組", "320.00", constants.ProductCategoryAccessory, "/images/products/badge-set.jpg", 25, false},
	{"MINITEEN 貼紙包", "120.00", constants.ProductCategoryStationery, "/images/products/stickers.jpg", 80, true},
	{"MINITEEN 筆記本", "180.00", constants.ProductCategoryStationery, "/images/products/notebook.jpg", 0, false},
	{"MINITEEN 帆布袋", "450.00", constants.ProductCategoryLifestyle, "/images/products/tote.jpg", 15, true},
	{"MINITEEN 馬克杯", "390.00", constants.ProductCategoryLifestyle, "/images/products/mug.jpg", 3, false},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 已有商品时不重复写入
	productService := service.NewProductService(repository.NewProductRepository(models.DB), nil, 0)
	existing, err := productService.List(repository.ProductListFilter{}, 1, 1)
	if err != nil {
		stdLog.Fatalf("Failed to inspect products: %v", err)
	}
	if existing.Total > 0 {
		stdLog.Printf("Products already exist (%d), skip seeding", existing.Total)
		return
	}

	ctx := context.Background()
	for _, item := range seedProducts {
		isNew := item.isNew
		product, err := productService.Create(ctx, service.CreateProductInput{
			Name:       item.name,
			Price:      models.MustMoney(item.price),
			Category:   item.category,
			Image:      item.image,
			StockCount: item.stock,
			IsNew:      &isNew,
		})
		if err != nil {
			stdLog.Printf("Failed to create product %s: %v", item.name, err)
			continue
		}
		stdLog.Printf("Created product: %s (%s)", product.Name, product.ID)
	}
	stdLog.Printf("Seed completed")
}
