package repository

import "github.com/miniteen-shop/internal/models"

// ProductListFilter 查询商品列表的过滤条件（各条件之间为 AND）
type ProductListFilter struct {
	Page     int
	PageSize int
	Category string
	InStock  *bool
	IsNew    *bool
	MinPrice *models.Money
	MaxPrice *models.Money
	Search   string
}

// ProductStatsRow 商品统计结果
type ProductStatsRow struct {
	Total      int64
	InStock    int64
	OutOfStock int64
	New        int64
	ByCategory map[string]int64
}
