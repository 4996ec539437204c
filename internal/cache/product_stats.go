package cache

import (
	"context"
	"time"
)

const productStatsKey = "product:stats"

// ProductStats 商品统计缓存
type ProductStats struct {
	Total      int64            `json:"total"`
	InStock    int64            `json:"in_stock"`
	OutOfStock int64            `json:"out_of_stock"`
	New        int64            `json:"new"`
	ByCategory map[string]int64 `json:"by_category"`
}

// GetProductStats 读取商品统计缓存
func GetProductStats(ctx context.Context) (*ProductStats, bool, error) {
	var stats ProductStats
	hit, err := GetJSON(ctx, productStatsKey, &stats)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &stats, true, nil
}

// SetProductStats 写入商品统计缓存
func SetProductStats(ctx context.Context, stats *ProductStats, ttl time.Duration) error {
	if stats == nil || ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, productStatsKey, stats, ttl)
}

// InvalidateProductStats 商品变更后清除统计缓存
func InvalidateProductStats(ctx context.Context) error {
	return Del(ctx, productStatsKey)
}
