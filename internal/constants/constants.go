package constants

// 商品分类常量
const (
	ProductCategoryAccessory  = "accessory"
	ProductCategoryStationery = "stationery"
	ProductCategoryLifestyle  = "lifestyle"
)

// ProductCategories 全部商品分类（统计输出顺序）
var ProductCategories = []string{
	ProductCategoryAccessory,
	ProductCategoryStationery,
	ProductCategoryLifestyle,
}

// IsValidProductCategory 判断分类是否合法
func IsValidProductCategory(category string) bool {
	for _, item := range ProductCategories {
		if item == category {
			return true
		}
	}
	return false
}

// 商品 ID 前缀
const ProductIDPrefix = "prod_"

// 库存校验问题类型
const (
	StockIssueMissing      = "missing"
	StockIssueOutOfStock   = "out_of_stock"
	StockIssueInsufficient = "insufficient"
)

// 上传场景
const (
	UploadSceneAvatar = "avatars"
)

// 异步任务类型
const (
	TaskAvatarCleanup    = "avatar:cleanup"
	TaskProductStatsWarm = "product:stats_warm"
	QueueDefault         = "default"
)

// 上传访问路径前缀
const UploadURLPrefix = "/uploads/"

// 默认语言
const DefaultLocale = "zh-TW"

// 授权相关常量
const (
	ShopperRole       = "shopper"
	UserSubjectPrefix = "user:"
)
