package shared

// NormalizePagination 归一化分页参数：page 至少为 1，pageSize 缺省取默认值且不超过上限。
func NormalizePagination(page, pageSize, defaultSize, maxSize int) (int, int) {
	if defaultSize <= 0 {
		defaultSize = 12
	}
	if maxSize <= 0 {
		maxSize = 100
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	return page, pageSize
}
