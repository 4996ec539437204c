package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		return "LIKE"
	}
}

// containsConditionByDialect 构建大小写不敏感的子串匹配条件。
// postgres 直接对原列 ILIKE；其他方言匹配写入时已小写的列。
func containsConditionByDialect(dialect, column, foldedColumn string) string {
	op := likeOperatorByDialect(dialect)
	if op == "ILIKE" {
		return fmt.Sprintf(`%s ILIKE ? ESCAPE '\'`, column)
	}
	return fmt.Sprintf(`%s %s ? ESCAPE '\'`, foldedColumn, op)
}

// containsPattern 转义 LIKE 通配符并生成 %term% 模式。
func containsPattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(term)) + "%"
}
