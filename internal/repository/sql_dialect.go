package repository

import (
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

// likeOperator 返回大小写不敏感模糊匹配操作符，兼容 sqlite 与 postgres。
func likeOperator(db *gorm.DB) string {
	switch dbDialectName(db) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		return "LIKE"
	}
}

// categoryContainsExpr 构建 JSON 数组包含判断表达式（category_ids 含指定 ID）。
func categoryContainsExpr(db *gorm.DB) string {
	switch dbDialectName(db) {
	case "postgres", "postgresql":
		// postgres 转 jsonb 后使用包含操作符
		return "(category_ids)::jsonb @> to_jsonb(?::bigint)"
	default:
		// sqlite 展开 JSON 数组逐值比较
		return "EXISTS (SELECT 1 FROM json_each(products.category_ids) WHERE json_each.value = ?)"
	}
}
