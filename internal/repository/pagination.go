package repository

import "gorm.io/gorm"

// 列表查询的单页上限，防止一次性拉全表
const maxPageSize = 200

// applyPagination 应用分页参数，统一处理非法页码与超限页长。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
