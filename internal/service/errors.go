package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// 服务层通用哨兵错误
var (
	// ErrNotFound 目标记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrSlugExists slug 已被占用
	ErrSlugExists = errors.New("slug already exists")
	// ErrSKUExists SKU 已被占用
	ErrSKUExists = errors.New("sku already exists")
	// ErrVersionRangeInvalid 版本号跳跃超出单次编辑可能范围（疑似注入值）
	ErrVersionRangeInvalid = errors.New("version out of acceptable range")
	// ErrProductTrashed 商品处于回收站，需先恢复
	ErrProductTrashed = errors.New("product is trashed")
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError 输入校验错误，逐字段枚举全部问题
type ValidationError struct {
	Fields map[string]string
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// newValidationError 创建空的校验错误收集器
func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// add 记录单个字段的问题（同字段只保留首个问题）
func (e *ValidationError) add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// orNil 没有收集到问题时返回 nil
func (e *ValidationError) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// VersionConflictError 乐观并发冲突：调用方持有过期版本
type VersionConflictError struct {
	Provided uint64
	Current  uint64
}

// Error 实现 error 接口
func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict: provided %d, current %d", e.Provided, e.Current)
}

// SKULockedError SKU 被未结算订单锁定
type SKULockedError struct {
	SKU            string
	BlockingOrders int64
}

// Error 实现 error 接口
func (e *SKULockedError) Error() string {
	return fmt.Sprintf("sku %q locked by %d unsettled order(s)", e.SKU, e.BlockingOrders)
}

// ReferenceError 引用完整性错误（未知分类/变体 ID）
type ReferenceError struct {
	Field      string
	InvalidIDs []uint
}

// Error 实现 error 接口
func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s references unknown ids %v", e.Field, e.InvalidIDs)
}
