package service

import (
	"time"
)

// productPatch 合并阶段产出的写入计划：父商品列赋值、
// 逐变体字段赋值与幽灵变体清理标记，最终在同一事务内落库。
type productPatch struct {
	// assignments 父商品条件更新的列赋值（列名→值）
	assignments map[string]interface{}
	// variantAssignments 变体 ID→列赋值
	variantAssignments map[uint]map[string]interface{}
	// purgeVariants 商品从 variable 切换为其它类型时清空全部变体
	purgeVariants bool
	// changes 字段级前后值，供审计记录
	changes []fieldChange
}

// fieldChange 单字段变更的前后快照
type fieldChange struct {
	Field  string      `json:"field"`
	Before interface{} `json:"before"`
	After  interface{} `json:"after"`
}

func newProductPatch() *productPatch {
	return &productPatch{
		assignments:        map[string]interface{}{},
		variantAssignments: map[uint]map[string]interface{}{},
	}
}

// set 记录一列赋值并登记审计前后值
func (p *productPatch) set(column string, before, after interface{}) {
	p.assignments[column] = after
	p.changes = append(p.changes, fieldChange{Field: column, Before: before, After: after})
}

// setDerived 记录派生列赋值，不产生独立审计条目
func (p *productPatch) setDerived(column string, value interface{}) {
	p.assignments[column] = value
}

// setVariant 记录某个变体的一列赋值
func (p *productPatch) setVariant(variantID uint, column string, before, after interface{}) {
	fields, ok := p.variantAssignments[variantID]
	if !ok {
		fields = map[string]interface{}{}
		p.variantAssignments[variantID] = fields
	}
	fields[column] = after
	p.changes = append(p.changes, fieldChange{
		Field:  "variants." + column,
		Before: before,
		After:  after,
	})
}

// empty 判断写入计划是否为空操作
func (p *productPatch) empty() bool {
	return len(p.assignments) == 0 && len(p.variantAssignments) == 0 && !p.purgeVariants
}

// stamp 补充更新时间戳，保证条件更新语句永不退化为空赋值
func (p *productPatch) stamp(now time.Time) {
	p.assignments["updated_at"] = now
}
