/*
 * @module service/validation/evaluator
 * @description 条件树纯函数求值器，对单个实体快照求布尔结果，无I/O无隐藏状态
 * @architecture 规则引擎 - 求值层
 * @documentReference ai_docs/validation_req.md
 * @stateFlow ConditionNode + 实体快照 + 求值上下文 -> 布尔结果(true=条件满足无问题)
 * @rules 数值操作符通过数值解析做类型归一；字符串操作符遇到非字符串字段值一律判不满足(fail-closed)；空or列表恒真
 * @dependencies github.com/spf13/cast
 * @refs service/validation/condition.go, service/validation/registry.go
 */

package validation

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// EvaluationContext 求值上下文，携带求值时刻与区域设置
type EvaluationContext struct {
	Now    time.Time
	Locale string
}

// NewEvaluationContext 创建默认求值上下文
func NewEvaluationContext() *EvaluationContext {
	return &EvaluationContext{
		Now:    time.Now(),
		Locale: "en-US",
	}
}

// Evaluator 条件树求值器，无内部状态，可并发使用
type Evaluator struct{}

// NewEvaluator 创建求值器
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate 对实体快照求值条件树，返回true表示条件满足(无问题)
func (e *Evaluator) Evaluate(node *ConditionNode, entity map[string]interface{}, ctx *EvaluationContext) bool {
	if node == nil {
		return true
	}

	// 同一节点上的多个分支按合取处理
	if node.RequiredFields != nil && !e.evaluateRequiredFields(node.RequiredFields, entity) {
		return false
	}
	if node.FieldValues != nil && !e.evaluateFieldValues(node.FieldValues, entity) {
		return false
	}
	if node.Patterns != nil && !e.evaluatePatterns(node.Patterns, entity) {
		return false
	}
	if node.ValueList != nil && !e.evaluateValueList(node.ValueList, entity) {
		return false
	}
	if node.FieldConditions != nil && !e.evaluateFieldConditions(node.FieldConditions, entity, ctx) {
		return false
	}
	if node.And != nil {
		for _, sub := range node.And {
			if !e.Evaluate(sub, entity, ctx) {
				return false
			}
		}
	}
	if node.Or != nil {
		// 空or列表恒真
		if len(node.Or) > 0 {
			matched := false
			for _, sub := range node.Or {
				if e.Evaluate(sub, entity, ctx) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}
	if node.Not != nil {
		if e.Evaluate(node.Not, entity, ctx) {
			return false
		}
	}

	return true
}

// evaluateRequiredFields 必填字段：存在且非nil非空字符串
func (e *Evaluator) evaluateRequiredFields(fields []string, entity map[string]interface{}) bool {
	for _, field := range fields {
		value, exists := LookupField(entity, field)
		if !exists || value == nil {
			return false
		}
		if s, ok := value.(string); ok && s == "" {
			return false
		}
	}
	return true
}

// evaluateFieldValues 字段比较谓词组，全部满足才通过
func (e *Evaluator) evaluateFieldValues(predicates []FieldPredicate, entity map[string]interface{}) bool {
	for _, p := range predicates {
		value, exists := LookupField(entity, p.Field)
		if !exists {
			return false
		}
		if !e.compareValues(value, p.Operator, p.Value) {
			return false
		}
	}
	return true
}

// compareValues 按操作符比较字段值与期望值，操作数类型不匹配一律判不满足
func (e *Evaluator) compareValues(fieldValue interface{}, operator string, expected interface{}) bool {
	switch operator {
	case "eq":
		return looseEqual(fieldValue, expected)
	case "neq":
		return !looseEqual(fieldValue, expected)
	case "gt", "gte", "lt", "lte":
		left, err1 := cast.ToFloat64E(fieldValue)
		right, err2 := cast.ToFloat64E(expected)
		if err1 != nil || err2 != nil {
			return false
		}
		switch operator {
		case "gt":
			return left > right
		case "gte":
			return left >= right
		case "lt":
			return left < right
		default:
			return left <= right
		}
	case "in":
		return containsValue(expected, fieldValue)
	case "nin":
		items, ok := toSlice(expected)
		if !ok {
			return false
		}
		for _, item := range items {
			if looseEqual(fieldValue, item) {
				return false
			}
		}
		return true
	case "contains", "startsWith", "endsWith":
		s, ok := fieldValue.(string)
		if !ok {
			return false
		}
		target := cast.ToString(expected)
		switch operator {
		case "contains":
			return strings.Contains(s, target)
		case "startsWith":
			return strings.HasPrefix(s, target)
		default:
			return strings.HasSuffix(s, target)
		}
	case "regex":
		pattern, err := regexp.Compile(cast.ToString(expected))
		if err != nil {
			// 非法正则属于规则实现缺陷，放行以免单条坏规则阻断整批校验
			return true
		}
		s, ok := fieldValue.(string)
		if !ok {
			return false
		}
		return pattern.MatchString(s)
	default:
		// 未知操作符视为不满足
		return false
	}
}

// evaluatePatterns 正则谓词组，字段值字符串化后匹配
func (e *Evaluator) evaluatePatterns(predicates []PatternPredicate, entity map[string]interface{}) bool {
	for _, p := range predicates {
		value, exists := LookupField(entity, p.Field)
		if !exists || value == nil {
			return false
		}
		pattern, err := regexp.Compile(p.Regex)
		if err != nil {
			// 非法正则放行，不产生问题
			continue
		}
		if !pattern.MatchString(cast.ToString(value)) {
			return false
		}
	}
	return true
}

// evaluateValueList 枚举值谓词
func (e *Evaluator) evaluateValueList(p *ValueListPredicate, entity map[string]interface{}) bool {
	value, exists := LookupField(entity, p.Field)
	if !exists {
		return false
	}
	for _, allowed := range p.AllowedValues {
		if looseEqual(value, allowed) {
			return true
		}
	}
	return false
}

// evaluateFieldConditions 条件蕴含谓词组
func (e *Evaluator) evaluateFieldConditions(conditions []FieldCondition, entity map[string]interface{}, ctx *EvaluationContext) bool {
	for _, c := range conditions {
		if e.Evaluate(c.If, entity, ctx) {
			if !e.Evaluate(c.Then, entity, ctx) {
				return false
			}
		}
	}
	return true
}

// LookupField 按点路径在快照中查找字段值，返回值与是否存在标记
func LookupField(entity map[string]interface{}, path string) (interface{}, bool) {
	if entity == nil {
		return nil, false
	}
	if !strings.Contains(path, ".") {
		value, exists := entity[path]
		return value, exists
	}

	parts := strings.Split(path, ".")
	var current interface{} = entity
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		value, exists := m[part]
		if !exists {
			return nil, false
		}
		current = value
	}
	return current, true
}

// looseEqual 宽松等值比较：双方均可数值化时按数值比较，否则按字符串化比较
func looseEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	af, err1 := cast.ToFloat64E(a)
	bf, err2 := cast.ToFloat64E(b)
	if err1 == nil && err2 == nil {
		return af == bf
	}
	as, err1 := cast.ToStringE(a)
	bs, err2 := cast.ToStringE(b)
	if err1 == nil && err2 == nil {
		return as == bs
	}
	return reflect.DeepEqual(a, b)
}

// containsValue 判断期望值列表中是否包含字段值
func containsValue(expected, fieldValue interface{}) bool {
	items, ok := toSlice(expected)
	if !ok {
		return false
	}
	for _, item := range items {
		if looseEqual(fieldValue, item) {
			return true
		}
	}
	return false
}

// toSlice 将期望值归一为切片
func toSlice(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case []interface{}:
		return v, true
	case []string:
		items := make([]interface{}, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, true
	default:
		return nil, false
	}
}
