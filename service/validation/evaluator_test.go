/*
 * @module service/validation/evaluator_test
 * @description 条件树求值器测试，不依赖数据库
 * @architecture 测试层
 * @documentReference ai_docs/validation_req.md
 * @stateFlow 条件树构造 -> 实体快照求值 -> 结果验证
 * @rules 覆盖全部操作符、逻辑组合器与类型不匹配的fail-closed语义
 * @dependencies testing, github.com/stretchr/testify/assert
 * @refs evaluator.go, condition.go
 */

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluator_LogicalCombinators(t *testing.T) {
	evaluator := NewEvaluator()
	ctx := NewEvaluationContext()

	// and(requiredFields[a], or(b > 5))
	node, err := ParseConditionTree(`{"and":[{"requiredFields":["a"]},{"or":[{"fieldValues":[{"field":"b","operator":"gt","value":5}]}]}]}`)
	require.NoError(t, err)

	assert.True(t, evaluator.Evaluate(node, map[string]interface{}{"a": 1, "b": 10}, ctx))
	assert.False(t, evaluator.Evaluate(node, map[string]interface{}{"b": 3}, ctx), "缺少a应不满足")
	assert.False(t, evaluator.Evaluate(node, map[string]interface{}{"a": 1, "b": 3}, ctx), "b不大于5应不满足")

	t.Run("空or列表恒真", func(t *testing.T) {
		node, err := ParseConditionTree(`{"or":[]}`)
		require.NoError(t, err)
		assert.True(t, evaluator.Evaluate(node, map[string]interface{}{}, ctx))
	})

	t.Run("not取反", func(t *testing.T) {
		node, err := ParseConditionTree(`{"not":{"requiredFields":["a"]}}`)
		require.NoError(t, err)
		assert.True(t, evaluator.Evaluate(node, map[string]interface{}{}, ctx))
		assert.False(t, evaluator.Evaluate(node, map[string]interface{}{"a": 1}, ctx))
	})
}

func TestEvaluator_RequiredFields(t *testing.T) {
	evaluator := NewEvaluator()
	ctx := NewEvaluationContext()
	node := &ConditionNode{RequiredFields: []string{"address"}}

	assert.True(t, evaluator.Evaluate(node, map[string]interface{}{"address": "测试路1号"}, ctx))
	assert.False(t, evaluator.Evaluate(node, map[string]interface{}{}, ctx), "字段缺失应不满足")
	assert.False(t, evaluator.Evaluate(node, map[string]interface{}{"address": nil}, ctx), "nil应不满足")
	assert.False(t, evaluator.Evaluate(node, map[string]interface{}{"address": ""}, ctx), "空字符串应不满足")
	assert.True(t, evaluator.Evaluate(node, map[string]interface{}{"address": 0}, ctx), "数值0是合法存在值")
}

func TestEvaluator_FieldValueOperators(t *testing.T) {
	evaluator := NewEvaluator()
	ctx := NewEvaluationContext()

	check := func(field string, operator string, expected interface{}, entity map[string]interface{}) bool {
		node := &ConditionNode{FieldValues: []FieldPredicate{{Field: field, Operator: operator, Value: expected}}}
		return evaluator.Evaluate(node, entity, ctx)
	}

	t.Run("数值比较含字符串强转", func(t *testing.T) {
		assert.True(t, check("v", "gt", 5, map[string]interface{}{"v": 10}))
		assert.True(t, check("v", "gt", 5, map[string]interface{}{"v": "10"}), "数值字符串应参与数值比较")
		assert.False(t, check("v", "gt", 5, map[string]interface{}{"v": 3}))
		assert.True(t, check("v", "gte", 5, map[string]interface{}{"v": 5}))
		assert.True(t, check("v", "lt", 5, map[string]interface{}{"v": 4}))
		assert.True(t, check("v", "lte", 5, map[string]interface{}{"v": 5}))
		assert.False(t, check("v", "gt", 5, map[string]interface{}{"v": "abc"}), "不可数值化应判不满足")
	})

	t.Run("等值与不等值", func(t *testing.T) {
		assert.True(t, check("v", "eq", "Residential", map[string]interface{}{"v": "Residential"}))
		assert.True(t, check("v", "eq", 5, map[string]interface{}{"v": 5.0}), "数值按值比较不区分宽度")
		assert.False(t, check("v", "eq", "Commercial", map[string]interface{}{"v": "Residential"}))
		assert.True(t, check("v", "neq", "Commercial", map[string]interface{}{"v": "Residential"}))
	})

	t.Run("in与nin", func(t *testing.T) {
		allowed := []interface{}{"RES", "COM"}
		assert.True(t, check("v", "in", allowed, map[string]interface{}{"v": "RES"}))
		assert.False(t, check("v", "in", allowed, map[string]interface{}{"v": "IND"}))
		assert.True(t, check("v", "nin", allowed, map[string]interface{}{"v": "IND"}))
		assert.False(t, check("v", "nin", allowed, map[string]interface{}{"v": "COM"}))
	})

	t.Run("字符串操作符fail-closed", func(t *testing.T) {
		assert.True(t, check("v", "contains", "中心", map[string]interface{}{"v": "市中心地段"}))
		assert.True(t, check("v", "startsWith", "RES", map[string]interface{}{"v": "RES-1"}))
		assert.True(t, check("v", "endsWith", "-1", map[string]interface{}{"v": "RES-1"}))
		// 字段值不是字符串时一律判不满足
		assert.False(t, check("v", "contains", "1", map[string]interface{}{"v": 123}))
		assert.False(t, check("v", "startsWith", "1", map[string]interface{}{"v": 123}))
		assert.False(t, check("v", "endsWith", "3", map[string]interface{}{"v": 123}))
	})

	t.Run("regex操作符", func(t *testing.T) {
		assert.True(t, check("v", "regex", "^[A-Z]{3}-[0-9]+$", map[string]interface{}{"v": "RES-1"}))
		assert.False(t, check("v", "regex", "^[A-Z]{3}-[0-9]+$", map[string]interface{}{"v": "res1"}))
		assert.True(t, check("v", "regex", "([", map[string]interface{}{"v": "RES-1"}), "非法正则放行，不产生问题")
	})

	t.Run("未知操作符判不满足", func(t *testing.T) {
		assert.False(t, check("v", "between", 5, map[string]interface{}{"v": 5}))
	})

	t.Run("字段缺失判不满足", func(t *testing.T) {
		assert.False(t, check("v", "eq", 1, map[string]interface{}{}))
	})
}

func TestEvaluator_Patterns(t *testing.T) {
	evaluator := NewEvaluator()
	ctx := NewEvaluationContext()
	node := &ConditionNode{Patterns: []PatternPredicate{{Field: "parcel_number", Regex: "^[0-9A-Z-]+$"}}}

	assert.True(t, evaluator.Evaluate(node, map[string]interface{}{"parcel_number": "PN-001"}, ctx))
	assert.False(t, evaluator.Evaluate(node, map[string]interface{}{"parcel_number": "pn_001"}, ctx))
	assert.False(t, evaluator.Evaluate(node, map[string]interface{}{}, ctx), "字段缺失应不满足")
	assert.True(t, evaluator.Evaluate(node, map[string]interface{}{"parcel_number": 2024}, ctx), "非字符串值字符串化后匹配")
}

func TestEvaluator_ValueList(t *testing.T) {
	evaluator := NewEvaluator()
	ctx := NewEvaluationContext()
	node, err := ParseConditionTree(`{"valueList":{"field":"property_type","allowedValues":["Residential","Commercial"]}}`)
	require.NoError(t, err)

	assert.True(t, evaluator.Evaluate(node, map[string]interface{}{"property_type": "Residential"}, ctx))
	assert.False(t, evaluator.Evaluate(node, map[string]interface{}{"property_type": "Mixed"}, ctx))
	assert.False(t, evaluator.Evaluate(node, map[string]interface{}{}, ctx))
}

func TestEvaluator_FieldConditions(t *testing.T) {
	evaluator := NewEvaluator()
	ctx := NewEvaluationContext()
	// 若property_type为Exempt则要求assessed_value等于0
	node, err := ParseConditionTree(`{"fieldConditions":[{"if":{"fieldValues":[{"field":"property_type","operator":"eq","value":"Exempt"}]},"then":{"fieldValues":[{"field":"assessed_value","operator":"eq","value":0}]}}]}`)
	require.NoError(t, err)

	assert.True(t, evaluator.Evaluate(node, map[string]interface{}{"property_type": "Exempt", "assessed_value": 0}, ctx))
	assert.False(t, evaluator.Evaluate(node, map[string]interface{}{"property_type": "Exempt", "assessed_value": 100}, ctx))
	assert.True(t, evaluator.Evaluate(node, map[string]interface{}{"property_type": "Residential", "assessed_value": 100}, ctx), "if不成立整体满足")
}

func TestEvaluator_DottedPathLookup(t *testing.T) {
	evaluator := NewEvaluator()
	ctx := NewEvaluationContext()
	entity := map[string]interface{}{
		"owner": map[string]interface{}{
			"contact": map[string]interface{}{
				"city": "Springfield",
			},
		},
	}

	node := &ConditionNode{FieldValues: []FieldPredicate{{Field: "owner.contact.city", Operator: "eq", Value: "Springfield"}}}
	assert.True(t, evaluator.Evaluate(node, entity, ctx))

	node = &ConditionNode{FieldValues: []FieldPredicate{{Field: "owner.contact.zip", Operator: "eq", Value: "12345"}}}
	assert.False(t, evaluator.Evaluate(node, entity, ctx), "嵌套路径缺失应不满足")

	node = &ConditionNode{FieldValues: []FieldPredicate{{Field: "owner.contact.city.extra", Operator: "eq", Value: "x"}}}
	assert.False(t, evaluator.Evaluate(node, entity, ctx), "路径穿透非对象值应不满足")
}

func TestEvaluator_Deterministic(t *testing.T) {
	evaluator := NewEvaluator()
	ctx := NewEvaluationContext()
	node, err := ParseConditionTree(`{"and":[{"requiredFields":["a"]},{"fieldValues":[{"field":"b","operator":"lte","value":100}]}]}`)
	require.NoError(t, err)

	entity := map[string]interface{}{"a": "x", "b": 50}
	first := evaluator.Evaluate(node, entity, ctx)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, evaluator.Evaluate(node, entity, ctx), "同一输入必须得到同一结果")
	}
}

func TestParseConditionTree_Invalid(t *testing.T) {
	_, err := ParseConditionTree("")
	assert.Error(t, err)

	_, err = ParseConditionTree("{not json")
	assert.Error(t, err)
}
