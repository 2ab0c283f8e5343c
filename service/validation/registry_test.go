/*
 * @module service/validation/registry_test
 * @description 规则注册表与派发器测试
 * @architecture 测试层
 * @documentReference ai_docs/validation_req.md
 * @stateFlow 注册表构造 -> 规则派发 -> 问题合成验证
 * @rules 覆盖静态评估器优先、条件树回退与静默跳过语义
 * @dependencies testing, github.com/stretchr/testify/assert
 * @refs registry.go, builtin_rules.go
 */

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessment-service/service/models"
)

func TestRuleRegistry_DispatchStaticEvaluator(t *testing.T) {
	called := false
	registry := NewRuleRegistry(map[string]RuleEvaluator{
		"custom_check": EvaluatorFunc(func(entity map[string]interface{}, ctx *EvaluationContext) *models.ValidationIssue {
			called = true
			return &models.ValidationIssue{Message: "静态评估器发现问题"}
		}),
	})

	rule := &models.ValidationRule{
		ID:         "custom_check",
		Level:      models.LevelWarning,
		EntityType: models.EntityTypeProperty,
		// 同时带实现文本，静态评估器优先
		Implementation: `{"requiredFields":["never_checked"]}`,
	}

	issue := registry.Dispatch(rule, map[string]interface{}{}, NewEvaluationContext())
	require.NotNil(t, issue)
	assert.True(t, called)
	assert.Equal(t, "custom_check", issue.RuleID, "问题应打上规则ID")
	assert.Equal(t, models.LevelWarning, issue.Level, "问题应打上规则级别")
	assert.Equal(t, "静态评估器发现问题", issue.Message)
}

func TestRuleRegistry_DispatchByEvaluatorRef(t *testing.T) {
	registry := NewRuleRegistry(NewBuiltinEvaluators())

	rule := &models.ValidationRule{
		ID:           "property_assessed_exceeds_market",
		Level:        models.LevelWarning,
		EntityType:   models.EntityTypeProperty,
		EvaluatorRef: EvaluatorAssessedExceedsMarket,
		Message:      "评估值高于市场值",
	}

	entity := map[string]interface{}{"assessed_value": 500000.0, "market_value": 400000.0}
	issue := registry.Dispatch(rule, entity, NewEvaluationContext())
	require.NotNil(t, issue)
	assert.Equal(t, "property_assessed_exceeds_market", issue.RuleID)

	entity = map[string]interface{}{"assessed_value": 300000.0, "market_value": 400000.0}
	assert.Nil(t, registry.Dispatch(rule, entity, NewEvaluationContext()))
}

func TestRuleRegistry_DispatchConditionTree(t *testing.T) {
	registry := NewRuleRegistry(nil)

	rule := &models.ValidationRule{
		ID:             "require_parcel",
		Category:       "completeness",
		Level:          models.LevelError,
		EntityType:     models.EntityTypeProperty,
		Implementation: `{"requiredFields":["parcel_number"]}`,
		Message:        "缺少宗地编号",
	}

	issue := registry.Dispatch(rule, map[string]interface{}{}, NewEvaluationContext())
	require.NotNil(t, issue)
	assert.Equal(t, "require_parcel", issue.RuleID)
	assert.Equal(t, models.LevelError, issue.Level)
	assert.Equal(t, "缺少宗地编号", issue.Message)
	assert.Equal(t, "completeness", issue.Details["category"])

	assert.Nil(t, registry.Dispatch(rule, map[string]interface{}{"parcel_number": "PN-1"}, NewEvaluationContext()))
}

func TestRuleRegistry_SilentNoOp(t *testing.T) {
	registry := NewRuleRegistry(nil)
	ctx := NewEvaluationContext()

	t.Run("无评估器无实现的规则静默跳过", func(t *testing.T) {
		rule := &models.ValidationRule{ID: "orphan_rule", Level: models.LevelError}
		assert.Nil(t, registry.Dispatch(rule, map[string]interface{}{}, ctx))
	})

	t.Run("实现文本不可解析的规则静默跳过", func(t *testing.T) {
		rule := &models.ValidationRule{
			ID:             "broken_rule",
			Level:          models.LevelError,
			Implementation: "{bad json",
		}
		assert.Nil(t, registry.Dispatch(rule, map[string]interface{}{}, ctx))
	})
}

func TestRuleRegistry_DispatchRecoverEvaluatorPanic(t *testing.T) {
	registry := NewRuleRegistry(map[string]RuleEvaluator{
		"panicking_check": EvaluatorFunc(func(entity map[string]interface{}, ctx *EvaluationContext) *models.ValidationIssue {
			panic("评估器内部错误")
		}),
		"sound_check": EvaluatorFunc(func(entity map[string]interface{}, ctx *EvaluationContext) *models.ValidationIssue {
			return &models.ValidationIssue{Message: "正常评估器发现问题"}
		}),
	})
	ctx := NewEvaluationContext()

	// panic在派发边界捕获，该规则放行
	assert.NotPanics(t, func() {
		issue := registry.Dispatch(&models.ValidationRule{ID: "panicking_check", Level: models.LevelError}, map[string]interface{}{}, ctx)
		assert.Nil(t, issue, "panic的评估器放行，不产生问题")
	})

	// 坏规则不影响后续规则的派发
	issue := registry.Dispatch(&models.ValidationRule{ID: "sound_check", Level: models.LevelWarning}, map[string]interface{}{}, ctx)
	require.NotNil(t, issue)
	assert.Equal(t, "正常评估器发现问题", issue.Message)
}

func TestRuleRegistry_DefensiveCopy(t *testing.T) {
	source := map[string]RuleEvaluator{
		"a": EvaluatorFunc(func(entity map[string]interface{}, ctx *EvaluationContext) *models.ValidationIssue {
			return nil
		}),
	}
	registry := NewRuleRegistry(source)

	// 构造后修改原映射不影响注册表
	delete(source, "a")
	source["b"] = EvaluatorFunc(func(entity map[string]interface{}, ctx *EvaluationContext) *models.ValidationIssue {
		return nil
	})

	assert.True(t, registry.HasEvaluator("a"))
	assert.False(t, registry.HasEvaluator("b"))
}

func TestRuleImplementation_VerbatimRoundTrip(t *testing.T) {
	// 实现文本带非规范空白，必须按原文逐字节往返
	raw := `{ "requiredFields": [ "parcel_number" ] }`
	rule := &models.ValidationRule{
		ID:             "verbatim_rule",
		Level:          models.LevelError,
		Implementation: raw,
		Message:        "缺少字段",
	}

	registry := NewRuleRegistry(nil)
	issue := registry.Dispatch(rule, map[string]interface{}{}, NewEvaluationContext())
	require.NotNil(t, issue, "非规范空白不影响解析")
	assert.Equal(t, raw, rule.Implementation, "派发不改写实现文本")
}
