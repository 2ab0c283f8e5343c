/*
 * @module service/validation/builtin_rules
 * @description 内置校验规则定义，包括条件树规则种子与静态注册评估器
 * @architecture 规则引擎 - 规则库
 * @documentReference ai_docs/validation_req.md
 * @stateFlow 服务初始化 -> 规则种子落库 -> 静态评估器注入注册表 -> 校验时派发
 * @rules 内置规则通过ID幂等种子化，已存在则不覆盖用户修改；静态评估器覆盖无法用条件树表达的检查
 * @dependencies github.com/spf13/cast
 * @refs service/validation/registry.go, service/init.go
 */

package validation

import (
	"fmt"

	"github.com/spf13/cast"

	"assessment-service/service/models"
)

// 静态评估器引用ID
const (
	EvaluatorAssessedExceedsMarket = "assessed_exceeds_market"
	EvaluatorYearBuiltRange        = "year_built_range"
)

// NewBuiltinEvaluators 构造静态注册评估器集合，覆盖条件树无法表达的检查
func NewBuiltinEvaluators() map[string]RuleEvaluator {
	return map[string]RuleEvaluator{
		EvaluatorAssessedExceedsMarket: EvaluatorFunc(evaluateAssessedExceedsMarket),
		EvaluatorYearBuiltRange:        EvaluatorFunc(evaluateYearBuiltRange),
	}
}

// evaluateAssessedExceedsMarket 评估值高于市场值时告警，市场值缺失或为0时不检查
func evaluateAssessedExceedsMarket(entity map[string]interface{}, ctx *EvaluationContext) *models.ValidationIssue {
	marketRaw, exists := LookupField(entity, "market_value")
	if !exists {
		return nil
	}
	market, err := cast.ToFloat64E(marketRaw)
	if err != nil || market <= 0 {
		return nil
	}
	assessedRaw, exists := LookupField(entity, "assessed_value")
	if !exists {
		return nil
	}
	assessed, err := cast.ToFloat64E(assessedRaw)
	if err != nil {
		return nil
	}
	if assessed > market {
		return &models.ValidationIssue{
			Message: fmt.Sprintf("评估值 %.2f 高于市场值 %.2f", assessed, market),
			Details: models.JSONB{
				"assessed_value": assessed,
				"market_value":   market,
			},
		}
	}
	return nil
}

// evaluateYearBuiltRange 建成年份需在[1700, 当前年份]区间，上界取决于求值时刻
func evaluateYearBuiltRange(entity map[string]interface{}, ctx *EvaluationContext) *models.ValidationIssue {
	yearRaw, exists := LookupField(entity, "year_built")
	if !exists || yearRaw == nil {
		return nil
	}
	year, err := cast.ToIntE(yearRaw)
	if err != nil || year == 0 {
		return nil
	}
	currentYear := ctx.Now.Year()
	if year < 1700 || year > currentYear {
		return &models.ValidationIssue{
			Message: fmt.Sprintf("建成年份 %d 超出合理区间 [1700, %d]", year, currentYear),
			Details: models.JSONB{
				"year_built": year,
			},
		}
	}
	return nil
}

// BuiltinRules 返回内置规则种子，含条件树规则与静态评估器引用规则
func BuiltinRules() []models.ValidationRule {
	return []models.ValidationRule{
		{
			ID:             "property_required_fields",
			Name:           "不动产必填字段检查",
			Category:       "completeness",
			Level:          models.LevelError,
			EntityType:     models.EntityTypeProperty,
			Implementation: `{"requiredFields":["parcel_number","address","property_type"]}`,
			Message:        "不动产记录缺少必填字段",
			Reference:      "IAAO Standard on Digital Cadastral Maps §3.2",
		},
		{
			ID:             "property_type_allowed",
			Name:           "不动产类型枚举检查",
			Category:       "validity",
			Level:          models.LevelError,
			EntityType:     models.EntityTypeProperty,
			Implementation: `{"valueList":{"field":"property_type","allowedValues":["Residential","Commercial","Industrial","Agricultural","Exempt"]}}`,
			Message:        "不动产类型不在允许枚举范围内",
		},
		{
			ID:             "property_assessed_value_nonnegative",
			Name:           "评估值非负检查",
			Category:       "validity",
			Level:          models.LevelError,
			EntityType:     models.EntityTypeProperty,
			Implementation: `{"fieldValues":[{"field":"assessed_value","operator":"gte","value":0}]}`,
			Message:        "评估值不允许为负数",
		},
		{
			ID:             "property_parcel_number_format",
			Name:           "宗地编号格式检查",
			Category:       "validity",
			Level:          models.LevelWarning,
			EntityType:     models.EntityTypeProperty,
			Implementation: `{"patterns":[{"field":"parcel_number","regex":"^[0-9A-Z-]+$"}]}`,
			Message:        "宗地编号格式不符合规范",
		},
		{
			ID:           "property_assessed_exceeds_market",
			Name:         "评估值与市场值关系检查",
			Category:     "consistency",
			Level:        models.LevelWarning,
			EntityType:   models.EntityTypeProperty,
			EvaluatorRef: EvaluatorAssessedExceedsMarket,
			Message:      "评估值高于市场值",
		},
		{
			ID:             "land_record_acreage_positive",
			Name:           "地块面积正值检查",
			Category:       "validity",
			Level:          models.LevelError,
			EntityType:     models.EntityTypeLandRecord,
			Implementation: `{"fieldValues":[{"field":"acreage","operator":"gt","value":0}]}`,
			Message:        "地块面积必须为正数",
		},
		{
			ID:             "land_record_land_use_code_format",
			Name:           "土地用途代码格式检查",
			Category:       "validity",
			Level:          models.LevelWarning,
			EntityType:     models.EntityTypeLandRecord,
			Implementation: `{"patterns":[{"field":"land_use_code","regex":"^[A-Z]{3}-[0-9]+$"}]}`,
			Message:        "土地用途代码格式不符合规范",
		},
		{
			ID:           "improvement_year_built_range",
			Name:         "建成年份区间检查",
			Category:     "validity",
			Level:        models.LevelWarning,
			EntityType:   models.EntityTypeImprovement,
			EvaluatorRef: EvaluatorYearBuiltRange,
			Message:      "建成年份超出合理区间",
		},
		{
			ID:             "improvement_square_feet_positive",
			Name:           "建筑面积正值检查",
			Category:       "validity",
			Level:          models.LevelWarning,
			EntityType:     models.EntityTypeImprovement,
			Implementation: `{"fieldValues":[{"field":"square_feet","operator":"gt","value":0}]}`,
			Message:        "建筑面积必须为正数",
		},
	}
}
