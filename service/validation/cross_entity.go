/*
 * @module service/validation/cross_entity
 * @description 固定跨实体一致性规则，检查不动产与其关联地块记录、改良物之间的结构关系
 * @architecture 规则引擎 - 跨实体检查
 * @documentReference ai_docs/validation_req.md
 * @stateFlow 实体校验完成 -> 跨实体规则逐条执行 -> 问题合并入累计列表
 * @rules 跨实体规则集固定，不走注册表派发；类型与用途代码族前缀映射为硬编码常量
 * @dependencies strings
 * @refs service/validation/validator.go
 */

package validation

import (
	"fmt"
	"strings"

	"assessment-service/service/models"
)

// 跨实体规则ID常量
const (
	RuleCrossResidentialRequiresImprovement = "cross_residential_requires_improvement"
	RuleCrossPropertyRequiresLandRecord     = "cross_property_requires_land_record"
	RuleCrossPropertyTypeLandUseMatch       = "cross_property_type_land_use_match"
)

// propertyTypeLandUseFamilies 不动产类型到土地用途代码族前缀的映射
var propertyTypeLandUseFamilies = map[string]string{
	models.PropertyTypeResidential:  "RES",
	models.PropertyTypeCommercial:   "COM",
	models.PropertyTypeIndustrial:   "IND",
	models.PropertyTypeAgricultural: "AGR",
	models.PropertyTypeExempt:       "EXM",
}

// EvaluateCrossEntityRules 执行固定跨实体规则集，返回发现的问题列表
func EvaluateCrossEntityRules(property *models.Property) []*models.ValidationIssue {
	var issues []*models.ValidationIssue

	// 住宅类不动产应至少有一条改良物记录
	if property.PropertyType == models.PropertyTypeResidential && len(property.Improvements) == 0 {
		issues = append(issues, &models.ValidationIssue{
			RuleID:     RuleCrossResidentialRequiresImprovement,
			EntityType: models.EntityTypeProperty,
			EntityID:   property.ID,
			PropertyID: property.ID,
			Level:      models.LevelWarning,
			Message:    "住宅类不动产缺少改良物记录",
		})
	}

	// 任何不动产都应至少有一条地块记录
	if len(property.LandRecords) == 0 {
		issues = append(issues, &models.ValidationIssue{
			RuleID:     RuleCrossPropertyRequiresLandRecord,
			EntityType: models.EntityTypeProperty,
			EntityID:   property.ID,
			PropertyID: property.ID,
			Level:      models.LevelError,
			Message:    "不动产缺少地块记录",
		})
	}

	// 声明的不动产类型对应的用途代码族应出现在某条地块记录中
	if family, exists := propertyTypeLandUseFamilies[property.PropertyType]; exists && len(property.LandRecords) > 0 {
		matched := false
		for _, lr := range property.LandRecords {
			if strings.HasPrefix(lr.LandUseCode, family) {
				matched = true
				break
			}
		}
		if !matched {
			issues = append(issues, &models.ValidationIssue{
				RuleID:     RuleCrossPropertyTypeLandUseMatch,
				EntityType: models.EntityTypeProperty,
				EntityID:   property.ID,
				PropertyID: property.ID,
				Level:      models.LevelWarning,
				Message:    fmt.Sprintf("不动产类型 %s 的用途代码族 %s 未出现在任何地块记录中", property.PropertyType, family),
				Details: models.JSONB{
					"property_type":   property.PropertyType,
					"expected_family": family,
				},
			})
		}
	}

	return issues
}
