/*
 * @module service/validation/condition
 * @description 条件树结构定义与解析，封闭式规则表达格式，不支持任何可执行代码注入
 * @architecture 规则引擎 - 条件表达层
 * @documentReference ai_docs/validation_req.md
 * @stateFlow 规则配置(JSON文本) -> ParseConditionTree -> ConditionNode -> Evaluator求值
 * @rules 规则实现文本按原文存储，仅在派发时解析，保证边界格式逐字节往返
 * @dependencies encoding/json
 * @refs service/validation/evaluator.go, service/validation/registry.go
 */

package validation

import (
	"encoding/json"
	"fmt"
)

// ConditionNode 条件树节点，以下分支按JSON键区分，同一节点上出现多个分支时按"全部满足"合取
type ConditionNode struct {
	RequiredFields  []string            `json:"requiredFields,omitempty"`
	FieldValues     []FieldPredicate    `json:"fieldValues,omitempty"`
	Patterns        []PatternPredicate  `json:"patterns,omitempty"`
	ValueList       *ValueListPredicate `json:"valueList,omitempty"`
	FieldConditions []FieldCondition    `json:"fieldConditions,omitempty"`
	And             []*ConditionNode    `json:"and,omitempty"`
	Or              []*ConditionNode    `json:"or,omitempty"`
	Not             *ConditionNode      `json:"not,omitempty"`
}

// FieldPredicate 字段比较谓词
type FieldPredicate struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

// PatternPredicate 正则匹配谓词
type PatternPredicate struct {
	Field string `json:"field"`
	Regex string `json:"regex"`
}

// ValueListPredicate 枚举值谓词
type ValueListPredicate struct {
	Field         string        `json:"field"`
	AllowedValues []interface{} `json:"allowedValues"`
}

// FieldCondition 条件蕴含谓词，If成立时要求Then成立，If不成立则整体视为满足
type FieldCondition struct {
	If   *ConditionNode `json:"if"`
	Then *ConditionNode `json:"then"`
}

// ParseConditionTree 解析序列化条件树文本
func ParseConditionTree(text string) (*ConditionNode, error) {
	if text == "" {
		return nil, fmt.Errorf("条件树文本为空")
	}
	var node ConditionNode
	if err := json.Unmarshal([]byte(text), &node); err != nil {
		return nil, fmt.Errorf("解析条件树失败: %w", err)
	}
	return &node, nil
}
