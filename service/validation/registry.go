/*
 * @module service/validation/registry
 * @description 规则注册表与派发器，将规则ID映射到静态注册评估器或条件树求值能力
 * @architecture 规则引擎 - 派发层
 * @documentReference ai_docs/validation_req.md
 * @stateFlow 构造期注入评估器 -> 注册表冻结 -> 派发时按规则ID查找或解析条件树
 * @rules 注册表构造后不可变；既无注册评估器又无可解析实现的规则静默不产生问题(文档化行为)；评估器panic在派发边界捕获放行
 * @dependencies log/slog
 * @refs service/validation/evaluator.go, service/validation/builtin_rules.go
 */

package validation

import (
	"log/slog"

	"assessment-service/service/models"
)

// RuleEvaluator 规则评估能力，返回nil表示实体通过该规则
type RuleEvaluator interface {
	Evaluate(entity map[string]interface{}, ctx *EvaluationContext) *models.ValidationIssue
}

// EvaluatorFunc 函数式评估器适配
type EvaluatorFunc func(entity map[string]interface{}, ctx *EvaluationContext) *models.ValidationIssue

// Evaluate 实现RuleEvaluator接口
func (f EvaluatorFunc) Evaluate(entity map[string]interface{}, ctx *EvaluationContext) *models.ValidationIssue {
	return f(entity, ctx)
}

// RuleRegistry 规则注册表，构造期一次性注入全部静态评估器，之后只读
type RuleRegistry struct {
	evaluators map[string]RuleEvaluator
	evaluator  *Evaluator
}

// NewRuleRegistry 创建注册表，对传入映射做防御性拷贝，构造后不提供任何变更入口
func NewRuleRegistry(evaluators map[string]RuleEvaluator) *RuleRegistry {
	copied := make(map[string]RuleEvaluator, len(evaluators))
	for id, ev := range evaluators {
		copied[id] = ev
	}
	return &RuleRegistry{
		evaluators: copied,
		evaluator:  NewEvaluator(),
	}
}

// HasEvaluator 判断规则ID是否有静态注册评估器
func (r *RuleRegistry) HasEvaluator(ruleID string) bool {
	_, exists := r.evaluators[ruleID]
	return exists
}

// Dispatch 派发单条规则：优先静态评估器，其次解析条件树求值；条件不满足时合成问题。
// 返回nil表示实体通过该规则或规则无可用评估能力。
// 评估器panic在此边界捕获，记日志后放行，单条坏规则不得中断其余规则与实体的校验
func (r *RuleRegistry) Dispatch(rule *models.ValidationRule, entity map[string]interface{}, ctx *EvaluationContext) (issue *models.ValidationIssue) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("规则评估器panic，放行该规则", "rule_id", rule.ID, "panic", rec)
			issue = nil
		}
	}()

	ref := rule.EvaluatorRef
	if ref == "" {
		ref = rule.ID
	}
	if ev, exists := r.evaluators[ref]; exists {
		issue = ev.Evaluate(entity, ctx)
		if issue != nil {
			r.stampIssue(issue, rule)
		}
		return issue
	}

	if rule.Implementation == "" {
		// 文档化行为：既无评估器又无实现的规则静默跳过
		return nil
	}

	node, err := ParseConditionTree(rule.Implementation)
	if err != nil {
		slog.Debug("规则条件树不可解析，跳过", "rule_id", rule.ID, "error", err)
		return nil
	}

	if r.evaluator.Evaluate(node, entity, ctx) {
		return nil
	}

	issue = &models.ValidationIssue{
		Message: rule.Message,
		Details: models.JSONB{
			"category": rule.Category,
		},
	}
	r.stampIssue(issue, rule)
	return issue
}

// stampIssue 用规则元信息标记问题
func (r *RuleRegistry) stampIssue(issue *models.ValidationIssue, rule *models.ValidationRule) {
	issue.RuleID = rule.ID
	issue.Level = rule.Level
	if issue.EntityType == "" {
		issue.EntityType = rule.EntityType
	}
	if issue.Message == "" {
		issue.Message = rule.Message
	}
}
