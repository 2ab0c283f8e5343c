/*
 * @module service/validation/validator
 * @description 实体校验器，对不动产及其关联地块记录、改良物执行全部生效规则与固定跨实体规则
 * @architecture 规则引擎 - 编排层
 * @documentReference ai_docs/validation_req.md
 * @stateFlow 加载实体(含关联) -> 实体级规则派发 -> 关联实体规则派发 -> 跨实体规则 -> 问题即时落库
 * @rules 实体未找到为前置条件失败直接向调用方传播；每个产生的问题即时持久化，落库失败向调用方传播
 * @dependencies gorm.io/gorm, log/slog
 * @refs service/validation/registry.go, service/validation/cross_entity.go, service/validation/batch.go
 */

package validation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"assessment-service/service/models"
)

// Validator 实体校验器
type Validator struct {
	db       *gorm.DB
	registry *RuleRegistry
}

// NewValidator 创建校验器
func NewValidator(db *gorm.DB, registry *RuleRegistry) *Validator {
	return &Validator{
		db:       db,
		registry: registry,
	}
}

// ValidateProperty 校验单个不动产及其全部关联实体，返回累计问题列表。
// 不动产不存在时返回错误，调用方自行决定批量语义下的处置
func (v *Validator) ValidateProperty(ctx context.Context, propertyID string, evalCtx *EvaluationContext) ([]*models.ValidationIssue, error) {
	var property models.Property
	err := v.db.WithContext(ctx).
		Preload("LandRecords").
		Preload("Improvements").
		First(&property, "id = ?", propertyID).Error
	if err != nil {
		return nil, fmt.Errorf("加载不动产 %s 失败: %w", propertyID, err)
	}

	return v.ValidateLoadedProperty(ctx, &property, evalCtx)
}

// ValidateLoadedProperty 校验已加载(含关联)的不动产
func (v *Validator) ValidateLoadedProperty(ctx context.Context, property *models.Property, evalCtx *EvaluationContext) ([]*models.ValidationIssue, error) {
	if evalCtx == nil {
		evalCtx = NewEvaluationContext()
	}
	validationRunsTotal.WithLabelValues(models.EntityTypeProperty).Inc()

	var issues []*models.ValidationIssue

	propertyIssues, err := v.validateEntity(ctx, models.EntityTypeProperty, property.ID, property.ID, property, evalCtx)
	if err != nil {
		return nil, err
	}
	issues = append(issues, propertyIssues...)

	for i := range property.LandRecords {
		lr := &property.LandRecords[i]
		lrIssues, err := v.validateEntity(ctx, models.EntityTypeLandRecord, lr.ID, property.ID, lr, evalCtx)
		if err != nil {
			return nil, err
		}
		issues = append(issues, lrIssues...)
	}

	for i := range property.Improvements {
		imp := &property.Improvements[i]
		impIssues, err := v.validateEntity(ctx, models.EntityTypeImprovement, imp.ID, property.ID, imp, evalCtx)
		if err != nil {
			return nil, err
		}
		issues = append(issues, impIssues...)
	}

	crossIssues := EvaluateCrossEntityRules(property)
	for _, issue := range crossIssues {
		if err := v.persistIssue(ctx, issue); err != nil {
			return nil, err
		}
	}
	issues = append(issues, crossIssues...)

	return issues, nil
}

// validateEntity 对单个实体快照执行其类型范围内的全部生效规则
func (v *Validator) validateEntity(ctx context.Context, entityType, entityID, propertyID string, entity interface{}, evalCtx *EvaluationContext) ([]*models.ValidationIssue, error) {
	rules, err := v.ActiveRules(ctx, entityType)
	if err != nil {
		return nil, fmt.Errorf("加载 %s 规则失败: %w", entityType, err)
	}

	snapshot, err := models.EntitySnapshot(entity)
	if err != nil {
		return nil, fmt.Errorf("构建实体快照失败: %w", err)
	}

	var issues []*models.ValidationIssue
	for i := range rules {
		issue := v.registry.Dispatch(&rules[i], snapshot, evalCtx)
		if issue == nil {
			continue
		}
		issue.EntityType = entityType
		issue.EntityID = entityID
		issue.PropertyID = propertyID
		if err := v.persistIssue(ctx, issue); err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// ActiveRules 查询指定实体类型的全部生效规则
func (v *Validator) ActiveRules(ctx context.Context, entityType string) ([]models.ValidationRule, error) {
	var rules []models.ValidationRule
	err := v.db.WithContext(ctx).
		Where("entity_type = ? AND is_active = ?", entityType, true).
		Order("id").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// persistIssue 即时持久化单个问题。并发校验可能产生重复问题，重复问题无害，
// 落库失败属于审计路径上的致命错误，必须向调用方传播
func (v *Validator) persistIssue(ctx context.Context, issue *models.ValidationIssue) error {
	validationIssuesTotal.WithLabelValues(issue.Level).Inc()
	if err := v.db.WithContext(ctx).Create(issue).Error; err != nil {
		slog.Error("校验问题落库失败", "rule_id", issue.RuleID, "entity_id", issue.EntityID, "error", err)
		return fmt.Errorf("校验问题落库失败: %w", err)
	}
	return nil
}

// MarkValidated 更新不动产的最近校验时间，仅用于跳过优化，不参与正确性判断
func (v *Validator) MarkValidated(ctx context.Context, propertyID string) {
	now := time.Now()
	err := v.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ?", propertyID).
		Update("last_validated_at", now).Error
	if err != nil {
		slog.Warn("更新最近校验时间失败", "property_id", propertyID, "error", err)
	}
}
