/*
 * @module service/quality/metrics_calculator
 * @description 质量指标计算器，对实体快照集合计算六维质量得分
 * @architecture 数据质量 - 指标计算层
 * @documentReference ai_docs/quality_req.md
 * @stateFlow 字段配置加载 -> 逐维度计算 -> 综合得分 -> 可选快照落库
 * @rules 所有比值类计算零分母一律取1，空数据集优雅退化为满分；准确性与一致性为0.95固定占位值，
 *        尚未数据驱动，这是文档化的已知限制，不得擅自"改进"
 * @dependencies gorm.io/gorm, golang.org/x/text/cases, github.com/spf13/cast
 * @refs service/validation/registry.go, service/quality/report.go
 */

package quality

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"assessment-service/service/models"
	"assessment-service/service/validation"
)

// 准确性与一致性占位常量，尚无数据驱动来源
const (
	placeholderAccuracy    = 0.95
	placeholderConsistency = 0.95
)

// 时效性评分边界(小时)
const (
	timelinessFreshHours = 24
	timelinessStaleHours = 720
)

// RuleSource 规则来源，由校验器实现
type RuleSource interface {
	ActiveRules(ctx context.Context, entityType string) ([]models.ValidationRule, error)
}

// MetricsCalculator 质量指标计算器
type MetricsCalculator struct {
	db       *gorm.DB
	rules    RuleSource
	registry *validation.RuleRegistry
}

// NewMetricsCalculator 创建计算器
func NewMetricsCalculator(db *gorm.DB, rules RuleSource, registry *validation.RuleRegistry) *MetricsCalculator {
	return &MetricsCalculator{
		db:       db,
		rules:    rules,
		registry: registry,
	}
}

// CalculateQualityMetrics 计算实体类型的六维质量指标，entities为扁平快照集合
func (c *MetricsCalculator) CalculateQualityMetrics(ctx context.Context, entityType string, entities []map[string]interface{}) (*models.QualityMetricsSnapshot, error) {
	config, err := c.fieldConfig(ctx, entityType)
	if err != nil {
		return nil, err
	}

	completeness := c.calculateCompleteness(entities, config.RequiredFields)
	validity, err := c.calculateValidity(ctx, entityType, entities)
	if err != nil {
		return nil, err
	}
	uniqueness := c.calculateUniqueness(entities, config.UniqueFields)
	timeliness := c.calculateTimeliness(entities, config.TimestampField)

	snapshot := &models.QualityMetricsSnapshot{
		EntityType:   entityType,
		Completeness: completeness,
		Accuracy:     placeholderAccuracy,
		Consistency:  placeholderConsistency,
		Validity:     validity,
		Uniqueness:   uniqueness,
		Timeliness:   timeliness,
		RecordCount:  int64(len(entities)),
		CalculatedAt: time.Now(),
	}
	snapshot.OverallScore = (snapshot.Completeness + snapshot.Accuracy + snapshot.Consistency +
		snapshot.Validity + snapshot.Uniqueness + snapshot.Timeliness) / 6

	return snapshot, nil
}

// CalculateAndStore 计算指标并落库快照
func (c *MetricsCalculator) CalculateAndStore(ctx context.Context, entityType string, entities []map[string]interface{}) (*models.QualityMetricsSnapshot, error) {
	snapshot, err := c.CalculateQualityMetrics(ctx, entityType, entities)
	if err != nil {
		return nil, err
	}
	if err := c.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return nil, fmt.Errorf("质量指标快照落库失败: %w", err)
	}
	return snapshot, nil
}

// fieldConfig 加载实体类型的字段级质量配置，未配置时返回空配置(各维度退化为满分)
func (c *MetricsCalculator) fieldConfig(ctx context.Context, entityType string) (*models.QualityFieldConfig, error) {
	var config models.QualityFieldConfig
	err := c.db.WithContext(ctx).
		Where("entity_type = ? AND is_enabled = ?", entityType, true).
		First(&config).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &models.QualityFieldConfig{EntityType: entityType, TimestampField: "updated_at"}, nil
		}
		return nil, fmt.Errorf("加载质量字段配置失败: %w", err)
	}
	if config.TimestampField == "" {
		config.TimestampField = "updated_at"
	}
	return &config, nil
}

// calculateCompleteness 完整性 = 必填字段非空出现次数 / (实体数 × 必填字段数)，零分母取1
func (c *MetricsCalculator) calculateCompleteness(entities []map[string]interface{}, requiredFields []string) float64 {
	denominator := len(entities) * len(requiredFields)
	if denominator == 0 {
		return 1
	}

	nonNull := 0
	for _, entity := range entities {
		for _, field := range requiredFields {
			value, exists := validation.LookupField(entity, field)
			if !exists || value == nil {
				continue
			}
			if s, ok := value.(string); ok && s == "" {
				continue
			}
			nonNull++
		}
	}
	return float64(nonNull) / float64(denominator)
}

// calculateValidity 有效性 = 通过全部生效规则的实体数 / 实体数，零分母取1
func (c *MetricsCalculator) calculateValidity(ctx context.Context, entityType string, entities []map[string]interface{}) (float64, error) {
	if len(entities) == 0 {
		return 1, nil
	}
	rules, err := c.rules.ActiveRules(ctx, entityType)
	if err != nil {
		return 0, fmt.Errorf("加载 %s 规则失败: %w", entityType, err)
	}

	evalCtx := validation.NewEvaluationContext()
	passing := 0
	for _, entity := range entities {
		valid := true
		for i := range rules {
			if issue := c.registry.Dispatch(&rules[i], entity, evalCtx); issue != nil {
				valid = false
				break
			}
		}
		if valid {
			passing++
		}
	}
	return float64(passing) / float64(len(entities)), nil
}

// calculateUniqueness 唯一性 = 各唯一字段(去重值数/实体数)的平均值，字符串按大小写折叠去重，零分母取1
func (c *MetricsCalculator) calculateUniqueness(entities []map[string]interface{}, uniqueFields []string) float64 {
	if len(uniqueFields) == 0 || len(entities) == 0 {
		return 1
	}

	folder := cases.Fold()
	sum := 0.0
	for _, field := range uniqueFields {
		distinct := make(map[string]struct{}, len(entities))
		for _, entity := range entities {
			value, exists := validation.LookupField(entity, field)
			if !exists || value == nil {
				continue
			}
			key := folder.String(cast.ToString(value))
			distinct[key] = struct{}{}
		}
		sum += float64(len(distinct)) / float64(len(entities))
	}
	return sum / float64(len(uniqueFields))
}

// calculateTimeliness 时效性：取(updated_at ?? created_at)的平均年龄(小时)，
// 24小时内满分，线性衰减至720小时(30天)归零，结果钳制在[0,1]
func (c *MetricsCalculator) calculateTimeliness(entities []map[string]interface{}, timestampField string) float64 {
	if len(entities) == 0 {
		return 1
	}

	now := time.Now()
	var totalHours float64
	counted := 0
	for _, entity := range entities {
		ts, ok := entityTimestamp(entity, timestampField)
		if !ok {
			continue
		}
		totalHours += now.Sub(ts).Hours()
		counted++
	}
	if counted == 0 {
		return 1
	}

	avgHours := totalHours / float64(counted)
	if avgHours <= timelinessFreshHours {
		return 1
	}
	score := 1 - (avgHours-timelinessFreshHours)/(timelinessStaleHours-timelinessFreshHours)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// entityTimestamp 从快照中解析时间戳字段，优先配置字段，回退created_at
func entityTimestamp(entity map[string]interface{}, timestampField string) (time.Time, bool) {
	for _, field := range []string{timestampField, "created_at"} {
		value, exists := validation.LookupField(entity, field)
		if !exists || value == nil {
			continue
		}
		if ts, ok := parseTimeValue(value); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseTimeValue 解析快照中的时间值，支持time.Time原值与RFC3339字符串(JSON归一结果)
func parseTimeValue(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			return ts, true
		}
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
