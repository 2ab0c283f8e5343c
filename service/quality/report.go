/*
 * @module service/quality/report
 * @description 数据质量综合报告生成器，聚合质量指标、异常检测与高频问题
 * @architecture 数据质量 - 报告层
 * @documentReference ai_docs/quality_req.md
 * @stateFlow 加载实体 -> 快照化 -> 指标计算 -> 数值字段异常检测 -> 未关闭问题聚合
 * @rules 高频问题只统计未关闭(OPEN/ACKNOWLEDGED)的问题，按规则聚合取前10
 * @dependencies gorm.io/gorm
 * @refs service/quality/metrics_calculator.go, service/quality/anomaly_detector.go
 */

package quality

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"assessment-service/service/models"
)

// anomalyFields 各实体类型参与异常检测的数值字段
var anomalyFields = map[string][]string{
	models.EntityTypeProperty:    {"assessed_value", "market_value"},
	models.EntityTypeLandRecord:  {"acreage", "assessed_value"},
	models.EntityTypeImprovement: {"square_feet", "assessed_value"},
}

// topIssueLimit 报告中高频问题的条数上限
const topIssueLimit = 10

// Reporter 质量报告生成器
type Reporter struct {
	db         *gorm.DB
	calculator *MetricsCalculator
	detector   *AnomalyDetector
}

// NewReporter 创建报告生成器
func NewReporter(db *gorm.DB, calculator *MetricsCalculator, detector *AnomalyDetector) *Reporter {
	return &Reporter{
		db:         db,
		calculator: calculator,
		detector:   detector,
	}
}

// GenerateDataQualityReport 生成指定实体类型的质量综合报告
func (r *Reporter) GenerateDataQualityReport(ctx context.Context, entityType string) (*models.DataQualityReport, error) {
	snapshots, err := r.LoadEntitySnapshots(ctx, entityType)
	if err != nil {
		return nil, err
	}

	metrics, err := r.calculator.CalculateAndStore(ctx, entityType, snapshots)
	if err != nil {
		return nil, err
	}

	report := &models.DataQualityReport{
		EntityType:   entityType,
		GeneratedAt:  time.Now(),
		Metrics:      metrics,
		TotalRecords: int64(len(snapshots)),
		IssueSummary: make(map[string]int64),
	}

	config := DefaultAnomalyConfig()
	for _, field := range anomalyFields[entityType] {
		stats := r.detector.DetectAnomalies(field, snapshots, config)
		report.Anomalies = append(report.Anomalies, stats)
	}

	if err := r.aggregateIssues(ctx, entityType, report); err != nil {
		return nil, err
	}

	return report, nil
}

// LoadEntitySnapshots 加载实体集合并转换为扁平快照
func (r *Reporter) LoadEntitySnapshots(ctx context.Context, entityType string) ([]map[string]interface{}, error) {
	var entities []interface{}
	switch entityType {
	case models.EntityTypeProperty:
		var records []models.Property
		if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
			return nil, fmt.Errorf("加载不动产列表失败: %w", err)
		}
		for i := range records {
			entities = append(entities, &records[i])
		}
	case models.EntityTypeLandRecord:
		var records []models.LandRecord
		if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
			return nil, fmt.Errorf("加载地块记录列表失败: %w", err)
		}
		for i := range records {
			entities = append(entities, &records[i])
		}
	case models.EntityTypeImprovement:
		var records []models.Improvement
		if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
			return nil, fmt.Errorf("加载改良物列表失败: %w", err)
		}
		for i := range records {
			entities = append(entities, &records[i])
		}
	default:
		return nil, fmt.Errorf("不支持的实体类型: %s", entityType)
	}

	snapshots := make([]map[string]interface{}, 0, len(entities))
	for _, entity := range entities {
		snapshot, err := models.EntitySnapshot(entity)
		if err != nil {
			return nil, fmt.Errorf("构建实体快照失败: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// aggregateIssues 聚合未关闭问题：按级别汇总与按规则取高频前N
func (r *Reporter) aggregateIssues(ctx context.Context, entityType string, report *models.DataQualityReport) error {
	openStatuses := []string{models.IssueStatusOpen, models.IssueStatusAcknowledged}

	type levelCount struct {
		Level string
		Count int64
	}
	var levels []levelCount
	err := r.db.WithContext(ctx).Model(&models.ValidationIssue{}).
		Select("level, count(*) as count").
		Where("entity_type = ? AND status IN ?", entityType, openStatuses).
		Group("level").
		Scan(&levels).Error
	if err != nil {
		return fmt.Errorf("问题级别汇总失败: %w", err)
	}
	for _, lc := range levels {
		report.IssueSummary[lc.Level] = lc.Count
		report.OpenIssues += lc.Count
	}

	err = r.db.WithContext(ctx).Model(&models.ValidationIssue{}).
		Select("rule_id, level, count(*) as count").
		Where("entity_type = ? AND status IN ?", entityType, openStatuses).
		Group("rule_id, level").
		Order("count DESC").
		Limit(topIssueLimit).
		Scan(&report.TopIssues).Error
	if err != nil {
		return fmt.Errorf("高频问题聚合失败: %w", err)
	}

	return nil
}
