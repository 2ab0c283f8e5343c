/*
 * @module service/models/quality
 * @description 数据质量相关模型定义，包括质量指标快照、字段级质量配置、质量报告与统计指标
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/quality_req.md
 * @stateFlow 字段配置 -> 指标计算 -> 快照落库 -> 报告生成
 * @rules 质量得分统一取值[0,1]；空数据集各维度默认满分；快照只追加
 * @dependencies gorm.io/gorm, github.com/google/uuid, github.com/lib/pq
 * @refs service/quality/metrics_calculator.go, service/quality/report.go
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// QualityMetricsSnapshot 质量指标快照模型，记录某实体类型在某时点的六维质量得分
type QualityMetricsSnapshot struct {
	ID           string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	EntityType   string    `gorm:"type:varchar(30);not null;index" json:"entity_type"`
	Completeness float64   `gorm:"type:decimal(5,4);default:0" json:"completeness"`
	Accuracy     float64   `gorm:"type:decimal(5,4);default:0" json:"accuracy"`
	Consistency  float64   `gorm:"type:decimal(5,4);default:0" json:"consistency"`
	Validity     float64   `gorm:"type:decimal(5,4);default:0" json:"validity"`
	Uniqueness   float64   `gorm:"type:decimal(5,4);default:0" json:"uniqueness"`
	Timeliness   float64   `gorm:"type:decimal(5,4);default:0" json:"timeliness"`
	OverallScore float64   `gorm:"type:decimal(5,4);default:0" json:"overall_score"`
	RecordCount  int64     `gorm:"default:0" json:"record_count"`
	CalculatedAt time.Time `gorm:"index" json:"calculated_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName 指定表名
func (QualityMetricsSnapshot) TableName() string {
	return "quality_metrics_snapshots"
}

// BeforeCreate 创建前钩子
func (q *QualityMetricsSnapshot) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.CalculatedAt.IsZero() {
		q.CalculatedAt = time.Now()
	}
	return nil
}

// QualityFieldConfig 字段级质量计算配置，声明各实体类型参与完整性/唯一性计算的字段集合
type QualityFieldConfig struct {
	ID             string         `gorm:"type:varchar(50);primaryKey" json:"id"`
	EntityType     string         `gorm:"type:varchar(30);not null;uniqueIndex" json:"entity_type"`
	RequiredFields pq.StringArray `gorm:"type:text[]" json:"required_fields"`
	UniqueFields   pq.StringArray `gorm:"type:text[]" json:"unique_fields"`
	TimestampField string         `gorm:"type:varchar(50);default:'updated_at'" json:"timestamp_field"`
	IsEnabled      bool           `gorm:"default:true" json:"is_enabled"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TableName 指定表名
func (QualityFieldConfig) TableName() string {
	return "quality_field_configs"
}

// BeforeCreate 创建前钩子
func (q *QualityFieldConfig) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

// DataQualityReport 数据质量综合报告（非持久化），聚合质量指标、异常检测结果与高频问题
type DataQualityReport struct {
	EntityType   string                  `json:"entity_type"`
	GeneratedAt  time.Time               `json:"generated_at"`
	Metrics      *QualityMetricsSnapshot `json:"metrics"`
	Anomalies    []*StatisticalMetrics   `json:"anomalies,omitempty"`
	TopIssues    []IssueFrequency        `json:"top_issues,omitempty"`
	IssueSummary map[string]int64        `json:"issue_summary"` // 按级别统计的未关闭问题数
	OpenIssues   int64                   `json:"open_issues"`
	TotalRecords int64                   `json:"total_records"`
}

// IssueFrequency 按规则聚合的问题频次
type IssueFrequency struct {
	RuleID string `json:"rule_id"`
	Level  string `json:"level"`
	Count  int64  `json:"count"`
}

// StatisticalMetrics 数值字段统计指标（非持久化），供异常检测与剖析接口使用
type StatisticalMetrics struct {
	Field       string    `json:"field"`
	Count       int       `json:"count"`
	Mean        float64   `json:"mean"`
	Median      float64   `json:"median"`
	StdDev      float64   `json:"std_dev"`
	Min         float64   `json:"min"`
	Max         float64   `json:"max"`
	Quartile1   float64   `json:"quartile1"`
	Quartile3   float64   `json:"quartile3"`
	Outliers    []Outlier `json:"outliers,omitempty"`
	SampleLimit bool      `json:"sample_limit"` // 样本量不足时仅给出基础统计
}

// Outlier 异常值明细
type Outlier struct {
	EntityID string  `json:"entity_id"`
	Value    float64 `json:"value"`
	ZScore   float64 `json:"z_score"`
}
