/*
 * @module service/quality/anomaly_detector
 * @description 基于Z分数的数值字段异常检测器，输出总体统计指标与异常值明细
 * @architecture 数据质量 - 统计分析层
 * @documentReference ai_docs/quality_req.md
 * @stateFlow 数值抽取(含数值字符串强转) -> 样本量检查 -> 总体统计 -> Z分数异常判定
 * @rules 标准差使用总体标准差(除以N而非N-1)，与既有报表口径保持一致；
 *        分位数取floor(N×p)下标不插值；样本不足时只给基础统计绝不抛错
 * @dependencies github.com/spf13/cast, log/slog
 * @refs service/quality/report.go
 */

package quality

import (
	"log/slog"
	"math"
	"sort"

	"github.com/spf13/cast"

	"assessment-service/service/models"
	"assessment-service/service/validation"
)

// AnomalyConfig 异常检测配置
type AnomalyConfig struct {
	// SensitivityThreshold Z分数阈值，超过即判为异常
	SensitivityThreshold float64
	// MinSampleSize 最小样本量，不足时只输出基础统计
	MinSampleSize int
	// ExcludeOutliers 影响下游消费方是否剔除异常值，检测器本身不受影响
	ExcludeOutliers bool
}

// DefaultAnomalyConfig 默认配置：3.0个标准差，最小样本量30
func DefaultAnomalyConfig() AnomalyConfig {
	return AnomalyConfig{
		SensitivityThreshold: 3.0,
		MinSampleSize:        30,
	}
}

// AnomalyDetector 异常检测器，无内部状态
type AnomalyDetector struct{}

// NewAnomalyDetector 创建检测器
func NewAnomalyDetector() *AnomalyDetector {
	return &AnomalyDetector{}
}

// sample 带实体标识的数值样本点
type sample struct {
	entityID string
	value    float64
}

// DetectAnomalies 对实体快照集合的指定数值字段做异常检测，永不抛错
func (d *AnomalyDetector) DetectAnomalies(field string, entities []map[string]interface{}, config AnomalyConfig) *models.StatisticalMetrics {
	if config.SensitivityThreshold <= 0 {
		config.SensitivityThreshold = 3.0
	}
	if config.MinSampleSize <= 0 {
		config.MinSampleSize = 30
	}

	samples := extractSamples(field, entities)
	metrics := &models.StatisticalMetrics{
		Field: field,
		Count: len(samples),
	}
	if len(samples) == 0 {
		metrics.SampleLimit = true
		return metrics
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.value
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	// 总体标准差，除以N
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(values)))

	metrics.Mean = mean
	metrics.StdDev = stdDev
	metrics.Min = sorted[0]
	metrics.Max = sorted[len(sorted)-1]
	metrics.Quartile1 = quartile(sorted, 0.25)
	metrics.Median = quartile(sorted, 0.5)
	metrics.Quartile3 = quartile(sorted, 0.75)

	if len(samples) < config.MinSampleSize {
		metrics.SampleLimit = true
		slog.Info("样本量不足，异常检测结果置信度低，仅输出基础统计",
			"field", field, "count", len(samples), "min_sample_size", config.MinSampleSize)
		return metrics
	}

	if stdDev == 0 {
		return metrics
	}
	for _, s := range samples {
		z := math.Abs(s.value-mean) / stdDev
		if z > config.SensitivityThreshold {
			metrics.Outliers = append(metrics.Outliers, models.Outlier{
				EntityID: s.entityID,
				Value:    s.value,
				ZScore:   z,
			})
		}
	}

	return metrics
}

// extractSamples 抽取数值样本，数值字符串做强转，非数值跳过
func extractSamples(field string, entities []map[string]interface{}) []sample {
	samples := make([]sample, 0, len(entities))
	for _, entity := range entities {
		raw, exists := validation.LookupField(entity, field)
		if !exists || raw == nil {
			continue
		}
		value, err := cast.ToFloat64E(raw)
		if err != nil {
			continue
		}
		entityID := cast.ToString(entity["id"])
		samples = append(samples, sample{entityID: entityID, value: value})
	}
	return samples
}

// quartile 分位数取下标floor(N×p)，对升序样本不做插值
func quartile(sorted []float64, p float64) float64 {
	idx := int(math.Floor(float64(len(sorted)) * p))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
