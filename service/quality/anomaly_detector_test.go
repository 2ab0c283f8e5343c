/*
 * @module service/quality/anomaly_detector_test
 * @description 异常检测器测试，不依赖数据库
 * @architecture 测试层
 * @documentReference ai_docs/quality_req.md
 * @stateFlow 样本构造 -> 统计计算 -> 异常判定验证
 * @rules 覆盖总体标准差口径、floor分位数、阈值灵敏度与样本量下限
 * @dependencies testing, github.com/stretchr/testify/assert
 * @refs anomaly_detector.go
 */

package quality

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entitiesWithValues(field string, values []float64) []map[string]interface{} {
	entities := make([]map[string]interface{}, len(values))
	for i, v := range values {
		entities[i] = map[string]interface{}{
			"id":  fmt.Sprintf("entity-%d", i),
			field: v,
		}
	}
	return entities
}

func TestAnomalyDetector_OutlierByZScore(t *testing.T) {
	detector := NewAnomalyDetector()

	// 30个常规值加1个极端值
	values := make([]float64, 0, 31)
	for i := 0; i < 30; i++ {
		values = append(values, 10)
	}
	values = append(values, 1000)
	entities := entitiesWithValues("assessed_value", values)

	config := DefaultAnomalyConfig()
	metrics := detector.DetectAnomalies("assessed_value", entities, config)

	assert.Equal(t, 31, metrics.Count)
	assert.InDelta(t, 41.935, metrics.Mean, 0.01)
	// 总体标准差口径，除以N
	assert.InDelta(t, 174.94, metrics.StdDev, 0.1)
	assert.False(t, metrics.SampleLimit)

	require.Len(t, metrics.Outliers, 1)
	assert.Equal(t, "entity-30", metrics.Outliers[0].EntityID)
	assert.Equal(t, float64(1000), metrics.Outliers[0].Value)
	assert.InDelta(t, 5.48, metrics.Outliers[0].ZScore, 0.01)

	// 阈值调高后不再判为异常
	config.SensitivityThreshold = 10.0
	metrics = detector.DetectAnomalies("assessed_value", entities, config)
	assert.Empty(t, metrics.Outliers)
}

func TestAnomalyDetector_QuartilesNoInterpolation(t *testing.T) {
	detector := NewAnomalyDetector()
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	entities := entitiesWithValues("v", values)

	config := DefaultAnomalyConfig()
	config.MinSampleSize = 1
	metrics := detector.DetectAnomalies("v", entities, config)

	// 下标取floor(N×p)：floor(2)=2, floor(4)=4, floor(6)=6
	assert.Equal(t, float64(3), metrics.Quartile1)
	assert.Equal(t, float64(5), metrics.Median)
	assert.Equal(t, float64(7), metrics.Quartile3)
	assert.Equal(t, float64(1), metrics.Min)
	assert.Equal(t, float64(8), metrics.Max)
}

func TestAnomalyDetector_BelowMinSampleSize(t *testing.T) {
	detector := NewAnomalyDetector()
	entities := entitiesWithValues("v", []float64{10, 20, 1000})

	metrics := detector.DetectAnomalies("v", entities, DefaultAnomalyConfig())

	assert.Equal(t, 3, metrics.Count)
	assert.True(t, metrics.SampleLimit, "样本不足只给基础统计")
	assert.Empty(t, metrics.Outliers)
	assert.InDelta(t, 343.33, metrics.Mean, 0.01, "基础统计仍然可用")
}

func TestAnomalyDetector_NumericStringCoercion(t *testing.T) {
	detector := NewAnomalyDetector()
	entities := []map[string]interface{}{
		{"id": "a", "v": "100"},
		{"id": "b", "v": 200.0},
		{"id": "c", "v": "not a number"},
		{"id": "d"},
	}

	config := DefaultAnomalyConfig()
	config.MinSampleSize = 1
	metrics := detector.DetectAnomalies("v", entities, config)

	assert.Equal(t, 2, metrics.Count, "数值字符串强转，非数值与缺失跳过")
	assert.InDelta(t, 150, metrics.Mean, 0.001)
}

func TestAnomalyDetector_NeverThrows(t *testing.T) {
	detector := NewAnomalyDetector()

	assert.NotPanics(t, func() {
		metrics := detector.DetectAnomalies("v", nil, DefaultAnomalyConfig())
		assert.Equal(t, 0, metrics.Count)
		assert.True(t, metrics.SampleLimit)
	})

	assert.NotPanics(t, func() {
		// 零方差样本不产生异常
		config := DefaultAnomalyConfig()
		config.MinSampleSize = 1
		metrics := detector.DetectAnomalies("v", entitiesWithValues("v", []float64{5, 5, 5, 5}), config)
		assert.Equal(t, float64(0), metrics.StdDev)
		assert.Empty(t, metrics.Outliers)
	})
}
