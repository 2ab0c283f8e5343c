/*
 * @module service/quality/metrics_calculator_test
 * @description 质量指标计算器测试，基于sqlite内存库
 * @architecture 测试层
 * @documentReference ai_docs/quality_req.md
 * @stateFlow 字段配置种子 -> 快照集合计算 -> 各维度得分验证
 * @rules 覆盖零分母优雅退化、时效性线性衰减与占位常量
 * @dependencies testing, github.com/stretchr/testify, assessment-service/testutil
 * @refs metrics_calculator.go
 */

package quality

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessment-service/service/models"
	"assessment-service/service/validation"
	"assessment-service/testutil"
)

func newTestCalculator(t *testing.T) (*testutil.TestDB, *testutil.TestDataFactory, *MetricsCalculator) {
	t.Helper()
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	factory := testutil.NewTestDataFactory(tdb.DB)
	registry := validation.NewRuleRegistry(validation.NewBuiltinEvaluators())
	validator := validation.NewValidator(tdb.DB, registry)
	return tdb, factory, NewMetricsCalculator(tdb.DB, validator, registry)
}

func snapshotWithTimestamp(fields map[string]interface{}, updatedAt time.Time) map[string]interface{} {
	snapshot := map[string]interface{}{"updated_at": updatedAt}
	for k, v := range fields {
		snapshot[k] = v
	}
	return snapshot
}

func TestCalculateQualityMetrics_EmptyDatasetDefaults(t *testing.T) {
	_, factory, calculator := newTestCalculator(t)
	factory.CreateQualityFieldConfig(models.EntityTypeProperty)

	metrics, err := calculator.CalculateQualityMetrics(context.Background(), models.EntityTypeProperty, nil)
	require.NoError(t, err)

	// 零分母一律优雅退化为满分
	assert.Equal(t, float64(1), metrics.Completeness)
	assert.Equal(t, float64(1), metrics.Validity)
	assert.Equal(t, float64(1), metrics.Uniqueness)
	assert.Equal(t, float64(1), metrics.Timeliness)
	assert.Equal(t, 0.95, metrics.Accuracy, "准确性为固定占位常量")
	assert.Equal(t, 0.95, metrics.Consistency, "一致性为固定占位常量")
	assert.Equal(t, int64(0), metrics.RecordCount)
}

func TestCalculateQualityMetrics_Completeness(t *testing.T) {
	_, factory, calculator := newTestCalculator(t)
	factory.CreateQualityFieldConfig(models.EntityTypeProperty)

	now := time.Now()
	entities := []map[string]interface{}{
		snapshotWithTimestamp(map[string]interface{}{
			"parcel_number": "PN-001", "address": "测试路1号", "property_type": "Residential",
		}, now),
		// 缺address(空串)与property_type(缺失)
		snapshotWithTimestamp(map[string]interface{}{
			"parcel_number": "PN-002", "address": "",
		}, now),
	}

	metrics, err := calculator.CalculateQualityMetrics(context.Background(), models.EntityTypeProperty, entities)
	require.NoError(t, err)
	// 非空出现4次 / (2实体 × 3必填字段)
	assert.InDelta(t, 4.0/6.0, metrics.Completeness, 0.0001)
}

func TestCalculateQualityMetrics_Validity(t *testing.T) {
	_, factory, calculator := newTestCalculator(t)
	factory.CreateQualityFieldConfig(models.EntityTypeProperty)
	factory.CreateValidationRule(func(r *models.ValidationRule) {
		r.ID = "require_parcel_number"
		r.Implementation = `{"requiredFields":["parcel_number"]}`
	})

	now := time.Now()
	entities := []map[string]interface{}{
		snapshotWithTimestamp(map[string]interface{}{"parcel_number": "PN-001"}, now),
		snapshotWithTimestamp(map[string]interface{}{"address": "无编号"}, now),
	}

	metrics, err := calculator.CalculateQualityMetrics(context.Background(), models.EntityTypeProperty, entities)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, metrics.Validity, 0.0001, "一半实体通过规则校验")
}

func TestCalculateQualityMetrics_UniquenessCaseFolded(t *testing.T) {
	_, factory, calculator := newTestCalculator(t)
	factory.CreateQualityFieldConfig(models.EntityTypeProperty, func(c *models.QualityFieldConfig) {
		c.RequiredFields = []string{"parcel_number"}
		c.UniqueFields = []string{"parcel_number"}
	})

	now := time.Now()
	entities := []map[string]interface{}{
		snapshotWithTimestamp(map[string]interface{}{"parcel_number": "ABC-1"}, now),
		snapshotWithTimestamp(map[string]interface{}{"parcel_number": "abc-1"}, now),
		snapshotWithTimestamp(map[string]interface{}{"parcel_number": "XYZ-9"}, now),
	}

	metrics, err := calculator.CalculateQualityMetrics(context.Background(), models.EntityTypeProperty, entities)
	require.NoError(t, err)
	// 大小写折叠后2个去重值 / 3个实体
	assert.InDelta(t, 2.0/3.0, metrics.Uniqueness, 0.0001)
}

func TestCalculateQualityMetrics_Timeliness(t *testing.T) {
	_, factory, calculator := newTestCalculator(t)
	factory.CreateQualityFieldConfig(models.EntityTypeProperty, func(c *models.QualityFieldConfig) {
		c.RequiredFields = []string{"parcel_number"}
	})

	fields := map[string]interface{}{"parcel_number": "PN-001"}

	t.Run("24小时内满分", func(t *testing.T) {
		entities := []map[string]interface{}{snapshotWithTimestamp(fields, time.Now().Add(-1*time.Hour))}
		metrics, err := calculator.CalculateQualityMetrics(context.Background(), models.EntityTypeProperty, entities)
		require.NoError(t, err)
		assert.Equal(t, float64(1), metrics.Timeliness)
	})

	t.Run("超过30天归零", func(t *testing.T) {
		entities := []map[string]interface{}{snapshotWithTimestamp(fields, time.Now().Add(-31*24*time.Hour))}
		metrics, err := calculator.CalculateQualityMetrics(context.Background(), models.EntityTypeProperty, entities)
		require.NoError(t, err)
		assert.Equal(t, float64(0), metrics.Timeliness)
	})

	t.Run("区间内线性衰减", func(t *testing.T) {
		// 平均年龄372小时恰好是衰减区间中点
		entities := []map[string]interface{}{snapshotWithTimestamp(fields, time.Now().Add(-372*time.Hour))}
		metrics, err := calculator.CalculateQualityMetrics(context.Background(), models.EntityTypeProperty, entities)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, metrics.Timeliness, 0.001)
	})

	t.Run("缺updated_at回退created_at", func(t *testing.T) {
		entities := []map[string]interface{}{{
			"parcel_number": "PN-001",
			"created_at":    time.Now().Add(-1 * time.Hour),
		}}
		metrics, err := calculator.CalculateQualityMetrics(context.Background(), models.EntityTypeProperty, entities)
		require.NoError(t, err)
		assert.Equal(t, float64(1), metrics.Timeliness)
	})
}

func TestCalculateQualityMetrics_NoConfigDefaults(t *testing.T) {
	_, _, calculator := newTestCalculator(t)

	now := time.Now()
	entities := []map[string]interface{}{
		snapshotWithTimestamp(map[string]interface{}{"parcel_number": "PN-001"}, now),
	}

	// 未配置字段集时完整性与唯一性退化为满分
	metrics, err := calculator.CalculateQualityMetrics(context.Background(), models.EntityTypeProperty, entities)
	require.NoError(t, err)
	assert.Equal(t, float64(1), metrics.Completeness)
	assert.Equal(t, float64(1), metrics.Uniqueness)
}

func TestCalculateAndStore_PersistsSnapshot(t *testing.T) {
	tdb, factory, calculator := newTestCalculator(t)
	factory.CreateQualityFieldConfig(models.EntityTypeProperty)

	snapshot, err := calculator.CalculateAndStore(context.Background(), models.EntityTypeProperty, nil)
	require.NoError(t, err)
	require.NotEmpty(t, snapshot.ID)

	var stored models.QualityMetricsSnapshot
	require.NoError(t, tdb.DB.First(&stored, "id = ?", snapshot.ID).Error)
	assert.Equal(t, models.EntityTypeProperty, stored.EntityType)
}
