/*
 * @module service/lineage/provenance_test
 * @description 数据溯源查询测试，基于sqlite内存库
 * @architecture 测试层
 * @documentReference ai_docs/lineage_req.md
 * @stateFlow 多轮变更追踪 -> 字段溯源 -> 链条/起源/现值验证
 * @rules 变更链按时间升序且只含触及目标字段的记录
 * @dependencies testing, github.com/stretchr/testify, assessment-service/testutil
 * @refs provenance.go
 */

package lineage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessment-service/service/models"
	"assessment-service/testutil"
)

func TestGetEntityHistory_AscendingOrder(t *testing.T) {
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	tracker := NewTracker(tdb.DB, nil, nil)

	// 按倒序落库，查询结果必须按发生时间升序
	times := []time.Time{
		time.Now().Add(-1 * time.Hour),
		time.Now().Add(-3 * time.Hour),
		time.Now().Add(-2 * time.Hour),
	}
	for i, ts := range times {
		record := &models.LineageRecord{
			EntityType:   models.EntityTypeProperty,
			EntityID:     "prop-1",
			Operation:    models.LineageOperationUpdate,
			ChangeSource: models.ChangeSourceSystem,
			Changes:      models.FieldChangeList{{Field: "address", OldValue: i, NewValue: i + 1}},
			OccurredAt:   ts,
		}
		require.NoError(t, tdb.DB.Create(record).Error)
	}

	history, err := tracker.GetEntityHistory(context.Background(), models.EntityTypeProperty, "prop-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.True(t, history[0].OccurredAt.Before(history[1].OccurredAt))
	assert.True(t, history[1].OccurredAt.Before(history[2].OccurredAt))
}

func TestGetDataProvenance_FieldChain(t *testing.T) {
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	factory := testutil.NewTestDataFactory(tdb.DB)
	tracker := NewTracker(tdb.DB, nil, nil)

	property := factory.CreateProperty(func(p *models.Property) {
		p.Address = "当前地址"
	})

	ctx := context.Background()

	// 创建 -> 地址修改 -> 无关字段修改
	_, err := tracker.TrackChanges(ctx, models.EntityTypeProperty, property.ID,
		nil, map[string]interface{}{"address": "初始地址", "parcel_number": "PN-1"},
		models.ChangeSourceImport, "import-job-1", models.LineageOperationCreate, nil)
	require.NoError(t, err)

	_, err = tracker.TrackChanges(ctx, models.EntityTypeProperty, property.ID,
		map[string]interface{}{"address": "初始地址"}, map[string]interface{}{"address": "当前地址"},
		models.ChangeSourceUser, "assessor-7", models.LineageOperationUpdate, nil)
	require.NoError(t, err)

	_, err = tracker.TrackChanges(ctx, models.EntityTypeProperty, property.ID,
		map[string]interface{}{"assessed_value": 100.0}, map[string]interface{}{"assessed_value": 200.0},
		models.ChangeSourceUser, "assessor-8", models.LineageOperationUpdate, nil)
	require.NoError(t, err)

	result, err := tracker.GetDataProvenance(ctx, models.EntityTypeProperty, property.ID, "address")
	require.NoError(t, err)

	require.Len(t, result.Chain, 2, "链条只含触及address的记录")
	assert.Equal(t, models.LineageOperationCreate, result.Chain[0].Operation)
	assert.Equal(t, models.LineageOperationUpdate, result.Chain[1].Operation)

	require.NotNil(t, result.Origin)
	assert.Equal(t, models.ChangeSourceImport, result.Origin.Source)
	assert.Equal(t, "import-job-1", result.Origin.ChangedBy)

	assert.Equal(t, "当前地址", result.CurrentValue, "现值取实体当前存量")
}

func TestGetDataProvenance_NoTouchingRecords(t *testing.T) {
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	factory := testutil.NewTestDataFactory(tdb.DB)
	tracker := NewTracker(tdb.DB, nil, nil)

	property := factory.CreateProperty()

	result, err := tracker.GetDataProvenance(context.Background(), models.EntityTypeProperty, property.ID, "address")
	require.NoError(t, err)
	assert.Empty(t, result.Chain)
	assert.Nil(t, result.Origin)
	assert.Equal(t, property.Address, result.CurrentValue)
}
