/*
 * @module service/lineage/provenance
 * @description 数据溯源查询，重建单字段的变更链、起源信息与当前存量值
 * @architecture 数据治理 - 溯源查询层
 * @documentReference ai_docs/lineage_req.md
 * @stateFlow 拉取实体全量变更历史 -> 过滤触及目标字段的记录 -> 按时间升序 -> 起源/链条/现值组装
 * @rules 变更链按发生时间升序；起源取链上第一条记录的来源/时间/操作者
 * @dependencies gorm.io/gorm(经Tracker持有), assessment-service/service/validation
 * @refs service/lineage/tracker.go
 */

package lineage

import (
	"context"
	"fmt"
	"time"

	"assessment-service/service/models"
	"assessment-service/service/validation"
)

// ProvenanceOrigin 字段起源信息
type ProvenanceOrigin struct {
	Source     string `json:"source"`
	ChangedBy  string `json:"changed_by"`
	OccurredAt string `json:"occurred_at"`
}

// ProvenanceResult 字段溯源结果
type ProvenanceResult struct {
	EntityType   string                 `json:"entity_type"`
	EntityID     string                 `json:"entity_id"`
	Field        string                 `json:"field"`
	Chain        []models.LineageRecord `json:"chain"`
	Origin       *ProvenanceOrigin      `json:"origin,omitempty"`
	CurrentValue interface{}            `json:"current_value,omitempty"`
}

// GetEntityHistory 拉取实体的全量血缘历史，按发生时间升序
func (t *Tracker) GetEntityHistory(ctx context.Context, entityType, entityID string) ([]models.LineageRecord, error) {
	var records []models.LineageRecord
	err := t.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("occurred_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("加载血缘历史失败: %w", err)
	}
	return records, nil
}

// GetDataProvenance 重建单字段的溯源：触及该字段的变更链、起源与当前存量值
func (t *Tracker) GetDataProvenance(ctx context.Context, entityType, entityID, field string) (*ProvenanceResult, error) {
	history, err := t.GetEntityHistory(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}

	result := &ProvenanceResult{
		EntityType: entityType,
		EntityID:   entityID,
		Field:      field,
	}

	for _, record := range history {
		for _, change := range record.Changes {
			if change.Field == field {
				result.Chain = append(result.Chain, record)
				break
			}
		}
	}

	if len(result.Chain) > 0 {
		first := result.Chain[0]
		result.Origin = &ProvenanceOrigin{
			Source:     first.ChangeSource,
			ChangedBy:  first.ChangedBy,
			OccurredAt: first.OccurredAt.Format(time.RFC3339),
		}
	}

	current, err := t.currentFieldValue(ctx, entityType, entityID, field)
	if err == nil {
		result.CurrentValue = current
	}

	return result, nil
}

// currentFieldValue 加载实体当前版本并取目标字段的存量值
func (t *Tracker) currentFieldValue(ctx context.Context, entityType, entityID, field string) (interface{}, error) {
	var entity interface{}
	switch entityType {
	case models.EntityTypeProperty:
		var record models.Property
		if err := t.db.WithContext(ctx).First(&record, "id = ?", entityID).Error; err != nil {
			return nil, err
		}
		entity = &record
	case models.EntityTypeLandRecord:
		var record models.LandRecord
		if err := t.db.WithContext(ctx).First(&record, "id = ?", entityID).Error; err != nil {
			return nil, err
		}
		entity = &record
	case models.EntityTypeImprovement:
		var record models.Improvement
		if err := t.db.WithContext(ctx).First(&record, "id = ?", entityID).Error; err != nil {
			return nil, err
		}
		entity = &record
	default:
		return nil, fmt.Errorf("不支持的实体类型: %s", entityType)
	}

	snapshot, err := models.EntitySnapshot(entity)
	if err != nil {
		return nil, err
	}
	value, _ := validation.LookupField(snapshot, field)
	return value, nil
}
