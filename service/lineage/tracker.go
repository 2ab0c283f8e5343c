/*
 * @module service/lineage/tracker
 * @description 数据血缘追踪器，计算版本间字段级差异并追加不可变血缘记录
 * @architecture 数据治理 - 血缘追踪层
 * @documentReference ai_docs/lineage_req.md
 * @stateFlow 新旧版本快照 -> 字段差异计算 -> 血缘记录追加 -> 缓存失效事件 -> 审计消息异步投递
 * @rules 血缘日志只追加；固定排除字段列表不参与差异计算；结构等值比较为递归结构化而非引用比较，
 *        时间值按毫秒时间戳比较，数组比较区分顺序
 * @dependencies gorm.io/gorm, log/slog
 * @refs service/lineage/provenance.go, service/cache/invalidator.go, service/events/audit_publisher.go
 */

package lineage

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"time"

	"gorm.io/gorm"

	"assessment-service/service/models"
)

// excludedFields 永不参与差异计算的字段
var excludedFields = map[string]struct{}{
	"id":         {},
	"_id":        {},
	"createdAt":  {},
	"created_at": {},
	"updatedAt":  {},
	"updated_at": {},
	"_metadata":  {},
	"_internal":  {},
	"_version":   {},
	"_hash":      {},
}

// CacheInvalidator 缓存失效协作方
type CacheInvalidator interface {
	Invalidate(ctx context.Context, entityType, entityID, changeKind string) error
}

// AuditPublisher 血缘审计消息协作方，投递为尽力而为
type AuditPublisher interface {
	PublishLineage(ctx context.Context, record *models.LineageRecord)
}

// Tracker 血缘追踪器
type Tracker struct {
	db          *gorm.DB
	invalidator CacheInvalidator
	publisher   AuditPublisher
}

// NewTracker 创建追踪器，invalidator与publisher均可为nil
func NewTracker(db *gorm.DB, invalidator CacheInvalidator, publisher AuditPublisher) *Tracker {
	return &Tracker{
		db:          db,
		invalidator: invalidator,
		publisher:   publisher,
	}
}

// DetectFieldChanges 计算新旧版本间的字段级差异：
// 创建时为新版本每个可追踪字段生成一条只有新值的差异，删除时对称，
// 更新时取两版字段名并集，仅对不等值字段生成差异
func DetectFieldChanges(oldVersion, newVersion map[string]interface{}) []models.FieldChange {
	var changes []models.FieldChange

	switch {
	case oldVersion == nil && newVersion == nil:
		return nil
	case oldVersion == nil:
		for _, field := range trackableFields(newVersion) {
			changes = append(changes, models.FieldChange{
				Field:    field,
				NewValue: newVersion[field],
			})
		}
	case newVersion == nil:
		for _, field := range trackableFields(oldVersion) {
			changes = append(changes, models.FieldChange{
				Field:    field,
				OldValue: oldVersion[field],
			})
		}
	default:
		fieldSet := make(map[string]struct{})
		for field := range oldVersion {
			fieldSet[field] = struct{}{}
		}
		for field := range newVersion {
			fieldSet[field] = struct{}{}
		}
		fields := make([]string, 0, len(fieldSet))
		for field := range fieldSet {
			if _, excluded := excludedFields[field]; excluded {
				continue
			}
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			if !AreValuesEqual(oldVersion[field], newVersion[field]) {
				changes = append(changes, models.FieldChange{
					Field:    field,
					OldValue: oldVersion[field],
					NewValue: newVersion[field],
				})
			}
		}
	}

	return changes
}

// trackableFields 返回排序后的可追踪字段名
func trackableFields(version map[string]interface{}) []string {
	fields := make([]string, 0, len(version))
	for field := range version {
		if _, excluded := excludedFields[field]; excluded {
			continue
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// AreValuesEqual 递归结构等值比较
func AreValuesEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	// 时间值按毫秒时间戳比较
	at, aIsTime := a.(time.Time)
	bt, bIsTime := b.(time.Time)
	if aIsTime || bIsTime {
		if !aIsTime || !bIsTime {
			return false
		}
		return at.UnixMilli() == bt.UnixMilli()
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	switch av := a.(type) {
	case []interface{}:
		bv := b.([]interface{})
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !AreValuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]interface{}:
		bv := b.(map[string]interface{})
		if len(av) != len(bv) {
			return false
		}
		for key, aval := range av {
			bval, exists := bv[key]
			if !exists {
				return false
			}
			if !AreValuesEqual(aval, bval) {
				return false
			}
		}
		return true
	default:
		if reflect.TypeOf(a).Comparable() {
			return a == b
		}
		return reflect.DeepEqual(a, b)
	}
}

// TrackChanges 计算差异、追加血缘记录并触发缓存失效与审计投递
func (t *Tracker) TrackChanges(ctx context.Context, entityType, entityID string,
	oldVersion, newVersion map[string]interface{},
	sourceType, sourceID, operationType string,
	metadata map[string]interface{}) (*models.LineageRecord, error) {

	changes := DetectFieldChanges(oldVersion, newVersion)

	record := &models.LineageRecord{
		EntityType:   entityType,
		EntityID:     entityID,
		Operation:    operationType,
		ChangeSource: sourceType,
		ChangedBy:    sourceID,
		Changes:      changes,
		Metadata:     models.JSONB(metadata),
		OccurredAt:   time.Now(),
	}

	if err := t.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("血缘记录落库失败: %w", err)
	}

	if t.invalidator != nil {
		kind := changeKindForOperation(operationType)
		if err := t.invalidator.Invalidate(ctx, entityType, entityID, kind); err != nil {
			slog.Warn("缓存失效事件发送失败", "entity_type", entityType, "entity_id", entityID, "error", err)
		}
	}

	if t.publisher != nil {
		t.publisher.PublishLineage(ctx, record)
	}

	return record, nil
}

// changeKindForOperation 操作类型到缓存失效事件种类的映射
func changeKindForOperation(operationType string) string {
	switch operationType {
	case models.LineageOperationCreate:
		return "create"
	case models.LineageOperationDelete:
		return "delete"
	default:
		return "update"
	}
}
