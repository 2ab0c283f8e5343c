/*
 * @module service/models/lineage
 * @description 数据血缘与溯源模型定义，记录实体变更历史及字段级差异
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/lineage_req.md
 * @stateFlow 变更捕获 -> 字段差异计算 -> 血缘记录落库 -> 溯源查询
 * @rules 血缘记录只追加不修改；字段差异列表按JSONB整体存储
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/lineage/tracker.go, service/lineage/provenance.go
 */

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 血缘操作类型常量
const (
	LineageOperationCreate    = "CREATE"
	LineageOperationUpdate    = "UPDATE"
	LineageOperationDelete    = "DELETE"
	LineageOperationMerge     = "MERGE"
	LineageOperationSplit     = "SPLIT"
	LineageOperationTransform = "TRANSFORM"
)

// 变更来源类型常量
const (
	ChangeSourceUser        = "USER"
	ChangeSourceImport      = "IMPORT"
	ChangeSourceETL         = "ETL"
	ChangeSourceSystem      = "SYSTEM"
	ChangeSourceAPI         = "API"
	ChangeSourceIntegration = "INTEGRATION"
)

// FieldChange 单字段变更差异
// Derived/Formula/Confidence仅在计算字段变更时填写
type FieldChange struct {
	Field      string      `json:"field"`
	OldValue   interface{} `json:"old_value"`
	NewValue   interface{} `json:"new_value"`
	Derived    bool        `json:"derived,omitempty"`
	Formula    string      `json:"formula,omitempty"`
	Confidence float64     `json:"confidence,omitempty"`
}

// FieldChangeList 字段变更差异列表，作为JSONB整体存储
type FieldChangeList []FieldChange

// Value 实现driver.Valuer接口
func (f FieldChangeList) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// Scan 实现sql.Scanner接口
func (f *FieldChangeList) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("类型断言失败: 不是 []byte 或 string")
	}

	return json.Unmarshal(bytes, f)
}

// LineageRecord 数据血缘记录模型
type LineageRecord struct {
	ID           string          `gorm:"type:varchar(50);primaryKey" json:"id"`
	EntityType   string          `gorm:"type:varchar(30);not null;index:idx_lineage_entity" json:"entity_type"`
	EntityID     string          `gorm:"type:varchar(50);not null;index:idx_lineage_entity" json:"entity_id"`
	Operation    string          `gorm:"type:varchar(20);not null" json:"operation"`     // CREATE/UPDATE/DELETE/MERGE/SPLIT/TRANSFORM
	ChangeSource string          `gorm:"type:varchar(20);not null" json:"change_source"` // USER/IMPORT/ETL/SYSTEM/API/INTEGRATION
	ChangedBy    string          `gorm:"type:varchar(50);default:'system'" json:"changed_by"`
	Changes      FieldChangeList `gorm:"type:jsonb" json:"changes"`
	Metadata     JSONB           `gorm:"type:jsonb" json:"metadata,omitempty"`
	OccurredAt   time.Time       `gorm:"index" json:"occurred_at"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TableName 指定表名
func (LineageRecord) TableName() string {
	return "lineage_records"
}

// BeforeCreate 创建前钩子
func (l *LineageRecord) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.OccurredAt.IsZero() {
		l.OccurredAt = time.Now()
	}
	if l.ChangedBy == "" {
		l.ChangedBy = "system"
	}
	return nil
}
