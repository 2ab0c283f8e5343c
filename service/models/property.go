/*
 * @module service/models/property
 * @description 不动产评估实体模型定义，包括不动产、地块记录和地上改良物
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/assessment_model.md
 * @stateFlow 不动产登记 -> 评估 -> 校验 -> 发布
 * @rules 实体间为无环的值引用关系，校验时以快照形式传递
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/validation, service/quality
 */

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 实体类型常量
const (
	EntityTypeProperty    = "PROPERTY"
	EntityTypeLandRecord  = "LAND_RECORD"
	EntityTypeImprovement = "IMPROVEMENT"
)

// 不动产类型常量
const (
	PropertyTypeResidential  = "Residential"
	PropertyTypeCommercial   = "Commercial"
	PropertyTypeIndustrial   = "Industrial"
	PropertyTypeAgricultural = "Agricultural"
	PropertyTypeExempt       = "Exempt"
)

// Property 不动产模型
type Property struct {
	ID              string        `gorm:"type:varchar(50);primaryKey" json:"id"`
	ParcelNumber    string        `gorm:"type:varchar(50);not null;uniqueIndex" json:"parcel_number"`
	Address         string        `gorm:"type:varchar(200)" json:"address"`
	PropertyType    string        `gorm:"type:varchar(30);not null;index" json:"property_type"` // Residential/Commercial/Industrial/Agricultural/Exempt
	AssessedValue   float64       `json:"assessed_value"`
	MarketValue     float64       `json:"market_value"`
	Status          string        `gorm:"type:varchar(20);default:'active'" json:"status"`
	LastValidatedAt *time.Time    `json:"last_validated_at,omitempty"` // 最近一次校验时间，跳过优化使用，无同步保护
	LandRecords     []LandRecord  `gorm:"foreignKey:PropertyID" json:"land_records,omitempty"`
	Improvements    []Improvement `gorm:"foreignKey:PropertyID" json:"improvements,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// TableName 指定表名
func (Property) TableName() string {
	return "properties"
}

// BeforeCreate 创建前钩子
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// LandRecord 地块记录模型
type LandRecord struct {
	ID            string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	PropertyID    string    `gorm:"type:varchar(50);not null;index" json:"property_id"`
	LandUseCode   string    `gorm:"type:varchar(30)" json:"land_use_code"` // 如 RES-1, COM-2, IND-1, AGR-3
	Acreage       float64   `json:"acreage"`
	AssessedValue float64   `json:"assessed_value"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 指定表名
func (LandRecord) TableName() string {
	return "land_records"
}

// BeforeCreate 创建前钩子
func (l *LandRecord) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// Improvement 地上改良物模型
type Improvement struct {
	ID              string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	PropertyID      string    `gorm:"type:varchar(50);not null;index" json:"property_id"`
	ImprovementType string    `gorm:"type:varchar(50)" json:"improvement_type"` // dwelling/garage/barn/pool等
	YearBuilt       int       `json:"year_built"`
	SquareFeet      float64   `json:"square_feet"`
	Condition       string    `gorm:"type:varchar(20)" json:"condition"` // excellent/good/fair/poor
	AssessedValue   float64   `json:"assessed_value"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Improvement) TableName() string {
	return "improvements"
}

// BeforeCreate 创建前钩子
func (i *Improvement) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// EntitySnapshot 将实体转换为扁平快照（键为JSON字段名，嵌套结构通过点路径访问）
// 快照经过JSON序列化归一，数值统一为float64，保证规则评估的确定性
func EntitySnapshot(entity interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	var snapshot map[string]interface{}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}
