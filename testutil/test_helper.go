/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference ai_docs/test_plan.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, time
 * @refs service/models
 */

package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"assessment-service/service/models"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 内存sqlite按连接隔离数据库，连接池必须收敛到单连接
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.Property{},
		&models.LandRecord{},
		&models.Improvement{},
		&models.ValidationRule{},
		&models.ValidationIssue{},
		&models.QualityMetricsSnapshot{},
		&models.QualityFieldConfig{},
		&models.LineageRecord{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	tables := []string{
		"properties",
		"land_records",
		"improvements",
		"validation_rules",
		"validation_issues",
		"quality_metrics_snapshots",
		"quality_field_configs",
		"lineage_records",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// TestDataFactory 测试数据工厂
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory 创建测试数据工厂
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// PropertyOption 不动产选项函数类型
type PropertyOption func(*models.Property)

// CreateProperty 创建测试不动产
func (f *TestDataFactory) CreateProperty(opts ...PropertyOption) *models.Property {
	property := &models.Property{
		ID:            generateID("prop"),
		ParcelNumber:  "PN-" + generateSuffix(),
		Address:       "测试路88号",
		PropertyType:  models.PropertyTypeResidential,
		AssessedValue: 350000,
		MarketValue:   400000,
		Status:        "active",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	for _, opt := range opts {
		opt(property)
	}

	if err := f.DB.Create(property).Error; err != nil {
		panic(fmt.Sprintf("failed to create test property: %v", err))
	}

	return property
}

// LandRecordOption 地块记录选项函数类型
type LandRecordOption func(*models.LandRecord)

// CreateLandRecord 创建测试地块记录
func (f *TestDataFactory) CreateLandRecord(propertyID string, opts ...LandRecordOption) *models.LandRecord {
	landRecord := &models.LandRecord{
		ID:            generateID("land"),
		PropertyID:    propertyID,
		LandUseCode:   "RES-1",
		Acreage:       0.25,
		AssessedValue: 120000,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	for _, opt := range opts {
		opt(landRecord)
	}

	if err := f.DB.Create(landRecord).Error; err != nil {
		panic(fmt.Sprintf("failed to create test land record: %v", err))
	}

	return landRecord
}

// ImprovementOption 改良物选项函数类型
type ImprovementOption func(*models.Improvement)

// CreateImprovement 创建测试改良物
func (f *TestDataFactory) CreateImprovement(propertyID string, opts ...ImprovementOption) *models.Improvement {
	improvement := &models.Improvement{
		ID:              generateID("imp"),
		PropertyID:      propertyID,
		ImprovementType: "Single Family Dwelling",
		YearBuilt:       1995,
		SquareFeet:      1800,
		Condition:       "Average",
		AssessedValue:   230000,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	for _, opt := range opts {
		opt(improvement)
	}

	if err := f.DB.Create(improvement).Error; err != nil {
		panic(fmt.Sprintf("failed to create test improvement: %v", err))
	}

	return improvement
}

// ValidationRuleOption 校验规则选项函数类型
type ValidationRuleOption func(*models.ValidationRule)

// CreateValidationRule 创建测试校验规则
func (f *TestDataFactory) CreateValidationRule(opts ...ValidationRuleOption) *models.ValidationRule {
	rule := &models.ValidationRule{
		ID:             generateID("rule"),
		Name:           "测试校验规则",
		Category:       "validity",
		Level:          models.LevelError,
		EntityType:     models.EntityTypeProperty,
		Implementation: `{"requiredFields":["parcel_number"]}`,
		Message:        "测试规则不满足",
		IsActive:       true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	for _, opt := range opts {
		opt(rule)
	}

	if err := f.DB.Create(rule).Error; err != nil {
		panic(fmt.Sprintf("failed to create test validation rule: %v", err))
	}

	return rule
}

// QualityFieldConfigOption 质量字段配置选项函数类型
type QualityFieldConfigOption func(*models.QualityFieldConfig)

// CreateQualityFieldConfig 创建测试质量字段配置
func (f *TestDataFactory) CreateQualityFieldConfig(entityType string, opts ...QualityFieldConfigOption) *models.QualityFieldConfig {
	config := &models.QualityFieldConfig{
		ID:             generateID("qfc"),
		EntityType:     entityType,
		RequiredFields: []string{"parcel_number", "address", "property_type"},
		UniqueFields:   []string{"parcel_number"},
		TimestampField: "updated_at",
		IsEnabled:      true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	for _, opt := range opts {
		opt(config)
	}

	if err := f.DB.Create(config).Error; err != nil {
		panic(fmt.Sprintf("failed to create test quality field config: %v", err))
	}

	return config
}

// SeedBuiltinRules 按种子规则集填充规则表
func SeedBuiltinRules(db *gorm.DB, rules []models.ValidationRule) {
	for _, rule := range rules {
		if err := db.Create(&rule).Error; err != nil {
			panic(fmt.Sprintf("failed to seed builtin rule %s: %v", rule.ID, err))
		}
	}
}

func generateID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixNano(), generateSuffix())
}

func generateSuffix() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}
