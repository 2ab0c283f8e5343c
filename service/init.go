/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、表迁移、内置规则种子与各服务装配
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/backend_requirements.md
 * @stateFlow 应用启动时执行初始化流程：数据库 -> 迁移 -> 种子 -> 服务装配
 * @rules 数据库不可用直接失败退出；Redis与Kafka协作方不可用时降级为无缓存失效/无审计投递
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 * @refs service/database/migrate.go, service/validation, service/quality, service/lineage
 */

package service

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"assessment-service/service/cache"
	"assessment-service/service/database"
	"assessment-service/service/events"
	"assessment-service/service/lineage"
	"assessment-service/service/models"
	"assessment-service/service/quality"
	"assessment-service/service/validation"
)

var (
	DB                      *gorm.DB
	GlobalRuleRegistry      *validation.RuleRegistry
	GlobalValidator         *validation.Validator
	GlobalScheduler         *validation.RevalidationScheduler
	GlobalMetricsCalculator *quality.MetricsCalculator
	GlobalAnomalyDetector   *quality.AnomalyDetector
	GlobalReporter          *quality.Reporter
	GlobalLineageTracker    *lineage.Tracker
)

func init() {
	initDatabase()
	runMigrations()
	seedData()
	initServices()
}

// initDatabase 初始化数据库连接
func initDatabase() {
	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "postgres")
		dbname := getEnvWithDefault("DB_NAME", "assessment")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// runMigrations 执行数据库迁移
func runMigrations() {
	if err := database.AutoMigrate(DB); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}
}

// seedData 种子内置规则与质量字段配置，按ID幂等，不覆盖用户修改
func seedData() {
	for _, rule := range validation.BuiltinRules() {
		if err := DB.Where("id = ?", rule.ID).FirstOrCreate(&rule).Error; err != nil {
			log.Fatalf("内置规则种子失败: %v", err)
		}
	}

	for _, config := range defaultQualityFieldConfigs() {
		if err := DB.Where("entity_type = ?", config.EntityType).FirstOrCreate(&config).Error; err != nil {
			log.Fatalf("质量字段配置种子失败: %v", err)
		}
	}
}

// defaultQualityFieldConfigs 各实体类型的默认质量字段配置
func defaultQualityFieldConfigs() []models.QualityFieldConfig {
	return []models.QualityFieldConfig{
		{
			EntityType:     models.EntityTypeProperty,
			RequiredFields: []string{"parcel_number", "address", "property_type"},
			UniqueFields:   []string{"parcel_number"},
			TimestampField: "updated_at",
		},
		{
			EntityType:     models.EntityTypeLandRecord,
			RequiredFields: []string{"property_id", "land_use_code", "acreage"},
			TimestampField: "updated_at",
		},
		{
			EntityType:     models.EntityTypeImprovement,
			RequiredFields: []string{"property_id", "improvement_type"},
			TimestampField: "updated_at",
		},
	}
}

// initServices 装配各服务实例，可选协作方不可用时降级
func initServices() {
	GlobalRuleRegistry = validation.NewRuleRegistry(validation.NewBuiltinEvaluators())
	GlobalValidator = validation.NewValidator(DB, GlobalRuleRegistry)

	var invalidator lineage.CacheInvalidator
	if getEnvWithDefault("REDIS_ENABLED", "false") == "true" {
		redisInvalidator, err := cache.NewRedisInvalidator()
		if err != nil {
			slog.Warn("Redis不可用，缓存失效功能降级关闭", "error", err)
		} else {
			invalidator = redisInvalidator
		}
	}

	var publisher lineage.AuditPublisher
	if getEnvWithDefault("KAFKA_ENABLED", "false") == "true" {
		publisher = events.NewKafkaAuditPublisher()
	}

	GlobalLineageTracker = lineage.NewTracker(DB, invalidator, publisher)
	GlobalMetricsCalculator = quality.NewMetricsCalculator(DB, GlobalValidator, GlobalRuleRegistry)
	GlobalAnomalyDetector = quality.NewAnomalyDetector()
	GlobalReporter = quality.NewReporter(DB, GlobalMetricsCalculator, GlobalAnomalyDetector)

	cronSpec := getEnvWithDefault("REVALIDATION_CRON", "0 2 * * *")
	GlobalScheduler = validation.NewRevalidationScheduler(GlobalValidator, cronSpec)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
