/*
 * @module service/database/migrate
 * @description 数据库迁移模块，负责创建和更新数据库表结构
 * @architecture 数据访问层 - 迁移管理
 * @documentReference ai_docs/model.md
 * @stateFlow 应用启动时执行数据库迁移
 * @rules 确保数据库结构与模型定义保持一致
 * @dependencies assessment-service/service/models, gorm.io/gorm
 * @refs service/init.go
 */

package database

import (
	"log"

	"gorm.io/gorm"

	"assessment-service/service/models"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB) error {
	log.Println("开始数据库迁移...")

	// 评估实体相关表
	err := db.AutoMigrate(
		&models.Property{},
		&models.LandRecord{},
		&models.Improvement{},
	)
	if err != nil {
		return err
	}

	// 数据校验相关表
	err = db.AutoMigrate(
		&models.ValidationRule{},
		&models.ValidationIssue{},
	)
	if err != nil {
		return err
	}

	// 数据质量相关表
	err = db.AutoMigrate(
		&models.QualityMetricsSnapshot{},
		&models.QualityFieldConfig{},
	)
	if err != nil {
		return err
	}

	// 数据血缘相关表
	err = db.AutoMigrate(
		&models.LineageRecord{},
	)
	if err != nil {
		return err
	}

	log.Println("数据库迁移完成")
	return nil
}
