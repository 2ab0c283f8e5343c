/*
 * @module service/models/validation
 * @description 数据校验相关模型定义，包括校验规则、校验问题及其状态流转
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/validation_req.md
 * @stateFlow 规则配置 -> 规则执行 -> 问题生成 -> 问题状态流转(仅单向)
 * @rules 规则只做软禁用不做物理删除；问题状态只能单向推进，不允许回到OPEN
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/validation/registry.go, service/validation/validator.go
 */

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 校验级别常量
const (
	LevelCritical = "CRITICAL"
	LevelError    = "ERROR"
	LevelWarning  = "WARNING"
	LevelInfo     = "INFO"
)

// 校验问题状态常量
const (
	IssueStatusOpen         = "OPEN"
	IssueStatusAcknowledged = "ACKNOWLEDGED"
	IssueStatusResolved     = "RESOLVED"
	IssueStatusWaived       = "WAIVED"
)

// issueStatusTransitions 问题状态允许的单向流转
var issueStatusTransitions = map[string][]string{
	IssueStatusOpen:         {IssueStatusAcknowledged, IssueStatusResolved, IssueStatusWaived},
	IssueStatusAcknowledged: {IssueStatusResolved, IssueStatusWaived},
	IssueStatusResolved:     {},
	IssueStatusWaived:       {},
}

// ValidationRule 数据校验规则模型
// 规则实现为封闭的二选一：静态注册评估器引用(EvaluatorRef)或序列化条件树(Implementation)，
// 绝不执行注入代码。Implementation 以原文存储，保证边界格式逐字节往返
type ValidationRule struct {
	ID             string    `gorm:"type:varchar(100);primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(100);not null" json:"name"`
	Category       string    `gorm:"type:varchar(50)" json:"category"`
	Level          string    `gorm:"type:varchar(20);not null" json:"level"`       // CRITICAL/ERROR/WARNING/INFO
	EntityType     string    `gorm:"type:varchar(30);not null;index" json:"entity_type"` // PROPERTY/LAND_RECORD/IMPROVEMENT
	EvaluatorRef   string    `gorm:"type:varchar(100)" json:"evaluator_ref,omitempty"`
	Implementation string    `gorm:"type:text" json:"implementation,omitempty"`
	Message        string    `gorm:"type:text" json:"message"`
	Reference      string    `gorm:"type:text" json:"reference,omitempty"` // 法规/标准引用
	IsActive       bool      `gorm:"default:true" json:"is_active"`        // 软禁用，引擎不做物理删除
	CreatedAt      time.Time `json:"created_at"`
	CreatedBy      string    `gorm:"type:varchar(50);default:'system'" json:"created_by"`
	UpdatedAt      time.Time `json:"updated_at"`
	UpdatedBy      string    `gorm:"type:varchar(50);default:'system'" json:"updated_by"`
}

// TableName 指定表名
func (ValidationRule) TableName() string {
	return "validation_rules"
}

// BeforeCreate 创建前钩子
func (v *ValidationRule) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreatedBy == "" {
		v.CreatedBy = "system"
	}
	if v.UpdatedBy == "" {
		v.UpdatedBy = "system"
	}
	return nil
}

// ValidationIssue 校验问题模型
type ValidationIssue struct {
	ID         string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	RuleID     string    `gorm:"type:varchar(100);not null;index" json:"rule_id"`
	EntityType string    `gorm:"type:varchar(30);not null" json:"entity_type"`
	EntityID   string    `gorm:"type:varchar(50);not null;index" json:"entity_id"`
	PropertyID string    `gorm:"type:varchar(50);index" json:"property_id"` // 冗余存储，加速按不动产查询
	Level      string    `gorm:"type:varchar(20);not null;index" json:"level"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	Details    JSONB     `gorm:"type:jsonb" json:"details,omitempty"`
	Status     string    `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"` // OPEN/ACKNOWLEDGED/RESOLVED/WAIVED
	Resolution string    `gorm:"type:text" json:"resolution,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 指定表名
func (ValidationIssue) TableName() string {
	return "validation_issues"
}

// BeforeCreate 创建前钩子
func (v *ValidationIssue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.Status == "" {
		v.Status = IssueStatusOpen
	}
	return nil
}

// CanTransitionTo 判断问题状态是否允许流转到目标状态（单向，不允许回到OPEN）
func (v *ValidationIssue) CanTransitionTo(target string) bool {
	allowed, exists := issueStatusTransitions[v.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionTo 执行状态流转，非法流转返回错误
func (v *ValidationIssue) TransitionTo(target, resolution string) error {
	if !v.CanTransitionTo(target) {
		return fmt.Errorf("问题状态不允许从 %s 流转到 %s", v.Status, target)
	}
	v.Status = target
	if resolution != "" {
		v.Resolution = resolution
	}
	return nil
}
