/*
 * @module service/validation/validator_test
 * @description 实体校验器测试，基于sqlite内存库与内置规则种子
 * @architecture 测试层
 * @documentReference ai_docs/validation_req.md
 * @stateFlow 测试数据创建 -> 校验执行 -> 问题与落库验证
 * @rules 覆盖跨实体规则、问题即时持久化与实体未找到的前置条件失败
 * @dependencies testing, github.com/stretchr/testify, assessment-service/testutil
 * @refs validator.go, cross_entity.go
 */

package validation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"assessment-service/service/models"
	"assessment-service/service/validation"
	"assessment-service/testutil"
)

func newTestValidator(t *testing.T) (*testutil.TestDB, *testutil.TestDataFactory, *validation.Validator) {
	t.Helper()
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	testutil.SeedBuiltinRules(tdb.DB, validation.BuiltinRules())
	factory := testutil.NewTestDataFactory(tdb.DB)
	registry := validation.NewRuleRegistry(validation.NewBuiltinEvaluators())
	return tdb, factory, validation.NewValidator(tdb.DB, registry)
}

func TestValidator_CleanPropertyHasNoIssues(t *testing.T) {
	_, factory, validator := newTestValidator(t)

	property := factory.CreateProperty()
	factory.CreateLandRecord(property.ID)
	factory.CreateImprovement(property.ID)

	issues, err := validator.ValidateProperty(context.Background(), property.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, issues, "结构完整的住宅不动产不应产生问题")
}

func TestValidator_ResidentialTypeLandUseMismatch(t *testing.T) {
	_, factory, validator := newTestValidator(t)

	// 住宅类型但只有商业用途地块，且没有改良物
	property := factory.CreateProperty(func(p *models.Property) {
		p.PropertyType = models.PropertyTypeResidential
	})
	factory.CreateLandRecord(property.ID, func(lr *models.LandRecord) {
		lr.LandUseCode = "COM-1"
	})

	issues, err := validator.ValidateProperty(context.Background(), property.ID, nil)
	require.NoError(t, err)
	require.Len(t, issues, 2, "应恰好产生两条告警")

	ruleIDs := make(map[string]string, 2)
	for _, issue := range issues {
		ruleIDs[issue.RuleID] = issue.Level
	}
	assert.Equal(t, models.LevelWarning, ruleIDs[validation.RuleCrossResidentialRequiresImprovement])
	assert.Equal(t, models.LevelWarning, ruleIDs[validation.RuleCrossPropertyTypeLandUseMatch])
}

func TestValidator_MissingLandRecordIsError(t *testing.T) {
	_, factory, validator := newTestValidator(t)

	property := factory.CreateProperty(func(p *models.Property) {
		p.PropertyType = models.PropertyTypeCommercial
	})

	issues, err := validator.ValidateProperty(context.Background(), property.ID, nil)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, validation.RuleCrossPropertyRequiresLandRecord, issues[0].RuleID)
	assert.Equal(t, models.LevelError, issues[0].Level)
}

func TestValidator_RequiredFieldViolation(t *testing.T) {
	_, factory, validator := newTestValidator(t)

	property := factory.CreateProperty(func(p *models.Property) {
		p.Address = ""
	})
	factory.CreateLandRecord(property.ID)
	factory.CreateImprovement(property.ID)

	issues, err := validator.ValidateProperty(context.Background(), property.ID, nil)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "property_required_fields", issues[0].RuleID)
	assert.Equal(t, models.LevelError, issues[0].Level)
}

func TestValidator_AssociatedEntityRules(t *testing.T) {
	_, factory, validator := newTestValidator(t)

	property := factory.CreateProperty()
	factory.CreateImprovement(property.ID)
	landRecord := factory.CreateLandRecord(property.ID, func(lr *models.LandRecord) {
		lr.Acreage = 0
	})

	issues, err := validator.ValidateProperty(context.Background(), property.ID, nil)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "land_record_acreage_positive", issues[0].RuleID)
	assert.Equal(t, models.EntityTypeLandRecord, issues[0].EntityType)
	assert.Equal(t, landRecord.ID, issues[0].EntityID)
	assert.Equal(t, property.ID, issues[0].PropertyID, "关联实体问题应冗余记录不动产ID")
}

func TestValidator_IssuesPersistedImmediately(t *testing.T) {
	tdb, factory, validator := newTestValidator(t)

	property := factory.CreateProperty(func(p *models.Property) {
		p.PropertyType = models.PropertyTypeCommercial
	})

	issues, err := validator.ValidateProperty(context.Background(), property.ID, nil)
	require.NoError(t, err)
	require.Len(t, issues, 1)

	var stored []models.ValidationIssue
	require.NoError(t, tdb.DB.Where("property_id = ?", property.ID).Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, models.IssueStatusOpen, stored[0].Status, "新问题初始状态为OPEN")
	assert.NotEmpty(t, stored[0].ID)
}

func TestValidator_InactiveRuleIsSkipped(t *testing.T) {
	tdb, factory, validator := newTestValidator(t)

	// 软禁用必填字段规则后，空地址不再产生问题
	require.NoError(t, tdb.DB.Model(&models.ValidationRule{}).
		Where("id = ?", "property_required_fields").
		Update("is_active", false).Error)

	property := factory.CreateProperty(func(p *models.Property) {
		p.Address = ""
	})
	factory.CreateLandRecord(property.ID)
	factory.CreateImprovement(property.ID)

	issues, err := validator.ValidateProperty(context.Background(), property.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidator_PropertyNotFound(t *testing.T) {
	_, _, validator := newTestValidator(t)

	_, err := validator.ValidateProperty(context.Background(), "missing-id", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound), "实体未找到应原样传播")
}
