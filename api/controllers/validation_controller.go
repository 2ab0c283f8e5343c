/*
 * @module api/controllers/validation_controller
 * @description 数据校验控制器，提供单实体校验、批量校验、规则管理与问题管理接口
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/validation_req.md
 * @stateFlow HTTP请求处理流程
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式；问题状态只允许单向流转
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/validation, api/routes.go
 */

package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"gorm.io/gorm"

	"assessment-service/service"
	"assessment-service/service/models"
	"assessment-service/service/validation"
)

// ValidationController 数据校验控制器
type ValidationController struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewValidationController 创建数据校验控制器实例
func NewValidationController() *ValidationController {
	return &ValidationController{
		db:        service.DB,
		validator: service.GlobalValidator,
	}
}

// ValidateProperty 校验单个不动产
// @Summary 校验单个不动产
// @Description 对不动产及其关联地块记录、改良物执行全部生效规则与跨实体规则
// @Tags 数据校验
// @Produce json
// @Param id path string true "不动产ID"
// @Success 200 {object} APIResponse{data=[]models.ValidationIssue} "校验完成"
// @Failure 404 {object} APIResponse "不动产不存在"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /validation/properties/{id}/validate [post]
func (c *ValidationController) ValidateProperty(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "id")

	issues, err := c.validator.ValidateProperty(r.Context(), propertyID, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.JSON(w, r, APIResponse{
				Status: http.StatusNotFound,
				Msg:    "不动产不存在",
			})
			return
		}
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "校验执行失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "校验完成",
		Data:   issues,
	})
}

// BatchValidateRequest 批量校验请求结构
type BatchValidateRequest struct {
	PropertyIDs []string `json:"property_ids"`
}

// BatchValidateResponse 批量校验响应结构
type BatchValidateResponse struct {
	Issues map[string][]*models.ValidationIssue `json:"issues"`
	Errors map[string]string                    `json:"errors,omitempty"`
}

// BatchValidate 批量校验不动产
// @Summary 批量校验不动产
// @Description 按固定分片并发校验不动产列表，单实体失败不影响兄弟实体结果
// @Tags 数据校验
// @Accept json
// @Produce json
// @Param request body BatchValidateRequest true "不动产ID列表"
// @Success 200 {object} APIResponse{data=BatchValidateResponse} "批量校验完成"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /validation/batch [post]
func (c *ValidationController) BatchValidate(w http.ResponseWriter, r *http.Request) {
	var req BatchValidateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}
	if len(req.PropertyIDs) == 0 {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "不动产ID列表不能为空",
		})
		return
	}

	result := c.validator.BatchValidateProperties(r.Context(), req.PropertyIDs, nil)

	response := BatchValidateResponse{
		Issues: result.Issues,
		Errors: make(map[string]string, len(result.Errors)),
	}
	for id, err := range result.Errors {
		response.Errors[id] = err.Error()
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "批量校验完成",
		Data:   response,
	})
}

// RunValidation 触发全量再校验
// @Summary 触发全量再校验
// @Description 异步触发大规模批次校验，跳过30天内已校验的实体
// @Tags 数据校验
// @Produce json
// @Success 202 {object} APIResponse "已触发"
// @Router /validation/run [post]
func (c *ValidationController) RunValidation(w http.ResponseWriter, r *http.Request) {
	go func() {
		valid, invalid, err := c.validator.RunValidationBatches(context.Background(), nil, nil)
		if err != nil {
			slog.Error("全量再校验失败", "error", err)
			return
		}
		slog.Info("全量再校验完成", "valid", valid, "invalid", invalid)
	}()

	render.JSON(w, r, APIResponse{
		Status: http.StatusAccepted,
		Msg:    "全量再校验已触发",
	})
}

// GetRules 获取校验规则列表
// @Summary 获取校验规则列表
// @Description 分页获取校验规则列表
// @Tags 数据校验
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Param entity_type query string false "实体类型"
// @Success 200 {object} PaginatedResponse{data=[]models.ValidationRule} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /validation/rules [get]
func (c *ValidationController) GetRules(w http.ResponseWriter, r *http.Request) {
	page, size := paginationParams(r)
	entityType := r.URL.Query().Get("entity_type")

	query := c.db.Model(&models.ValidationRule{})
	if entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取校验规则列表失败",
		})
		return
	}

	var rules []models.ValidationRule
	err := query.Order("id").Offset((page - 1) * size).Limit(size).Find(&rules).Error
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取校验规则列表失败",
		})
		return
	}

	render.JSON(w, r, PaginatedResponse{
		Status: http.StatusOK,
		Msg:    "获取校验规则列表成功",
		Data:   rules,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

// CreateRule 创建校验规则
// @Summary 创建校验规则
// @Description 创建条件树实现的校验规则，规则实现文本按原文存储
// @Tags 数据校验
// @Accept json
// @Produce json
// @Param rule body models.ValidationRule true "校验规则信息"
// @Success 201 {object} APIResponse{data=models.ValidationRule} "创建成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /validation/rules [post]
func (c *ValidationController) CreateRule(w http.ResponseWriter, r *http.Request) {
	var rule models.ValidationRule
	if err := render.DecodeJSON(r.Body, &rule); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	// 条件树规则在创建时做一次可解析性检查，实现文本本身按原文落库
	if rule.Implementation != "" {
		if _, err := validation.ParseConditionTree(rule.Implementation); err != nil {
			render.JSON(w, r, APIResponse{
				Status: http.StatusBadRequest,
				Msg:    "规则条件树不可解析",
			})
			return
		}
	}

	if err := c.db.Create(&rule).Error; err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "创建校验规则失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusCreated,
		Msg:    "创建校验规则成功",
		Data:   rule,
	})
}

// SetRuleActiveRequest 规则启停请求结构
type SetRuleActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// SetRuleActive 启用或停用校验规则
// @Summary 启用或停用校验规则
// @Description 规则只做软禁用，不会被物理删除
// @Tags 数据校验
// @Accept json
// @Produce json
// @Param id path string true "规则ID"
// @Param request body SetRuleActiveRequest true "启停状态"
// @Success 200 {object} APIResponse "更新成功"
// @Failure 404 {object} APIResponse "规则不存在"
// @Router /validation/rules/{id}/active [put]
func (c *ValidationController) SetRuleActive(w http.ResponseWriter, r *http.Request) {
	ruleID := chi.URLParam(r, "id")

	var req SetRuleActiveRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	result := c.db.Model(&models.ValidationRule{}).
		Where("id = ?", ruleID).
		Update("is_active", req.IsActive)
	if result.Error != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "更新校验规则失败",
		})
		return
	}
	if result.RowsAffected == 0 {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "校验规则不存在",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "更新校验规则成功",
	})
}

// GetIssues 获取校验问题列表
// @Summary 获取校验问题列表
// @Description 分页获取校验问题，支持按实体、级别和状态过滤
// @Tags 数据校验
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Param entity_id query string false "实体ID"
// @Param property_id query string false "不动产ID"
// @Param level query string false "问题级别"
// @Param status query string false "问题状态"
// @Success 200 {object} PaginatedResponse{data=[]models.ValidationIssue} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /validation/issues [get]
func (c *ValidationController) GetIssues(w http.ResponseWriter, r *http.Request) {
	page, size := paginationParams(r)

	query := c.db.Model(&models.ValidationIssue{})
	if v := r.URL.Query().Get("entity_id"); v != "" {
		query = query.Where("entity_id = ?", v)
	}
	if v := r.URL.Query().Get("property_id"); v != "" {
		query = query.Where("property_id = ?", v)
	}
	if v := r.URL.Query().Get("level"); v != "" {
		query = query.Where("level = ?", v)
	}
	if v := r.URL.Query().Get("status"); v != "" {
		query = query.Where("status = ?", v)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取校验问题列表失败",
		})
		return
	}

	var issues []models.ValidationIssue
	err := query.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&issues).Error
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取校验问题列表失败",
		})
		return
	}

	render.JSON(w, r, PaginatedResponse{
		Status: http.StatusOK,
		Msg:    "获取校验问题列表成功",
		Data:   issues,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

// UpdateIssueStatusRequest 问题状态流转请求结构
type UpdateIssueStatusRequest struct {
	Status     string `json:"status"`
	Resolution string `json:"resolution"`
}

// UpdateIssueStatus 流转校验问题状态
// @Summary 流转校验问题状态
// @Description 问题状态只允许单向流转：OPEN -> ACKNOWLEDGED -> RESOLVED/WAIVED
// @Tags 数据校验
// @Accept json
// @Produce json
// @Param id path string true "问题ID"
// @Param request body UpdateIssueStatusRequest true "目标状态与处置说明"
// @Success 200 {object} APIResponse{data=models.ValidationIssue} "流转成功"
// @Failure 400 {object} APIResponse "非法状态流转"
// @Failure 404 {object} APIResponse "问题不存在"
// @Router /validation/issues/{id}/status [put]
func (c *ValidationController) UpdateIssueStatus(w http.ResponseWriter, r *http.Request) {
	issueID := chi.URLParam(r, "id")

	var req UpdateIssueStatusRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	var issue models.ValidationIssue
	if err := c.db.First(&issue, "id = ?", issueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.JSON(w, r, APIResponse{
				Status: http.StatusNotFound,
				Msg:    "校验问题不存在",
			})
			return
		}
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取校验问题失败",
		})
		return
	}

	if err := issue.TransitionTo(req.Status, req.Resolution); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    err.Error(),
		})
		return
	}

	if err := c.db.Model(&issue).Select("status", "resolution").Updates(&issue).Error; err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "更新校验问题失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "问题状态流转成功",
		Data:   issue,
	})
}
