/*
 * @module api/controllers/quality_controller
 * @description 数据质量控制器，提供质量指标计算、异常检测与综合报告接口
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/quality_req.md
 * @stateFlow HTTP请求处理流程
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/quality, api/routes.go
 */

package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"gorm.io/gorm"

	"assessment-service/service"
	"assessment-service/service/models"
	"assessment-service/service/quality"
)

// QualityController 数据质量控制器
type QualityController struct {
	db         *gorm.DB
	calculator *quality.MetricsCalculator
	detector   *quality.AnomalyDetector
	reporter   *quality.Reporter
}

// NewQualityController 创建数据质量控制器实例
func NewQualityController() *QualityController {
	return &QualityController{
		db:         service.DB,
		calculator: service.GlobalMetricsCalculator,
		detector:   service.GlobalAnomalyDetector,
		reporter:   service.GlobalReporter,
	}
}

// CalculateMetrics 计算质量指标
// @Summary 计算质量指标
// @Description 对指定实体类型的全量数据计算六维质量指标并落库快照
// @Tags 数据质量
// @Produce json
// @Param entity_type path string true "实体类型" Enums(PROPERTY, LAND_RECORD, IMPROVEMENT)
// @Success 200 {object} APIResponse{data=models.QualityMetricsSnapshot} "计算成功"
// @Failure 400 {object} APIResponse "不支持的实体类型"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /quality/metrics/{entity_type} [post]
func (c *QualityController) CalculateMetrics(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entity_type")

	snapshots, err := c.reporter.LoadEntitySnapshots(r.Context(), entityType)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "加载实体数据失败",
		})
		return
	}

	metrics, err := c.calculator.CalculateAndStore(r.Context(), entityType, snapshots)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "质量指标计算失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "质量指标计算成功",
		Data:   metrics,
	})
}

// GetMetricsHistory 获取质量指标快照历史
// @Summary 获取质量指标快照历史
// @Description 分页获取实体类型的历史质量指标快照，按计算时间倒序
// @Tags 数据质量
// @Produce json
// @Param entity_type path string true "实体类型"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse{data=[]models.QualityMetricsSnapshot} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /quality/metrics/{entity_type}/history [get]
func (c *QualityController) GetMetricsHistory(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entity_type")
	page, size := paginationParams(r)

	query := c.db.Model(&models.QualityMetricsSnapshot{}).Where("entity_type = ?", entityType)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取质量指标历史失败",
		})
		return
	}

	var snapshots []models.QualityMetricsSnapshot
	err := query.Order("calculated_at DESC").Offset((page - 1) * size).Limit(size).Find(&snapshots).Error
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取质量指标历史失败",
		})
		return
	}

	render.JSON(w, r, PaginatedResponse{
		Status: http.StatusOK,
		Msg:    "获取质量指标历史成功",
		Data:   snapshots,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

// DetectAnomalies 数值字段异常检测
// @Summary 数值字段异常检测
// @Description 对实体类型的指定数值字段做Z分数异常检测
// @Tags 数据质量
// @Produce json
// @Param entity_type path string true "实体类型"
// @Param field query string true "数值字段名"
// @Param threshold query number false "Z分数阈值" default(3.0)
// @Param min_sample_size query int false "最小样本量" default(30)
// @Success 200 {object} APIResponse{data=models.StatisticalMetrics} "检测完成"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /quality/anomalies/{entity_type} [get]
func (c *QualityController) DetectAnomalies(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entity_type")
	field := r.URL.Query().Get("field")
	if field == "" {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "缺少field参数",
		})
		return
	}

	config := quality.DefaultAnomalyConfig()
	if v := r.URL.Query().Get("threshold"); v != "" {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil && threshold > 0 {
			config.SensitivityThreshold = threshold
		}
	}
	if v := r.URL.Query().Get("min_sample_size"); v != "" {
		if minSize, err := strconv.Atoi(v); err == nil && minSize > 0 {
			config.MinSampleSize = minSize
		}
	}

	snapshots, err := c.reporter.LoadEntitySnapshots(r.Context(), entityType)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "加载实体数据失败",
		})
		return
	}

	metrics := c.detector.DetectAnomalies(field, snapshots, config)

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "异常检测完成",
		Data:   metrics,
	})
}

// GenerateReport 生成质量综合报告
// @Summary 生成质量综合报告
// @Description 聚合质量指标、异常检测结果与高频未关闭问题
// @Tags 数据质量
// @Produce json
// @Param entity_type path string true "实体类型"
// @Success 200 {object} APIResponse{data=models.DataQualityReport} "生成成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /quality/report/{entity_type} [get]
func (c *QualityController) GenerateReport(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entity_type")

	report, err := c.reporter.GenerateDataQualityReport(r.Context(), entityType)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "生成质量报告失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "生成质量报告成功",
		Data:   report,
	})
}
