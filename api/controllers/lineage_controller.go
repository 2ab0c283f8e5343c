/*
 * @module api/controllers/lineage_controller
 * @description 数据血缘控制器，提供变更追踪、历史查询与字段溯源接口
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/lineage_req.md
 * @stateFlow HTTP请求处理流程
 * @rules 血缘记录只追加；溯源结果按发生时间升序
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/lineage, api/routes.go
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"assessment-service/service"
	"assessment-service/service/lineage"
	"assessment-service/service/models"
)

// LineageController 数据血缘控制器
type LineageController struct {
	tracker *lineage.Tracker
}

// NewLineageController 创建数据血缘控制器实例
func NewLineageController() *LineageController {
	return &LineageController{
		tracker: service.GlobalLineageTracker,
	}
}

// TrackChangesRequest 变更追踪请求结构
type TrackChangesRequest struct {
	EntityType    string                 `json:"entity_type"`
	EntityID      string                 `json:"entity_id"`
	OldVersion    map[string]interface{} `json:"old_version"`
	NewVersion    map[string]interface{} `json:"new_version"`
	SourceType    string                 `json:"source_type"`
	SourceID      string                 `json:"source_id"`
	OperationType string                 `json:"operation_type"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// TrackChanges 记录实体变更
// @Summary 记录实体变更
// @Description 计算新旧版本字段级差异并追加血缘记录，触发缓存失效与审计投递
// @Tags 数据血缘
// @Accept json
// @Produce json
// @Param request body TrackChangesRequest true "变更信息"
// @Success 201 {object} APIResponse{data=models.LineageRecord} "记录成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /lineage/track [post]
func (c *LineageController) TrackChanges(w http.ResponseWriter, r *http.Request) {
	var req TrackChangesRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}
	if req.EntityType == "" || req.EntityID == "" || req.OperationType == "" {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "entity_type、entity_id与operation_type不能为空",
		})
		return
	}
	if req.SourceType == "" {
		req.SourceType = models.ChangeSourceSystem
	}

	record, err := c.tracker.TrackChanges(r.Context(), req.EntityType, req.EntityID,
		req.OldVersion, req.NewVersion, req.SourceType, req.SourceID, req.OperationType, req.Metadata)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "血缘记录追加失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusCreated,
		Msg:    "血缘记录追加成功",
		Data:   record,
	})
}

// GetEntityHistory 获取实体变更历史
// @Summary 获取实体变更历史
// @Description 按发生时间升序返回实体的全量血缘记录
// @Tags 数据血缘
// @Produce json
// @Param entity_type path string true "实体类型"
// @Param entity_id path string true "实体ID"
// @Success 200 {object} APIResponse{data=[]models.LineageRecord} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /lineage/{entity_type}/{entity_id}/history [get]
func (c *LineageController) GetEntityHistory(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entity_type")
	entityID := chi.URLParam(r, "entity_id")

	history, err := c.tracker.GetEntityHistory(r.Context(), entityType, entityID)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取血缘历史失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取血缘历史成功",
		Data:   history,
	})
}

// GetDataProvenance 字段溯源
// @Summary 字段溯源
// @Description 重建指定字段的变更链、起源信息与当前存量值
// @Tags 数据血缘
// @Produce json
// @Param entity_type path string true "实体类型"
// @Param entity_id path string true "实体ID"
// @Param field query string true "字段名"
// @Success 200 {object} APIResponse{data=lineage.ProvenanceResult} "溯源成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /lineage/{entity_type}/{entity_id}/provenance [get]
func (c *LineageController) GetDataProvenance(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entity_type")
	entityID := chi.URLParam(r, "entity_id")
	field := r.URL.Query().Get("field")
	if field == "" {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "缺少field参数",
		})
		return
	}

	result, err := c.tracker.GetDataProvenance(r.Context(), entityType, entityID, field)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "字段溯源失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "字段溯源成功",
		Data:   result,
	})
}
