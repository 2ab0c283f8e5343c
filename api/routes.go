/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference ai_docs/backend_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式；管理类接口走API密钥鉴权
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers, api/middleware
 */

package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"assessment-service/api/controllers"
	apimiddleware "assessment-service/api/middleware"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 数据校验
	r.Route("/validation", func(r chi.Router) {
		validationController := controllers.NewValidationController()

		r.Post("/properties/{id}/validate", validationController.ValidateProperty)
		r.Post("/batch", validationController.BatchValidate)

		// 问题查询与状态流转
		r.Get("/issues", validationController.GetIssues)
		r.Put("/issues/{id}/status", validationController.UpdateIssueStatus)

		// 规则查询
		r.Get("/rules", validationController.GetRules)

		// 管理类接口，需要API密钥
		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.APIKeyAuth)
			r.Post("/rules", validationController.CreateRule)
			r.Put("/rules/{id}/active", validationController.SetRuleActive)
			r.Post("/run", validationController.RunValidation)
		})
	})

	// 数据质量
	r.Route("/quality", func(r chi.Router) {
		qualityController := controllers.NewQualityController()

		r.Post("/metrics/{entity_type}", qualityController.CalculateMetrics)
		r.Get("/metrics/{entity_type}/history", qualityController.GetMetricsHistory)
		r.Get("/anomalies/{entity_type}", qualityController.DetectAnomalies)
		r.Get("/report/{entity_type}", qualityController.GenerateReport)
	})

	// 数据血缘
	r.Route("/lineage", func(r chi.Router) {
		lineageController := controllers.NewLineageController()

		r.Post("/track", lineageController.TrackChanges)
		r.Get("/{entity_type}/{entity_id}/history", lineageController.GetEntityHistory)
		r.Get("/{entity_type}/{entity_id}/provenance", lineageController.GetDataProvenance)
	})
}
