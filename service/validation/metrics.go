/*
 * @module service/validation/metrics
 * @description 校验引擎Prometheus指标定义
 * @architecture 可观测性 - 指标采集
 * @documentReference ai_docs/observability_req.md
 * @stateFlow 校验执行 -> 计数器/直方图更新 -> /metrics端点暴露
 * @rules 指标通过promauto在包初始化时注册到默认Registry
 * @dependencies github.com/prometheus/client_golang
 * @refs main.go
 */

package validation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	validationRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assessment_validation_runs_total",
		Help: "按实体类型统计的校验执行次数",
	}, []string{"entity_type"})

	validationIssuesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assessment_validation_issues_total",
		Help: "按级别统计的校验问题产生数",
	}, []string{"level"})

	validationInternalErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assessment_validation_internal_errors_total",
		Help: "批量校验中被转换为内部错误问题的异常数",
	})

	batchDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "assessment_validation_batch_duration_seconds",
		Help:    "单批次校验耗时分布",
		Buckets: prometheus.DefBuckets,
	})
)
