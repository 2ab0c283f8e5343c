/*
 * @module service/validation/scheduler
 * @description 周期性再校验调度器，按Cron表达式触发大规模批次校验
 * @architecture 后台调度 - 单实例内定时任务
 * @documentReference ai_docs/validation_req.md
 * @stateFlow 服务启动 -> Cron注册 -> 定时触发RunValidationBatches -> 进度与结果日志
 * @rules 同一时刻最多一轮再校验在跑，触发时上一轮未结束则跳过本次
 * @dependencies github.com/robfig/cron/v3
 * @refs service/validation/batch.go, service/init.go
 */

package validation

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"
)

// RevalidationScheduler 周期性再校验调度器
type RevalidationScheduler struct {
	validator *Validator
	cron      *cron.Cron
	spec      string
	running   atomic.Bool
}

// NewRevalidationScheduler 创建调度器，spec为标准Cron表达式
func NewRevalidationScheduler(validator *Validator, spec string) *RevalidationScheduler {
	return &RevalidationScheduler{
		validator: validator,
		cron:      cron.New(),
		spec:      spec,
	}
}

// Start 注册并启动定时任务
func (s *RevalidationScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runOnce)
	if err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("再校验调度器已启动", "cron", s.spec)
	return nil
}

// Stop 停止调度器，等待在途任务结束
func (s *RevalidationScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("再校验调度器已停止")
}

// runOnce 执行一轮再校验，上一轮未结束则跳过
func (s *RevalidationScheduler) runOnce() {
	if !s.running.CompareAndSwap(false, true) {
		slog.Warn("上一轮再校验尚未结束，跳过本次触发")
		return
	}
	defer s.running.Store(false)

	valid, invalid, err := s.validator.RunValidationBatches(context.Background(), NewEvaluationContext(),
		func(completed, total int, validCount, invalidCount int64) {
			slog.Info("再校验批次完成",
				"completed_batches", completed,
				"total_batches", total,
				"valid", validCount,
				"invalid", invalidCount)
		})
	if err != nil {
		slog.Error("再校验执行失败", "error", err)
		return
	}
	slog.Info("再校验完成", "valid", valid, "invalid", invalid)
}
