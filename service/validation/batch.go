/*
 * @module service/validation/batch
 * @description 批量校验执行器，固定分片并发校验与大规模批次编排
 * @architecture 任务并行批处理，分片内并发、分片间串行
 * @documentReference ai_docs/validation_req.md
 * @stateFlow ID列表 -> 按10分片 -> 分片内并发校验 -> 结果按槽位收集 -> 批次间进度回调
 * @rules 单实体异常不得丢弃同批兄弟实体已收集的问题；实体未找到按前置条件失败单独上报；其余异常转换为内部错误问题
 * @dependencies gorm.io/gorm, sync, log/slog
 * @refs service/validation/validator.go, service/validation/scheduler.go
 */

package validation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"assessment-service/service/models"
)

const (
	// chunkSize 分片内并发校验的实体数
	chunkSize = 10
	// batchSize 一批次处理的实体数，批次间串行，批次完成后触发进度回调
	batchSize = 100
	// revalidationWindow 跳过优化窗口，窗口内校验过的实体不再重复校验
	revalidationWindow = 30 * 24 * time.Hour
)

// RuleInternalError 校验过程异常被转换为问题时使用的规则ID
const RuleInternalError = "internal_validation_error"

// BatchResult 批量校验结果
type BatchResult struct {
	// Issues 按不动产ID聚合的问题列表
	Issues map[string][]*models.ValidationIssue
	// Errors 前置条件失败(实体未找到)的不动产，失败只影响该实体自身
	Errors map[string]error
}

// ProgressFunc 批次进度回调，批次完成后调用，是唯一的协作观察点
type ProgressFunc func(completedBatches, totalBatches int, validCount, invalidCount int64)

// BatchValidateProperties 批量校验：按固定大小分片，分片内并发、分片间串行。
// 单实体的异常不影响兄弟实体已收集的结果
func (v *Validator) BatchValidateProperties(ctx context.Context, propertyIDs []string, evalCtx *EvaluationContext) *BatchResult {
	if evalCtx == nil {
		evalCtx = NewEvaluationContext()
	}
	result := &BatchResult{
		Issues: make(map[string][]*models.ValidationIssue, len(propertyIDs)),
		Errors: make(map[string]error),
	}

	for start := 0; start < len(propertyIDs); start += chunkSize {
		end := start + chunkSize
		if end > len(propertyIDs) {
			end = len(propertyIDs)
		}
		chunk := propertyIDs[start:end]

		// 每个实体独立槽位收集结果，避免并发写共享map
		issueSlots := make([][]*models.ValidationIssue, len(chunk))
		errorSlots := make([]error, len(chunk))

		var wg sync.WaitGroup
		for i, id := range chunk {
			wg.Add(1)
			go func(slot int, propertyID string) {
				defer wg.Done()
				issues, err := v.ValidateProperty(ctx, propertyID, evalCtx)
				issueSlots[slot] = issues
				errorSlots[slot] = err
			}(i, id)
		}
		wg.Wait()

		for i, id := range chunk {
			if err := errorSlots[i]; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// 前置条件失败，向调用方传播，仅影响该实体
					result.Errors[id] = err
					continue
				}
				// 其余异常转换为内部错误问题，不丢弃兄弟实体结果
				validationInternalErrorsTotal.Inc()
				slog.Error("实体校验异常，转换为内部错误问题", "property_id", id, "error", err)
				issue := &models.ValidationIssue{
					RuleID:     RuleInternalError,
					EntityType: models.EntityTypeProperty,
					EntityID:   id,
					PropertyID: id,
					Level:      models.LevelError,
					Message:    "校验过程发生内部错误: " + err.Error(),
				}
				// 已处于异常恢复路径，落库失败记日志后继续
				_ = v.persistIssue(ctx, issue)
				result.Issues[id] = []*models.ValidationIssue{issue}
				continue
			}
			result.Issues[id] = issueSlots[i]
		}
	}

	return result
}

// RunValidationBatches 对候选不动产集合执行大规模批次校验：
// 跳过窗口内已校验的实体，按批次串行执行，批次完成后触发进度回调并更新校验时间戳
func (v *Validator) RunValidationBatches(ctx context.Context, evalCtx *EvaluationContext, progress ProgressFunc) (int64, int64, error) {
	cutoff := time.Now().Add(-revalidationWindow)

	// 时间戳读取不做同步，跳过优化容忍过期值
	var candidateIDs []string
	err := v.db.WithContext(ctx).Model(&models.Property{}).
		Where("last_validated_at IS NULL OR last_validated_at < ?", cutoff).
		Order("id").
		Pluck("id", &candidateIDs).Error
	if err != nil {
		return 0, 0, err
	}

	totalBatches := (len(candidateIDs) + batchSize - 1) / batchSize
	var validCount, invalidCount int64

	for b := 0; b < totalBatches; b++ {
		start := b * batchSize
		end := start + batchSize
		if end > len(candidateIDs) {
			end = len(candidateIDs)
		}

		batchStart := time.Now()
		result := v.BatchValidateProperties(ctx, candidateIDs[start:end], evalCtx)
		batchDurationSeconds.Observe(time.Since(batchStart).Seconds())

		for id, issues := range result.Issues {
			if len(issues) == 0 {
				validCount++
			} else {
				invalidCount++
			}
			v.MarkValidated(ctx, id)
		}
		for id, ferr := range result.Errors {
			invalidCount++
			slog.Warn("批次内实体前置条件失败", "property_id", id, "error", ferr)
		}

		if progress != nil {
			progress(b+1, totalBatches, validCount, invalidCount)
		}

		select {
		case <-ctx.Done():
			return validCount, invalidCount, ctx.Err()
		default:
		}
	}

	return validCount, invalidCount, nil
}
