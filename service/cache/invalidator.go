/*
 * @module service/cache/invalidator
 * @description 基于Redis的缓存失效器，删除实体关联缓存键并发布失效事件供下游订阅
 * @architecture 适配器模式 - 封装第三方Redis客户端，实现血缘追踪器的失效协作方接口
 * @documentReference ai_docs/lineage_req.md
 * @stateFlow 变更事件 -> 缓存键删除 -> 失效事件发布
 * @rules 缓存失效为尽力而为，失败不影响血缘记录的正确性
 * @dependencies github.com/go-redis/redis/v8, encoding/json
 * @refs service/lineage/tracker.go
 */

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// invalidationChannel 失效事件发布频道
const invalidationChannel = "assessment:cache:invalidation"

// RedisInvalidator Redis缓存失效器
type RedisInvalidator struct {
	client *redis.Client
}

// InvalidationEvent 缓存失效事件
type InvalidationEvent struct {
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	ChangeKind string    `json:"change_kind"` // create/update/delete
	OccurredAt time.Time `json:"occurred_at"`
}

// NewRedisInvalidator 从环境变量创建失效器
func NewRedisInvalidator() (*RedisInvalidator, error) {
	db, _ := strconv.Atoi(getEnvWithDefault("REDIS_DB", "0"))
	client := redis.NewClient(&redis.Options{
		Addr:         getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		Password:     getEnvWithDefault("REDIS_PASSWORD", ""),
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	return &RedisInvalidator{client: client}, nil
}

// Invalidate 删除实体关联缓存键并发布失效事件
func (r *RedisInvalidator) Invalidate(ctx context.Context, entityType, entityID, changeKind string) error {
	key := fmt.Sprintf("assessment:entity:%s:%s", entityType, entityID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("删除缓存键失败: %w", err)
	}

	event := InvalidationEvent{
		EntityType: entityType,
		EntityID:   entityID,
		ChangeKind: changeKind,
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化失效事件失败: %w", err)
	}
	if err := r.client.Publish(ctx, invalidationChannel, payload).Err(); err != nil {
		return fmt.Errorf("发布失效事件失败: %w", err)
	}
	return nil
}

// Close 关闭Redis客户端
func (r *RedisInvalidator) Close() error {
	return r.client.Close()
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
