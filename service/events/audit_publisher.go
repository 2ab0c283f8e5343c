/*
 * @module service/events/audit_publisher
 * @description 血缘审计消息发布器，将血缘记录异步投递到Kafka审计主题
 * @architecture 适配器模式 - 封装第三方Kafka客户端，实现血缘追踪器的审计协作方接口
 * @documentReference ai_docs/lineage_req.md
 * @stateFlow 血缘记录落库 -> 消息序列化 -> 异步投递 -> 失败仅记日志
 * @rules 审计投递为尽力而为，绝不阻塞或回滚血缘记录本身
 * @dependencies github.com/segmentio/kafka-go, encoding/json
 * @refs service/lineage/tracker.go
 */

package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"assessment-service/service/models"
)

// KafkaAuditPublisher Kafka血缘审计发布器
type KafkaAuditPublisher struct {
	writer *kafka.Writer
}

// NewKafkaAuditPublisher 从环境变量创建发布器，异步模式投递
func NewKafkaAuditPublisher() *KafkaAuditPublisher {
	brokers := strings.Split(getEnvWithDefault("KAFKA_BROKERS", "localhost:9092"), ",")
	topic := getEnvWithDefault("KAFKA_LINEAGE_TOPIC", "assessment.lineage.audit")

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				slog.Warn("血缘审计消息投递失败", "count", len(messages), "error", err)
			}
		},
	}

	return &KafkaAuditPublisher{writer: writer}
}

// PublishLineage 异步投递血缘记录，失败仅记日志
func (p *KafkaAuditPublisher) PublishLineage(ctx context.Context, record *models.LineageRecord) {
	payload, err := json.Marshal(record)
	if err != nil {
		slog.Warn("血缘审计消息序列化失败", "record_id", record.ID, "error", err)
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(record.EntityType + ":" + record.EntityID),
		Value: payload,
	})
	if err != nil {
		slog.Warn("血缘审计消息写入失败", "record_id", record.ID, "error", err)
	}
}

// Close 关闭Kafka写入器
func (p *KafkaAuditPublisher) Close() error {
	return p.writer.Close()
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
