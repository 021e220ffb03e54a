// Package kafka 提供聊天消息归档的生产者。
//
// 每条持久化成功的聊天消息都会以尽力而为的方式写入归档主题，
// 供下游的统计或审计消费；投递失败只记日志，绝不影响聊天链路。
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"mgit-community-go/internal/config"
	"mgit-community-go/internal/model"
	"mgit-community-go/pkg/log"
)

var producer *kafka.Writer

// InitProducer 初始化 Kafka 生产者。Brokers 为空时归档功能保持关闭。
func InitProducer(cfg config.KafkaConfig) {
	if cfg.Brokers == "" {
		log.Info("Kafka 未配置，聊天归档已关闭")
		return
	}
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
}

// Enabled 返回归档功能是否开启。
func Enabled() bool {
	return producer != nil
}

// ArchiveChatMessage 把一条聊天消息写入归档主题。
// 以消息 ID 作为 key，便于下游按消息去重。
func ArchiveChatMessage(ctx context.Context, message *model.ChatMessage) error {
	if producer == nil {
		return nil
	}
	value, err := json.Marshal(message)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(message.ID),
		Value: value,
	})
}

// Close 关闭生产者，在进程退出前调用。
func Close() {
	if producer == nil {
		return
	}
	if err := producer.Close(); err != nil {
		log.Errorf("关闭 Kafka 生产者失败: %v", err)
	}
}
