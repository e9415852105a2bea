package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/nurlyy/course_ui/pkg/logger"
)

var _ Publisher = (*KafkaProducer)(nil)

// KafkaProducer публикует события аудита в Kafka
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
	logger logger.Logger
}

// NewKafkaProducer создает новый экземпляр KafkaProducer
func NewKafkaProducer(brokers []string, topic string, log logger.Logger) *KafkaProducer {
	log = log.With("component", "kafka_producer")
	log.Info("Creating Kafka producer", map[string]interface{}{
		"brokers": brokers,
		"topic":   topic,
	})

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  5,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		Logger:       wrapLogger(log, false),
		ErrorLogger:  wrapLogger(log, true),
	}

	return &KafkaProducer{
		writer: writer,
		topic:  topic,
		logger: log,
	}
}

// Close закрывает соединение с Kafka
func (p *KafkaProducer) Close() error {
	p.logger.Info("Closing Kafka producer")
	return p.writer.Close()
}

// PublishAudit публикует событие. Ключ - ресурс и его идентификатор,
// чтобы события одного ресурса попадали в одну партицию
func (p *KafkaProducer) PublishAudit(ctx context.Context, event *AuditEvent) error {
	key := event.Resource
	if event.ResourceID != 0 {
		key += ":" + strconv.Itoa(event.ResourceID)
	}
	return p.publishEvent(ctx, key, event)
}

func (p *KafkaProducer) publishEvent(ctx context.Context, key string, event interface{}) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	start := time.Now()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
	elapsed := time.Since(start)

	if err != nil {
		p.logger.Error("Failed to publish event", err, map[string]interface{}{
			"topic":   p.topic,
			"key":     key,
			"elapsed": elapsed.String(),
		})
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Successfully published event", map[string]interface{}{
		"topic":   p.topic,
		"key":     key,
		"elapsed": elapsed.String(),
	})
	return nil
}

// wrapLogger направляет внутренние сообщения kafka-go в наш логгер
func wrapLogger(log logger.Logger, isError bool) kafka.LoggerFunc {
	return func(msg string, args ...interface{}) {
		text := fmt.Sprintf(msg, args...)
		if isError {
			log.Warn(text)
			return
		}
		log.Debug(text)
	}
}
