package audit

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/aera-platform/riskengine/internal/config"
	"github.com/aera-platform/riskengine/internal/domain/models"
	"github.com/aera-platform/riskengine/pkg/logger"
)

// KafkaProducer mirrors audit records onto a Kafka topic for downstream
// consumers. It is a mirror, not the system of record.
type KafkaProducer struct {
	writer *kafka.Writer
	logger logger.Logger
}

// NewKafkaProducer creates a Kafka-backed AuditService. The caller owns
// the writer and must Close it after the run.
func NewKafkaProducer(cfg config.KafkaConfig, log logger.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.AuditTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: cfg.WriteTimeout,
		BatchSize:    cfg.BatchSize,
	}
	return &KafkaProducer{
		writer: writer,
		logger: log.WithComponent("kafka_audit"),
	}
}

// Record publishes one audit record, keyed by run id so all records of a
// run land on the same partition in order.
func (p *KafkaProducer) Record(ctx context.Context, record *models.AuditRecord) error {
	bytes, err := json.Marshal(record)
	if err != nil {
		p.logger.Error(ctx, "failed to marshal audit record", err)
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(record.RunID),
		Value: bytes,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to publish audit record", err)
	}
	return err
}

// Close closes the underlying Kafka writer.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
