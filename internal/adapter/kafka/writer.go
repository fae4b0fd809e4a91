// Package kafka publishes clean storm records to a sink topic so downstream
// charting consumers can subscribe instead of reading report files.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces clean records to a Kafka topic.
// It implements pipeline.Sink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    500,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishRecords serializes and publishes the clean table in a single
// WriteMessages call. Keyed by event type so one consumer partition sees a
// category's full history in order.
func (w *Writer) PublishRecords(ctx context.Context, records []domain.CleanRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	w.logger.Info("publishing clean records", "count", len(msgs), "topic", w.writer.Topic)
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a CleanRecord into a Kafka message.
func serializeToMessage(rec domain.CleanRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize clean record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.EventType),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(rec.EventType)},
			{Key: "event_date", Value: []byte(rec.Date.Format(time.RFC3339))},
		},
	}, nil
}
