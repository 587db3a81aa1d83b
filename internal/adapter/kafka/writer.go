// Package kafka publishes classified district results to a Kafka topic so
// downstream alerting services can consume them.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/andeanclimate/tmin-zonal/internal/config"
	"github.com/andeanclimate/tmin-zonal/internal/domain"
)

// Writer produces one message per ranked district to the risk topic.
// It implements pipeline.SnapshotSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured risk topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// Publish serializes every ranked district and writes the batch in a
// single WriteMessages call. No-data districts are not published; they
// carry no temperature signal for alerting.
func (w *Writer) Publish(ctx context.Context, snap domain.Snapshot) error {
	if len(snap.Ranking.Ranked) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snap.Ranking.Ranked))
	for i, d := range snap.Ranking.Ranked {
		msg, err := serializeToMessage(snap, d)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	w.logger.Info("district risk batch published", "run_id", snap.RunID, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ranked district into a Kafka message keyed
// by district identifier, so compaction keeps the latest result per district.
func serializeToMessage(snap domain.Snapshot, d domain.RankedDistrict) (kafkago.Message, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize district result: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(d.DistrictID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_category", Value: []byte(d.Category)},
			{Key: "run_id", Value: []byte(snap.RunID)},
			{Key: "generated_at", Value: []byte(snap.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
