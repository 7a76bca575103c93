package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/forestecon/forest-rents/internal/config"
	"github.com/forestecon/forest-rents/internal/panel"
)

// Publisher produces panel rows to a Kafka topic for downstream consumers.
// It is feature-flagged: construction is skipped entirely when the sink is
// disabled in config.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured panel topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishPanel serializes and publishes panel rows in a single WriteMessages
// call per batch.
func (p *Publisher) PublishPanel(ctx context.Context, rows []panel.Row) error {
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(rows))
	for i := range rows {
		msg, err := serializeRow(rows[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish panel batch: %w", err)
	}
	p.logger.Info("panel published", "rows", len(rows), "topic", p.writer.Topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeRow marshals a panel row into a Kafka message keyed by the row's
// natural key, with the vintage and source carried as headers.
func serializeRow(row panel.Row) (kafkago.Message, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize panel row: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(row.ID()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(row.Source)},
			{Key: "vintage", Value: []byte(row.Vintage.Format(time.RFC3339))},
		},
	}, nil
}
