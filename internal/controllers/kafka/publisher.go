// Package kafkactrl streams resolved hours to a Kafka topic, keyed by building
// so that every building keeps its hours ordered within one partition.
package kafkactrl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/Agrid-Dev/rcdemand/internal/simulation"
)

// DefaultBatchHours is one week of hourly messages per write.
const DefaultBatchHours = 168

// Header values of the "kind" header.
const (
	KindHour    = "hour"
	KindSummary = "summary"
)

// Writer is the subset of *kafka.Writer used by the publisher.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Config struct {
	Brokers    []string
	Topic      string
	BatchHours int
}

func (c *Config) applyDefaults() error {
	if c.Topic == "" {
		return errors.New("kafka: topic is required")
	}
	if c.BatchHours < 0 {
		return errors.New("kafka: batch hours must be positive")
	}
	if c.BatchHours == 0 {
		c.BatchHours = DefaultBatchHours
	}
	return nil
}

type Publisher struct {
	w      Writer
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{}, // partition by key (building id)
		RequiredAcks: kafka.RequireAll,
		BatchSize:    cfg.BatchHours,
	}
	logger.Info("kafka writer created", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return &Publisher{w: w, cfg: cfg, logger: logger}, nil
}

// NewWithWriter wires an existing writer.
func NewWithWriter(w Writer, cfg Config, logger *slog.Logger) (*Publisher, error) {
	if w == nil {
		return nil, errors.New("kafka: writer is required")
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{w: w, cfg: cfg, logger: logger}, nil
}

// Publish implements simulation.Sink: it sends every resolved hour of the
// building, then its summary.
func (p *Publisher) Publish(ctx context.Context, res simulation.Result) error {
	id := res.Summary.BuildingID
	headers := func(kind string) []kafka.Header {
		return []kafka.Header{
			{Key: "run_id", Value: []byte(res.RunID)},
			{Key: "kind", Value: []byte(kind)},
		}
	}

	if res.Record != nil {
		hours := min(res.Summary.Hours, res.Record.Hours)
		batch := make([]kafka.Message, 0, min(hours, p.cfg.BatchHours))
		for t := 0; t < hours; t++ {
			b, err := json.Marshal(res.Record.Hour(t))
			if err != nil {
				return fmt.Errorf("kafka: encode %s hour %d: %w", id, t, err)
			}
			batch = append(batch, kafka.Message{Key: []byte(id), Value: b, Headers: headers(KindHour)})
			if len(batch) == p.cfg.BatchHours {
				if err := p.w.WriteMessages(ctx, batch...); err != nil {
					return fmt.Errorf("kafka: write %s: %w", id, err)
				}
				batch = batch[:0]
			}
		}
		if len(batch) > 0 {
			if err := p.w.WriteMessages(ctx, batch...); err != nil {
				return fmt.Errorf("kafka: write %s: %w", id, err)
			}
		}
	}

	b, err := json.Marshal(res.Summary)
	if err != nil {
		return fmt.Errorf("kafka: encode %s summary: %w", id, err)
	}
	if err := p.w.WriteMessages(ctx, kafka.Message{Key: []byte(id), Value: b, Headers: headers(KindSummary)}); err != nil {
		return fmt.Errorf("kafka: write %s summary: %w", id, err)
	}
	p.logger.Debug("building streamed", "building", id, "hours", res.Summary.Hours, "topic", p.cfg.Topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}
