package repository

import (
	"context"
	"fmt"
	"time"

	"StockScout/internal/domain/models"
	pkgkafka "StockScout/pkg/kafka"
)

// KafkaMatchPublisher ships matched stocks and run summaries to Kafka.
// Messages are keyed by stock code so downstream consumers see per-stock
// ordering.
type KafkaMatchPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaMatchPublisher(producer *pkgkafka.Producer, topic string) *KafkaMatchPublisher {
	return &KafkaMatchPublisher{producer: producer, topic: topic}
}

type matchEvent struct {
	Type      string               `json:"type"`
	TaskID    int64                `json:"task_id"`
	Stock     *models.MatchedStock `json:"stock,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

type runEvent struct {
	Type           string        `json:"type"`
	TaskID         int64         `json:"task_id"`
	FilterCriteria string        `json:"filter_criteria"`
	Status         string        `json:"status"`
	TotalCount     int           `json:"total_count"`
	ProcessedCount int           `json:"processed_count"`
	MatchedCount   int           `json:"matched_count"`
	Summary        string        `json:"summary"`
	Error          string        `json:"error,omitempty"`
	Duration       time.Duration `json:"duration_ms"`
	Timestamp      time.Time     `json:"timestamp"`
}

func (p *KafkaMatchPublisher) PublishMatch(ctx context.Context, taskID int64, m *models.MatchedStock) error {
	ev := matchEvent{
		Type:      "match",
		TaskID:    taskID,
		Stock:     m,
		Timestamp: time.Now(),
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(m.Code), ev); err != nil {
		return fmt.Errorf("publish match %s: %w", m.Code, err)
	}
	return nil
}

func (p *KafkaMatchPublisher) PublishRun(ctx context.Context, t *models.ScreeningTask) error {
	ev := runEvent{
		Type:           "run",
		TaskID:         t.ID,
		FilterCriteria: t.FilterCriteria,
		Status:         string(t.Status),
		TotalCount:     t.TotalCount,
		ProcessedCount: t.ProcessedCount,
		MatchedCount:   len(t.Matched),
		Summary:        t.Summary,
		Error:          t.Error,
		Duration:       t.FinishedAt.Sub(t.CreatedAt) / time.Millisecond,
		Timestamp:      time.Now(),
	}
	key := []byte(fmt.Sprintf("task-%d", t.ID))
	if err := p.producer.Publish(ctx, p.topic, key, ev); err != nil {
		return fmt.Errorf("publish run %d: %w", t.ID, err)
	}
	return nil
}

func (p *KafkaMatchPublisher) Close() error {
	return p.producer.Close()
}

// LogPublisher adapts the producer to the logger collector's Publisher
// interface so aggregated logs ride the same Kafka connection.
type LogPublisher struct {
	producer *pkgkafka.Producer
}

func NewLogPublisher(producer *pkgkafka.Producer) *LogPublisher {
	return &LogPublisher{producer: producer}
}

func (p *LogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}
