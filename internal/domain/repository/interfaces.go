package repository

import (
	"context"

	"StockScout/internal/domain/models"
)

// Metrics records screening pipeline observations.
type Metrics interface {
	RecordClassification(outcome string)
	RecordFallback(class string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordProgress(processed, total int)
}

// MatchPublisher emits matched stocks and run summaries to downstream
// consumers (alerting, notification). Best-effort; never affects task state.
type MatchPublisher interface {
	PublishMatch(ctx context.Context, taskID int64, m *models.MatchedStock) error
	PublishRun(ctx context.Context, t *models.ScreeningTask) error
	Close() error
}

// RunArchive persists terminal screening tasks for later inspection.
type RunArchive interface {
	Init(ctx context.Context) error
	StoreRun(ctx context.Context, t *models.ScreeningTask) error
	Close() error
}
