package service

import (
	"context"

	"StockScout/internal/domain/models"
)

// OracleClient classifies a candidate against a free-text filter criterion
// using an external LLM-backed decision service. Implementations own the
// per-call timeout; failures carry an oracle failure class for the fallback
// policy.
type OracleClient interface {
	Classify(ctx context.Context, candidate *models.CandidateStock, indicators *models.IndicatorSnapshot, filterText string) (*models.ClassificationResult, error)
}

// HistoryProvider fetches OHLCV history for a stock code, normalized to
// ascending date order with non-positive OHLC bars rejected.
type HistoryProvider interface {
	GetHistory(ctx context.Context, code string) ([]models.Bar, error)
}
