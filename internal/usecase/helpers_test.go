package usecase

import (
	"context"
	"fmt"
	"math"

	"StockScout/internal/domain/models"
	applogger "StockScout/pkg/logger"
)

// fakeOracle lets tests script the oracle verdict per call.
type fakeOracle struct {
	fn func(ctx context.Context, c *models.CandidateStock, ind *models.IndicatorSnapshot, filter string) (*models.ClassificationResult, error)
}

func (f *fakeOracle) Classify(ctx context.Context, c *models.CandidateStock, ind *models.IndicatorSnapshot, filter string) (*models.ClassificationResult, error) {
	return f.fn(ctx, c, ind, filter)
}

// nopMetrics satisfies the domain Metrics interface for tests.
type nopMetrics struct{}

func (nopMetrics) RecordClassification(string)   {}
func (nopMetrics) RecordFallback(string)         {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}
func (nopMetrics) RecordProgress(int, int)       {}

func testLogger() *applogger.Logger {
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		panic(err)
	}
	return l
}

func buyResult() *models.ClassificationResult {
	return &models.ClassificationResult{
		Signal:     models.SignalBuy,
		Reason:     "matches criteria",
		StopLoss:   9.5,
		TakeProfit: 12,
		Confidence: models.ConfidenceMedium,
	}
}

func holdResult() *models.ClassificationResult {
	r := buyResult()
	r.Signal = models.SignalHold
	return r
}

func candidateWithBars(code string, n int) models.CandidateStock {
	bars := make([]models.Bar, n)
	for i := range bars {
		c := 10 + math.Sin(float64(i)/4)
		bars[i] = models.Bar{Open: c, High: c + 0.5, Low: c - 0.5, Close: c, Volume: 1000}
	}
	return models.CandidateStock{
		Code:    code,
		Name:    "stock " + code,
		Price:   10,
		Volume:  1000,
		History: bars,
	}
}

func candidates(n, bars int) []models.CandidateStock {
	out := make([]models.CandidateStock, n)
	for i := range out {
		out[i] = candidateWithBars(fmt.Sprintf("60%04d", i), bars)
	}
	return out
}
