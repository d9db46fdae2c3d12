package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockScout/internal/domain/models"
	domrepo "StockScout/internal/domain/repository"
	domsvc "StockScout/internal/domain/service"
	icache "StockScout/internal/service/cache"
	"StockScout/internal/services/indicators"
	"StockScout/internal/services/oracle"
	xlogger "StockScout/pkg/logger"
)

// fallbackPass maps oracle failure classes to the probability that a failed
// candidate is still surfaced as a degraded match. This is a documented
// heuristic, not a correctness guarantee: it trades clearly tagged false
// positives for not losing a whole run to transient oracle flakiness.
var fallbackPass = map[oracle.FailureClass]float64{
	oracle.FailureAuth:      0.30,
	oracle.FailureRateLimit: 0.40,
	oracle.FailureServer:    0.60,
	oracle.FailureHTTP:      0.50,
	oracle.FailureMalformed: 0.30,
	oracle.FailureSchema:    0.20,
	oracle.FailureTransport: 0.30,
}

// StockClassifier computes the indicator snapshot for a candidate, invokes
// the oracle, and applies the fallback policy on transport/parse failure.
// Hold/sell verdicts are clean results, not failures.
type StockClassifier struct {
	oracle  domsvc.OracleClient
	cache   *icache.ResultCache
	rng     Rand
	metrics domrepo.Metrics
	logger  *xlogger.Logger
}

func NewStockClassifier(oracleClient domsvc.OracleClient, cache *icache.ResultCache, rng Rand, metrics domrepo.Metrics, logger *xlogger.Logger) *StockClassifier {
	if rng == nil {
		rng = NewRand()
	}
	return &StockClassifier{
		oracle:  oracleClient,
		cache:   cache,
		rng:     rng,
		metrics: metrics,
		logger:  logger,
	}
}

// Classify returns the verdict for one candidate. Candidates with too little
// history are skipped with indicators.ErrInsufficientData; oracle failures
// either synthesize a degraded match or propagate the classified error.
func (c *StockClassifier) Classify(ctx context.Context, candidate *models.CandidateStock, filterText string) (*models.ClassificationResult, error) {
	if len(candidate.History) < indicators.MinBars {
		c.metrics.RecordClassification("skipped")
		return nil, fmt.Errorf("%s: %w", candidate.Code, indicators.ErrInsufficientData)
	}

	if c.cache != nil {
		if res, ok := c.cache.Get(candidate.Code); ok {
			c.metrics.RecordClassification("cache_hit")
			return res, nil
		}
	}

	snap, err := indicators.Snapshot(candidate.History)
	if err != nil {
		c.metrics.RecordClassification("skipped")
		return nil, fmt.Errorf("%s: %w", candidate.Code, err)
	}

	start := time.Now()
	res, err := c.oracle.Classify(ctx, candidate, snap, filterText)
	c.metrics.RecordLatency("oracle_classify", time.Since(start).Seconds())
	if err != nil {
		return c.fallback(candidate, snap, err)
	}

	c.metrics.RecordClassification(string(res.Signal))
	if c.cache != nil {
		c.cache.Set(candidate.Code, res)
	}
	return res, nil
}

// fallback rolls the documented pass probability for the failure class and
// either synthesizes a degraded buy result or propagates the error. Degraded
// results are never cached.
func (c *StockClassifier) fallback(candidate *models.CandidateStock, snap *models.IndicatorSnapshot, err error) (*models.ClassificationResult, error) {
	var oerr *oracle.Error
	if !errors.As(err, &oerr) {
		c.metrics.RecordError("classify")
		return nil, err
	}

	if c.rng.Float64() >= fallbackPass[oerr.Class] {
		c.metrics.RecordError("oracle_" + string(oerr.Class))
		return nil, err
	}

	c.metrics.RecordFallback(string(oerr.Class))
	c.logger.Warn("oracle failed, degraded pass",
		xlogger.String("code", candidate.Code),
		xlogger.String("class", string(oerr.Class)))

	stopLoss := snap.Support
	if stopLoss <= 0 || stopLoss >= candidate.Price {
		stopLoss = candidate.Price * 0.95
	}
	takeProfit := snap.Resistance
	if takeProfit <= candidate.Price {
		takeProfit = candidate.Price * 1.10
	}
	res := &models.ClassificationResult{
		Signal:     models.SignalBuy,
		Reason:     fmt.Sprintf("fallback(%s): oracle unavailable, kept by degraded pass", oerr.Class),
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Confidence: models.ConfidenceLow,
		Support:    snap.Support,
		Resistance: snap.Resistance,
		Fallback:   true,
	}
	if risk := candidate.Price - stopLoss; risk > 0 {
		res.RiskRewardRatio = (takeProfit - candidate.Price) / risk
	}
	return res, nil
}
