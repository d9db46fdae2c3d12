package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"StockScout/internal/domain/models"
	icache "StockScout/internal/service/cache"
	"StockScout/internal/services/indicators"
	"StockScout/internal/services/oracle"
)

func newClassifier(o *fakeOracle, rng Rand) *StockClassifier {
	return NewStockClassifier(o, nil, rng, nopMetrics{}, testLogger())
}

func TestClassifyInsufficientData(t *testing.T) {
	o := &fakeOracle{fn: func(context.Context, *models.CandidateStock, *models.IndicatorSnapshot, string) (*models.ClassificationResult, error) {
		t.Fatal("oracle must not be called for short series")
		return nil, nil
	}}
	c := candidateWithBars("000001", 59)
	_, err := newClassifier(o, NewSeededRand(1)).Classify(context.Background(), &c, "x")
	if !errors.Is(err, indicators.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestClassifyBuyPassThrough(t *testing.T) {
	o := &fakeOracle{fn: func(_ context.Context, _ *models.CandidateStock, ind *models.IndicatorSnapshot, _ string) (*models.ClassificationResult, error) {
		if ind == nil || ind.Trend == "" {
			t.Error("indicator snapshot must be computed before the oracle call")
		}
		return buyResult(), nil
	}}
	c := candidateWithBars("000001", 80)
	res, err := newClassifier(o, NewSeededRand(1)).Classify(context.Background(), &c, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Signal != models.SignalBuy || res.Fallback {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestClassifyHoldIsCleanResult(t *testing.T) {
	o := &fakeOracle{fn: func(context.Context, *models.CandidateStock, *models.IndicatorSnapshot, string) (*models.ClassificationResult, error) {
		return holdResult(), nil
	}}
	c := candidateWithBars("000001", 80)
	res, err := newClassifier(o, NewSeededRand(1)).Classify(context.Background(), &c, "x")
	if err != nil {
		t.Fatalf("hold must not be an error: %v", err)
	}
	if res.Signal != models.SignalHold {
		t.Fatalf("signal = %s", res.Signal)
	}
}

func TestClassifyCacheHitSkipsOracle(t *testing.T) {
	calls := 0
	o := &fakeOracle{fn: func(context.Context, *models.CandidateStock, *models.IndicatorSnapshot, string) (*models.ClassificationResult, error) {
		calls++
		return buyResult(), nil
	}}
	cl := NewStockClassifier(o, icache.NewResultCache(icache.NewTTLCache(), time.Minute), NewSeededRand(1), nopMetrics{}, testLogger())
	c := candidateWithBars("000001", 80)

	if _, err := cl.Classify(context.Background(), &c, "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cl.Classify(context.Background(), &c, "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 oracle call, got %d", calls)
	}
}

func fallbackOutcomes(t *testing.T, seed int64, class oracle.FailureClass, n int) []bool {
	t.Helper()
	o := &fakeOracle{fn: func(context.Context, *models.CandidateStock, *models.IndicatorSnapshot, string) (*models.ClassificationResult, error) {
		return nil, &oracle.Error{Class: class, Err: fmt.Errorf("scripted failure")}
	}}
	cl := newClassifier(o, NewSeededRand(seed))
	out := make([]bool, n)
	for i := range out {
		c := candidateWithBars(fmt.Sprintf("%06d", i), 80)
		res, err := cl.Classify(context.Background(), &c, "x")
		if err != nil {
			var oerr *oracle.Error
			if !errors.As(err, &oerr) {
				t.Fatalf("rejected call must surface the oracle error, got %v", err)
			}
			continue
		}
		if !res.Fallback || res.Signal != models.SignalBuy || res.Confidence != models.ConfidenceLow {
			t.Fatalf("fallback result not degraded-tagged: %+v", res)
		}
		out[i] = true
	}
	return out
}

func TestFallbackDeterministicUnderSeed(t *testing.T) {
	a := fallbackOutcomes(t, 42, oracle.FailureServer, 50)
	b := fallbackOutcomes(t, 42, oracle.FailureServer, 50)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("outcome %d differs across runs with same seed", i)
		}
	}
	passes := 0
	for _, ok := range a {
		if ok {
			passes++
		}
	}
	// server errors pass with p=0.6; on 50 draws expect well away from 0 and 50
	if passes == 0 || passes == 50 {
		t.Fatalf("implausible pass count %d for p=0.6", passes)
	}
}

func TestFallbackReasonTagsClass(t *testing.T) {
	// find a seed/class combination that passes on the first draw
	for seed := int64(0); seed < 20; seed++ {
		out := fallbackOutcomes(t, seed, oracle.FailureRateLimit, 1)
		if !out[0] {
			continue
		}
		o := &fakeOracle{fn: func(context.Context, *models.CandidateStock, *models.IndicatorSnapshot, string) (*models.ClassificationResult, error) {
			return nil, &oracle.Error{Class: oracle.FailureRateLimit, Err: fmt.Errorf("429")}
		}}
		c := candidateWithBars("000001", 80)
		res, err := newClassifier(o, NewSeededRand(seed)).Classify(context.Background(), &c, "x")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Reason == "" || res.StopLoss <= 0 || res.TakeProfit <= res.StopLoss {
			t.Fatalf("degraded result must carry sane levels: %+v", res)
		}
		return
	}
	t.Fatalf("no seed in range produced a first-draw pass for p=0.4")
}
