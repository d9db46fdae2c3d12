package cache

import (
	"testing"
	"time"

	"StockScout/internal/domain/models"
)

func TestResultCacheRoundTrip(t *testing.T) {
	c := NewResultCache(NewTTLCache(), time.Minute)

	if _, ok := c.Get("600519"); ok {
		t.Fatalf("expected miss on empty cache")
	}

	res := &models.ClassificationResult{
		Signal:     models.SignalBuy,
		Reason:     "volume breakout",
		StopLoss:   9.5,
		TakeProfit: 12,
		Confidence: models.ConfidenceHigh,
	}
	c.Set("600519", res)

	got, ok := c.Get("600519")
	if !ok {
		t.Fatalf("expected hit")
	}
	if got.Signal != res.Signal || got.StopLoss != res.StopLoss || got.Reason != res.Reason {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	tc := NewTTLCache()
	tc.Set("k", []byte("v"), 10*time.Millisecond)
	if _, ok := tc.Get("k"); !ok {
		t.Fatalf("expected hit before expiry")
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok := tc.Get("k"); ok {
		t.Fatalf("expected miss after expiry")
	}
}
