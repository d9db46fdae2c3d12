package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"StockScout/pkg/config"
)

func TestGetHistoryNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("code"); got != "000001" {
			t.Errorf("code = %s", got)
		}
		_, _ = w.Write([]byte(`{"code":"000001","bars":[
			{"date":"2024-01-03","open":10,"high":11,"low":9,"close":10.5,"volume":300},
			{"date":"2024-01-01","open":9,"high":10,"low":8,"close":9.5,"volume":100},
			{"date":"2024-01-02","open":0,"high":10,"low":9,"close":9.8,"volume":200},
			{"date":"2024-01-01","open":9.1,"high":10,"low":8,"close":9.6,"volume":100},
			{"date":"bogus","open":1,"high":1,"low":1,"close":1,"volume":1}
		]}`))
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.MarketData.BaseURL = srv.URL
	bars, err := NewClient(cfg).GetHistory(context.Background(), "000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// zero-open bar, bogus date, and the duplicate date are dropped
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if !bars[0].Date.Before(bars[1].Date) {
		t.Fatalf("bars must be ascending by date")
	}
	if bars[0].Close != 9.5 || bars[1].Close != 10.5 {
		t.Fatalf("unexpected bars: %+v", bars)
	}
}

func TestGetHistoryTransportError(t *testing.T) {
	cfg := &config.Config{}
	cfg.MarketData.BaseURL = "http://127.0.0.1:1"
	if _, err := NewClient(cfg).GetHistory(context.Background(), "X"); err == nil {
		t.Fatalf("expected error")
	}
}
