package oracle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StockScout/internal/domain/models"
	"StockScout/pkg/config"
)

func testSnapshot() *models.IndicatorSnapshot {
	return &models.IndicatorSnapshot{Support: 9.5, Resistance: 12.5}
}

func TestParseResultValid(t *testing.T) {
	content := `{"signal":"Buy","reason":"breakout","stop_loss":9.8,"take_profit":12.0,"confidence":"high"}`
	res, oerr := parseResult(content, 10.0, testSnapshot())
	if oerr != nil {
		t.Fatalf("unexpected error: %v", oerr)
	}
	if res.Signal != models.SignalBuy {
		t.Fatalf("signal = %s", res.Signal)
	}
	if res.Confidence != models.ConfidenceHigh {
		t.Fatalf("confidence = %s", res.Confidence)
	}
	// missing support/resistance come from the snapshot
	if res.Support != 9.5 || res.Resistance != 12.5 {
		t.Fatalf("support/resistance not filled from snapshot: %+v", res)
	}
	// risk/reward derived: (12-10)/(10-9.8) = 10
	if res.RiskRewardRatio < 9.99 || res.RiskRewardRatio > 10.01 {
		t.Fatalf("risk reward = %v", res.RiskRewardRatio)
	}
}

func TestParseResultMarkdownFenced(t *testing.T) {
	content := "```json\n{\"signal\":\"hold\",\"stop_loss\":1,\"take_profit\":2}\n```"
	res, oerr := parseResult(content, 1.5, testSnapshot())
	if oerr != nil {
		t.Fatalf("unexpected error: %v", oerr)
	}
	if res.Signal != models.SignalHold {
		t.Fatalf("signal = %s", res.Signal)
	}
}

func TestParseResultNonJSON(t *testing.T) {
	_, oerr := parseResult("I think you should buy this stock.", 10, testSnapshot())
	if oerr == nil || oerr.Class != FailureMalformed {
		t.Fatalf("expected malformed, got %v", oerr)
	}
}

func TestParseResultSchemaViolations(t *testing.T) {
	cases := []string{
		`{"signal":"maybe","stop_loss":1,"take_profit":2}`,
		`{"signal":"buy","take_profit":2}`,
		`{"signal":"buy","stop_loss":1}`,
	}
	for i, content := range cases {
		_, oerr := parseResult(content, 10, testSnapshot())
		if oerr == nil || oerr.Class != FailureSchema {
			t.Fatalf("case %d: expected schema failure, got %v", i, oerr)
		}
	}
}

func TestStatusErrorClasses(t *testing.T) {
	cases := []struct {
		status int
		want   FailureClass
	}{
		{401, FailureAuth},
		{403, FailureAuth},
		{429, FailureRateLimit},
		{500, FailureServer},
		{503, FailureServer},
		{404, FailureHTTP},
	}
	for _, c := range cases {
		if got := newStatusError(c.status, nil).Class; got != c.want {
			t.Fatalf("status %d: class %s, want %s", c.status, got, c.want)
		}
	}
}

func newTestClient(baseURL string) *Client {
	cfg := &config.Config{}
	cfg.Oracle.BaseURL = baseURL
	cfg.Oracle.APIKey = "test-key"
	cfg.Oracle.Model = "screener-v1"
	cfg.Oracle.Timeout = 5 * time.Second
	return NewClient(cfg)
}

func testCandidate() *models.CandidateStock {
	bars := make([]models.Bar, 60)
	for i := range bars {
		bars[i] = models.Bar{Open: 10, High: 11, Low: 9, Close: 10, Volume: 100}
	}
	return &models.CandidateStock{Code: "600519", Name: "test", Price: 10, History: bars}
}

func TestClassifySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing auth header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"signal\":\"buy\",\"reason\":\"ok\",\"stop_loss\":9.5,\"take_profit\":11.5}"}}]}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).Classify(context.Background(), testCandidate(), testSnapshot(), "volume breakout")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Signal != models.SignalBuy || res.StopLoss != 9.5 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestClassifyStatusTaxonomy(t *testing.T) {
	status := http.StatusTooManyRequests
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()

	cli := newTestClient(srv.URL)
	_, err := cli.Classify(context.Background(), testCandidate(), testSnapshot(), "x")
	var oerr *Error
	if !errors.As(err, &oerr) || oerr.Class != FailureRateLimit {
		t.Fatalf("expected rate_limited, got %v", err)
	}

	status = http.StatusInternalServerError
	_, err = cli.Classify(context.Background(), testCandidate(), testSnapshot(), "x")
	if !errors.As(err, &oerr) || oerr.Class != FailureServer {
		t.Fatalf("expected server, got %v", err)
	}
}

func TestClassifyTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestClient(srv.URL).Classify(context.Background(), testCandidate(), testSnapshot(), "x")
	var oerr *Error
	if !errors.As(err, &oerr) || oerr.Class != FailureTransport {
		t.Fatalf("expected transport failure, got %v", err)
	}
}

func TestClassifyMalformedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Classify(context.Background(), testCandidate(), testSnapshot(), "x")
	var oerr *Error
	if !errors.As(err, &oerr) || oerr.Class != FailureMalformed {
		t.Fatalf("expected malformed, got %v", err)
	}
}
