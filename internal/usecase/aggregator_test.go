package usecase

import (
	"fmt"
	"strings"
	"testing"

	"StockScout/internal/domain/models"
)

func taskWithMatches(n int) *models.ScreeningTask {
	t := &models.ScreeningTask{
		FilterCriteria: "breakout volume",
		TotalCount:     n * 2,
		ProcessedCount: n * 2,
	}
	for i := 0; i < n; i++ {
		conf := models.ConfidenceMedium
		if i%3 == 0 {
			conf = models.ConfidenceHigh
		}
		t.Matched = append(t.Matched, models.MatchedStock{
			Code: fmt.Sprintf("60%04d", i),
			Name: fmt.Sprintf("stock %d", i),
			Result: &models.ClassificationResult{
				Signal:     models.SignalBuy,
				Confidence: conf,
			},
		})
	}
	return t
}

func TestSummarizeEmpty(t *testing.T) {
	task := &models.ScreeningTask{FilterCriteria: "rsi oversold", TotalCount: 12}
	got := ResultAggregator{}.Summarize(task)
	if !strings.Contains(got, "no matches") || !strings.Contains(got, "12") {
		t.Fatalf("unexpected empty summary: %q", got)
	}
}

func TestSummarizeBreakdownAndListing(t *testing.T) {
	got := ResultAggregator{}.Summarize(taskWithMatches(4))
	if !strings.Contains(got, "4 of 8 candidates") {
		t.Fatalf("missing header: %q", got)
	}
	if !strings.Contains(got, "high: 2") || !strings.Contains(got, "medium: 2") {
		t.Fatalf("missing confidence breakdown: %q", got)
	}
	for i := 0; i < 4; i++ {
		if !strings.Contains(got, fmt.Sprintf("60%04d", i)) {
			t.Fatalf("match %d not listed: %q", i, got)
		}
	}
}

func TestSummarizeTruncatesListing(t *testing.T) {
	got := ResultAggregator{}.Summarize(taskWithMatches(14))
	if !strings.Contains(got, "... and 4 more") {
		t.Fatalf("expected truncation note: %q", got)
	}
	if strings.Contains(got, "600013") {
		t.Fatalf("matches past the cap must not be listed: %q", got)
	}
}

func TestSummarizeRecoversToCount(t *testing.T) {
	task := taskWithMatches(3)
	task.Matched[1].Result = nil // forces a nil deref inside the breakdown
	got := ResultAggregator{}.Summarize(task)
	if got != "3 matches found" {
		t.Fatalf("expected degraded one-liner, got %q", got)
	}
}
