package usecase

import (
	"fmt"
	"strings"

	"StockScout/internal/domain/models"
)

const summaryMaxListed = 10

// ResultAggregator renders the final human-readable run summary. Purely
// presentational: any internal failure degrades to a one-line count instead
// of propagating.
type ResultAggregator struct{}

// Summarize builds the terminal report: match count, confidence breakdown,
// and up to the first ten matches.
func (ResultAggregator) Summarize(t *models.ScreeningTask) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("%d matches found", len(t.Matched))
		}
	}()

	if len(t.Matched) == 0 {
		return fmt.Sprintf("no matches among %d candidates for %q", t.TotalCount, t.FilterCriteria)
	}

	byConf := make(map[models.Confidence]int)
	for _, m := range t.Matched {
		byConf[m.Result.Confidence]++
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d of %d candidates matched %q (high: %d, medium: %d, low: %d)\n",
		len(t.Matched), t.TotalCount, t.FilterCriteria,
		byConf[models.ConfidenceHigh], byConf[models.ConfidenceMedium], byConf[models.ConfidenceLow])

	limit := len(t.Matched)
	if limit > summaryMaxListed {
		limit = summaryMaxListed
	}
	for _, m := range t.Matched[:limit] {
		fmt.Fprintf(&sb, "%s %s: %s (%s)\n", m.Code, m.Name, m.Result.Signal, m.Result.Confidence)
	}
	if rest := len(t.Matched) - limit; rest > 0 {
		fmt.Fprintf(&sb, "... and %d more\n", rest)
	}
	return strings.TrimRight(sb.String(), "\n")
}
