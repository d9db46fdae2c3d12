package usecase

import (
	"math"
	"sort"
	"strings"

	"StockScout/internal/domain/models"
)

// Keyword groups checked in order; first match wins. Matching is
// case-sensitive containment against the raw filter text.
var (
	volumeKeywords = []string{"成交量", "放量", "量能", "volume"}
	risingKeywords = []string{"上涨", "涨幅", "突破", "强势", "rising", "breakout"}
)

// PreFilter heuristically narrows the candidate list before classification.
// An optimization only, not correctness-bearing: the classifier may still
// reject anything the pre-filter keeps.
type PreFilter struct {
	retain float64 // retained share on keyword match, (0,1]
}

func NewPreFilter(retain float64) *PreFilter {
	if retain <= 0 || retain > 1 {
		retain = 0.7
	}
	return &PreFilter{retain: retain}
}

// Apply returns a reduced copy of candidates, or the original slice unchanged
// when no keyword group matches.
func (f *PreFilter) Apply(candidates []models.CandidateStock, filterText string) []models.CandidateStock {
	switch {
	case containsAny(filterText, volumeKeywords):
		return f.top(candidates, func(a, b *models.CandidateStock) bool {
			return a.Volume > b.Volume
		})
	case containsAny(filterText, risingKeywords):
		return f.top(candidates, func(a, b *models.CandidateStock) bool {
			return a.ChangePercent > b.ChangePercent
		})
	default:
		return candidates
	}
}

func (f *PreFilter) top(candidates []models.CandidateStock, less func(a, b *models.CandidateStock) bool) []models.CandidateStock {
	sorted := make([]models.CandidateStock, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return less(&sorted[i], &sorted[j]) })
	keep := int(math.Ceil(float64(len(sorted)) * f.retain))
	return sorted[:keep]
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
