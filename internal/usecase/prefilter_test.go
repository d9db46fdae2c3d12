package usecase

import (
	"testing"

	"StockScout/internal/domain/models"
)

func tenStocksDistinctVolumes() []models.CandidateStock {
	out := make([]models.CandidateStock, 10)
	for i := range out {
		out[i] = models.CandidateStock{
			Code:          string(rune('A' + i)),
			Volume:        float64((i*37)%100 + 1), // distinct, unordered
			ChangePercent: float64(10 - i),
		}
	}
	return out
}

func TestPreFilterVolumeKeyword(t *testing.T) {
	in := tenStocksDistinctVolumes()
	got := NewPreFilter(0.7).Apply(in, "成交量突破")
	if len(got) != 7 {
		t.Fatalf("expected ceil(10*0.7)=7 candidates, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Volume > got[i-1].Volume {
			t.Fatalf("not sorted by descending volume at %d", i)
		}
	}
	// the 7 kept must be exactly the top-7 by volume
	minKept := got[len(got)-1].Volume
	dropped := 0
	for _, c := range in {
		if c.Volume < minKept {
			dropped++
		}
	}
	if dropped != 3 {
		t.Fatalf("expected the 3 lowest-volume stocks dropped, got %d", dropped)
	}
}

func TestPreFilterRisingKeyword(t *testing.T) {
	in := tenStocksDistinctVolumes()
	got := NewPreFilter(0.7).Apply(in, "today's breakout plays")
	if len(got) != 7 {
		t.Fatalf("expected 7 candidates, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].ChangePercent > got[i-1].ChangePercent {
			t.Fatalf("not sorted by descending change percent at %d", i)
		}
	}
}

func TestPreFilterVolumeWinsOverRising(t *testing.T) {
	// contains both a volume and a breakout keyword; first group wins
	got := NewPreFilter(0.7).Apply(tenStocksDistinctVolumes(), "成交量突破")
	for i := 1; i < len(got); i++ {
		if got[i].Volume > got[i-1].Volume {
			t.Fatalf("volume rule must take precedence")
		}
	}
}

func TestPreFilterNoKeywordUnchanged(t *testing.T) {
	in := tenStocksDistinctVolumes()
	got := NewPreFilter(0.7).Apply(in, "undervalued banks")
	if len(got) != len(in) {
		t.Fatalf("expected unchanged list, got %d", len(got))
	}
	for i := range in {
		if got[i].Code != in[i].Code {
			t.Fatalf("order must be preserved when no rule matches")
		}
	}
}

func TestPreFilterEmptyInput(t *testing.T) {
	if got := NewPreFilter(0.7).Apply(nil, "成交量"); len(got) != 0 {
		t.Fatalf("expected empty output")
	}
}
