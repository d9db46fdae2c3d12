package indicators

import (
	"math"
	"testing"

	"StockScout/internal/domain/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEMASeedAndRecurrence(t *testing.T) {
	closes := []float64{10, 10.5, 11, 10.8, 11.2, 11.5, 11.3, 11.8, 12, 12.2}
	out, err := EMA(closes, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 6 {
		t.Fatalf("expected 6 values, got %d", len(out))
	}
	seed := (10 + 10.5 + 11 + 10.8 + 11.2) / 5.0
	if !almostEqual(out[0], seed) {
		t.Fatalf("seed = %v, want %v", out[0], seed)
	}
	k := 2.0 / 6.0
	for i := 1; i < len(out); i++ {
		want := (closes[i+4]-out[i-1])*k + out[i-1]
		if out[i] != want {
			t.Fatalf("ema[%d] = %v, want exact recurrence value %v", i, out[i], want)
		}
	}
}

func TestEMAInsufficientData(t *testing.T) {
	if _, err := EMA([]float64{1, 2, 3}, 5); err != ErrInsufficientData {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestEMADeterministic(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + math.Sin(float64(i)/3)*5
	}
	a, err := EMA(closes, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := EMA(closes, 20)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("ema not bit-identical at %d", i)
		}
	}
}

func TestRSIBounds(t *testing.T) {
	cases := [][]float64{
		make([]float64, 30),
		make([]float64, 30),
		make([]float64, 30),
	}
	for i := range cases[0] {
		cases[0][i] = float64(i + 1) // monotonic up
		cases[1][i] = float64(40 - i) // monotonic down
		cases[2][i] = 50 + math.Sin(float64(i))*10
	}
	for ci, series := range cases {
		rsi, err := RSI(series, 14)
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", ci, err)
		}
		if rsi < 0 || rsi > 100 {
			t.Fatalf("case %d: rsi %v out of [0,100]", ci, rsi)
		}
	}
}

func TestRSIMonotonicUpIsOverbought(t *testing.T) {
	series := make([]float64, 30)
	for i := range series {
		series[i] = float64(i + 1)
	}
	rsi, err := RSI(series, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 100 {
		t.Fatalf("all-gains series should give rsi 100, got %v", rsi)
	}
	if RSIZone(rsi) != "overbought" {
		t.Fatalf("expected overbought zone")
	}
	if RSIZone(25) != "oversold" || RSIZone(50) != "neutral" {
		t.Fatalf("zone classification wrong")
	}
}

func TestMACDBullishOnUptrend(t *testing.T) {
	series := make([]float64, 80)
	for i := range series {
		series[i] = 100 * math.Pow(1.01, float64(i)) // accelerating uptrend
	}
	res, err := MACD(series, 12, 26, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MACD <= 0 || res.Histogram <= 0 {
		t.Fatalf("expected positive macd/histogram, got %+v", res)
	}
	if res.Trend != "bullish" {
		t.Fatalf("expected bullish trend, got %s", res.Trend)
	}
	if !almostEqual(res.Histogram, res.MACD-res.Signal) {
		t.Fatalf("histogram must equal macd-signal")
	}
}

func TestBollingerBandsOrdering(t *testing.T) {
	series := make([]float64, 40)
	for i := range series {
		series[i] = 50 + math.Cos(float64(i)/2)*3
	}
	upper, middle, lower, err := Bollinger(series, 20, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !(upper > middle && middle > lower) {
		t.Fatalf("band ordering broken: %v %v %v", upper, middle, lower)
	}
	if !almostEqual(upper-middle, middle-lower) {
		t.Fatalf("bands must be symmetric around the middle")
	}
}

func TestBollingerFlatSeries(t *testing.T) {
	series := make([]float64, 25)
	for i := range series {
		series[i] = 42
	}
	upper, middle, lower, err := Bollinger(series, 20, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upper != 42 || middle != 42 || lower != 42 {
		t.Fatalf("flat series should collapse bands, got %v %v %v", upper, middle, lower)
	}
}

func TestATRNonNegativeAndWilderSeed(t *testing.T) {
	n := 20
	high := make([]float64, n)
	low := make([]float64, n)
	closeS := make([]float64, n)
	for i := 0; i < n; i++ {
		closeS[i] = 100 + float64(i%3)
		high[i] = closeS[i] + 2
		low[i] = closeS[i] - 2
	}
	atr, err := ATR(high, low, closeS, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atr < 0 {
		t.Fatalf("atr must be non-negative, got %v", atr)
	}
	if atr < 4 {
		t.Fatalf("true range is at least high-low=4, got atr %v", atr)
	}
}

func TestATRLengthMismatch(t *testing.T) {
	if _, err := ATR([]float64{1, 2}, []float64{1}, []float64{1, 2}, 1); err == nil {
		t.Fatalf("expected error on mismatched series")
	}
}

func TestSupportResistance(t *testing.T) {
	high := []float64{10, 11, 15, 12, 13}
	low := []float64{9, 8, 10, 7, 9}
	support, resistance, err := SupportResistance(high, low, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if support != 7 || resistance != 15 {
		t.Fatalf("got support %v resistance %v", support, resistance)
	}
}

func TestTrendClassification(t *testing.T) {
	cases := []struct {
		e5, e10, e20, e60 float64
		want              string
	}{
		{40, 30, 20, 10, "strong_up"},
		{40, 30, 20, 25, "up"},
		{10, 20, 30, 40, "strong_down"},
		{10, 20, 30, 25, "down"},
		{20, 10, 30, 40, "neutral"},
	}
	for _, c := range cases {
		if got := Trend(c.e5, c.e10, c.e20, c.e60); got != c.want {
			t.Fatalf("Trend(%v,%v,%v,%v) = %s, want %s", c.e5, c.e10, c.e20, c.e60, got, c.want)
		}
	}
}

func makeBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		c := 100 + math.Sin(float64(i)/5)*8
		bars[i] = models.Bar{
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func TestSnapshotRequiresMinBars(t *testing.T) {
	if _, err := Snapshot(makeBars(MinBars - 1)); err != ErrInsufficientData {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestSnapshotComplete(t *testing.T) {
	snap, err := Snapshot(makeBars(90))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.RSI14 < 0 || snap.RSI14 > 100 {
		t.Fatalf("rsi out of range: %v", snap.RSI14)
	}
	if snap.ATR14 <= 0 {
		t.Fatalf("atr should be positive for a moving series")
	}
	if snap.Support <= 0 || snap.Resistance <= snap.Support {
		t.Fatalf("support/resistance not sane: %v %v", snap.Support, snap.Resistance)
	}
	if snap.Trend == "" || snap.RSIZone == "" || snap.MACDTrend == "" {
		t.Fatalf("classifications must be populated")
	}
	again, _ := Snapshot(makeBars(90))
	if *again != *snap {
		t.Fatalf("snapshot must be deterministic for identical input")
	}
}
