package models

import "time"

// Bar represents one OHLCV record for a single trading period.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// CandidateStock is an immutable snapshot of one instrument taken when a
// screening task starts. History is ordered oldest to newest with unique dates.
type CandidateStock struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Exchange      string  `json:"exchange"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
	Volume        float64 `json:"volume"`
	Industry      string  `json:"industry"`
	History       []Bar   `json:"history,omitempty"`
}

// IndicatorSnapshot holds the technical indicator values computed once per
// candidate per task. Never mutated after construction.
type IndicatorSnapshot struct {
	EMA5       float64 `json:"ema5"`
	EMA10      float64 `json:"ema10"`
	EMA20      float64 `json:"ema20"`
	EMA60      float64 `json:"ema60"`
	RSI14      float64 `json:"rsi14"`
	RSIZone    string  `json:"rsi_zone"` // "oversold", "neutral", "overbought"
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	MACDHist   float64 `json:"macd_hist"`
	MACDTrend  string  `json:"macd_trend"` // "bullish", "neutral", "bearish"
	BBUpper    float64 `json:"bb_upper"`
	BBMiddle   float64 `json:"bb_middle"`
	BBLower    float64 `json:"bb_lower"`
	ATR14      float64 `json:"atr14"`
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
	Trend      string  `json:"trend"` // "strong_up", "up", "neutral", "down", "strong_down"
}
