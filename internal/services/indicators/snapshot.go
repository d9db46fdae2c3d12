package indicators

import (
	"StockScout/internal/domain/models"
)

// srWindow is the lookback for rolling support/resistance levels.
const srWindow = 60

// Snapshot computes the full indicator set for one candidate's history.
// Requires at least MinBars bars; shorter series return ErrInsufficientData.
func Snapshot(bars []models.Bar) (*models.IndicatorSnapshot, error) {
	if len(bars) < MinBars {
		return nil, ErrInsufficientData
	}

	closes := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
	}

	snap := &models.IndicatorSnapshot{}
	for _, p := range []struct {
		period int
		dst    *float64
	}{
		{5, &snap.EMA5},
		{10, &snap.EMA10},
		{20, &snap.EMA20},
		{60, &snap.EMA60},
	} {
		ema, err := EMA(closes, p.period)
		if err != nil {
			return nil, err
		}
		*p.dst = ema[len(ema)-1]
	}
	snap.Trend = Trend(snap.EMA5, snap.EMA10, snap.EMA20, snap.EMA60)

	rsi, err := RSI(closes, 14)
	if err != nil {
		return nil, err
	}
	snap.RSI14 = rsi
	snap.RSIZone = RSIZone(rsi)

	macd, err := MACD(closes, 12, 26, 9)
	if err != nil {
		return nil, err
	}
	snap.MACD = macd.MACD
	snap.MACDSignal = macd.Signal
	snap.MACDHist = macd.Histogram
	snap.MACDTrend = macd.Trend

	upper, middle, lower, err := Bollinger(closes, 20, 2)
	if err != nil {
		return nil, err
	}
	snap.BBUpper = upper
	snap.BBMiddle = middle
	snap.BBLower = lower

	atr, err := ATR(highs, lows, closes, 14)
	if err != nil {
		return nil, err
	}
	snap.ATR14 = atr

	support, resistance, err := SupportResistance(highs, lows, srWindow)
	if err != nil {
		return nil, err
	}
	snap.Support = support
	snap.Resistance = resistance

	return snap, nil
}
