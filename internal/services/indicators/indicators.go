package indicators

import (
	"errors"
	"fmt"
	"math"
)

// MinBars is the minimum history length accepted for a full snapshot.
// Shorter series are rejected with ErrInsufficientData instead of silently
// degrading indicator accuracy.
const MinBars = 60

// ErrInsufficientData is returned when a series is too short for the
// requested indicator.
var ErrInsufficientData = errors.New("insufficient history data")

// EMA computes the exponential moving average of a series (oldest to newest).
// The first output value is the simple average of the first `period` inputs;
// subsequent values follow ema[i] = (price[i]-ema[i-1])*k + ema[i-1] with
// k = 2/(period+1). Output length is len(series)-period+1.
func EMA(series []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("ema: invalid period %d", period)
	}
	if len(series) < period {
		return nil, ErrInsufficientData
	}
	out := make([]float64, len(series)-period+1)
	sum := 0.0
	for _, v := range series[:period] {
		sum += v
	}
	out[0] = sum / float64(period)
	k := 2.0 / float64(period+1)
	for i := period; i < len(series); i++ {
		prev := out[i-period]
		out[i-period+1] = (series[i]-prev)*k + prev
	}
	return out, nil
}

// SMA computes the simple average of the last `period` values.
func SMA(series []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("sma: invalid period %d", period)
	}
	if len(series) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for _, v := range series[len(series)-period:] {
		sum += v
	}
	return sum / float64(period), nil
}

// RSI computes the Wilder relative strength index over the whole series and
// returns the latest value, bounded to [0,100].
func RSI(series []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("rsi: invalid period %d", period)
	}
	if len(series) < period+1 {
		return 0, ErrInsufficientData
	}
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := series[i] - series[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	n := float64(period)
	for i := period + 1; i < len(series); i++ {
		d := series[i] - series[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*(n-1) + gain) / n
		avgLoss = (avgLoss*(n-1) + loss) / n
	}
	if avgLoss == 0 {
		return 100, nil
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}

// RSIZone classifies an RSI value: below 30 oversold, above 70 overbought.
func RSIZone(rsi float64) string {
	switch {
	case rsi < 30:
		return "oversold"
	case rsi > 70:
		return "overbought"
	default:
		return "neutral"
	}
}

// MACDResult holds the latest MACD line, signal line and histogram value.
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
	Trend     string // "bullish", "neutral", "bearish"
}

// MACD computes the moving average convergence divergence with the given
// fast/slow/signal periods. Trend is bullish when the histogram is positive
// and rising, bearish when negative and falling.
func MACD(series []float64, fast, slow, signal int) (MACDResult, error) {
	var res MACDResult
	if fast <= 0 || slow <= fast || signal <= 0 {
		return res, fmt.Errorf("macd: invalid periods %d/%d/%d", fast, slow, signal)
	}
	if len(series) < slow+signal {
		return res, ErrInsufficientData
	}
	emaFast, err := EMA(series, fast)
	if err != nil {
		return res, err
	}
	emaSlow, err := EMA(series, slow)
	if err != nil {
		return res, err
	}
	// emaFast is longer; align both to the slow tail.
	offset := len(emaFast) - len(emaSlow)
	macdLine := make([]float64, len(emaSlow))
	for i := range emaSlow {
		macdLine[i] = emaFast[i+offset] - emaSlow[i]
	}
	signalLine, err := EMA(macdLine, signal)
	if err != nil {
		return res, err
	}
	histOffset := len(macdLine) - len(signalLine)
	hist := make([]float64, len(signalLine))
	for i := range signalLine {
		hist[i] = macdLine[i+histOffset] - signalLine[i]
	}

	res.MACD = macdLine[len(macdLine)-1]
	res.Signal = signalLine[len(signalLine)-1]
	res.Histogram = hist[len(hist)-1]
	res.Trend = "neutral"
	if len(hist) >= 2 {
		prev := hist[len(hist)-2]
		switch {
		case res.Histogram > 0 && res.Histogram > prev:
			res.Trend = "bullish"
		case res.Histogram < 0 && res.Histogram < prev:
			res.Trend = "bearish"
		}
	}
	return res, nil
}

// Bollinger computes Bollinger Bands over the last `period` values using a
// population standard deviation and k band widths.
func Bollinger(series []float64, period int, k float64) (upper, middle, lower float64, err error) {
	middle, err = SMA(series, period)
	if err != nil {
		return 0, 0, 0, err
	}
	window := series[len(series)-period:]
	variance := 0.0
	for _, v := range window {
		d := v - middle
		variance += d * d
	}
	std := math.Sqrt(variance / float64(period))
	return middle + k*std, middle, middle - k*std, nil
}

// ATR computes the average true range with Wilder smoothing and returns the
// latest value. The first ATR is the simple mean of the first `period` true
// ranges.
func ATR(high, low, close []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("atr: invalid period %d", period)
	}
	n := len(close)
	if n != len(high) || n != len(low) {
		return 0, fmt.Errorf("atr: series length mismatch")
	}
	if n < period+1 {
		return 0, ErrInsufficientData
	}
	trs := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		tr := high[i] - low[i]
		if d := math.Abs(high[i] - close[i-1]); d > tr {
			tr = d
		}
		if d := math.Abs(low[i] - close[i-1]); d > tr {
			tr = d
		}
		trs = append(trs, tr)
	}
	atr := 0.0
	for _, tr := range trs[:period] {
		atr += tr
	}
	atr /= float64(period)
	for _, tr := range trs[period:] {
		atr = (atr*float64(period-1) + tr) / float64(period)
	}
	return atr, nil
}

// SupportResistance derives the nearest support and resistance levels from
// rolling extrema over the last `window` bars.
func SupportResistance(high, low []float64, window int) (support, resistance float64, err error) {
	if window <= 0 {
		return 0, 0, fmt.Errorf("support/resistance: invalid window %d", window)
	}
	if len(high) < window || len(low) < window {
		return 0, 0, ErrInsufficientData
	}
	support = low[len(low)-window]
	resistance = high[len(high)-window]
	for i := len(low) - window; i < len(low); i++ {
		if low[i] < support {
			support = low[i]
		}
		if high[i] > resistance {
			resistance = high[i]
		}
	}
	return support, resistance, nil
}

// Trend classifies the market direction from the EMA 5/10/20/60 ordering.
func Trend(ema5, ema10, ema20, ema60 float64) string {
	switch {
	case ema5 > ema10 && ema10 > ema20 && ema20 > ema60:
		return "strong_up"
	case ema5 > ema10 && ema10 > ema20:
		return "up"
	case ema5 < ema10 && ema10 < ema20 && ema20 < ema60:
		return "strong_down"
	case ema5 < ema10 && ema10 < ema20:
		return "down"
	default:
		return "neutral"
	}
}
