package models

// Signal is the oracle's trading recommendation for a candidate.
type Signal string

const (
	SignalBuy  Signal = "buy"
	SignalHold Signal = "hold"
	SignalSell Signal = "sell"
)

// Confidence is the oracle's self-reported conviction level.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ClassificationResult is the validated oracle verdict for one candidate.
// StopLoss and TakeProfit are always populated, also for hold/sell signals.
// Fallback marks results synthesized by the degraded-pass policy after an
// oracle failure; their Reason carries the failure class tag.
type ClassificationResult struct {
	Signal          Signal     `json:"signal"`
	Reason          string     `json:"reason"`
	StopLoss        float64    `json:"stop_loss"`
	TakeProfit      float64    `json:"take_profit"`
	Confidence      Confidence `json:"confidence"`
	RiskRewardRatio float64    `json:"risk_reward_ratio"`
	Support         float64    `json:"support"`
	Resistance      float64    `json:"resistance"`
	Fallback        bool       `json:"fallback,omitempty"`
}

// MatchedStock pairs a candidate with the buy-signal result that retained it.
type MatchedStock struct {
	Code          string                `json:"code"`
	Name          string                `json:"name"`
	Exchange      string                `json:"exchange"`
	Industry      string                `json:"industry"`
	Price         float64               `json:"price"`
	ChangePercent float64               `json:"change_percent"`
	Result        *ClassificationResult `json:"result"`
}
