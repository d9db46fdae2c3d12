package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"StockScout/internal/domain/models"
)

// rawResult mirrors the JSON the oracle embeds in its message content.
// Required fields are pointers so absence is distinguishable from zero.
type rawResult struct {
	Signal          string   `json:"signal"`
	Reason          string   `json:"reason"`
	StopLoss        *float64 `json:"stop_loss"`
	TakeProfit      *float64 `json:"take_profit"`
	Confidence      string   `json:"confidence"`
	Support         *float64 `json:"support"`
	Resistance      *float64 `json:"resistance"`
	RiskRewardRatio *float64 `json:"risk_reward_ratio"`
}

// parseResult validates the embedded verdict JSON. Missing optional fields
// (support, resistance, risk_reward_ratio) are filled from the indicator
// snapshot instead of trusting empty values.
func parseResult(content string, price float64, ind *models.IndicatorSnapshot) (*models.ClassificationResult, *Error) {
	payload := stripFences(content)

	var raw rawResult
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, &Error{Class: FailureMalformed, Err: fmt.Errorf("decode verdict: %w", err)}
	}

	signal := models.Signal(strings.ToLower(strings.TrimSpace(raw.Signal)))
	switch signal {
	case models.SignalBuy, models.SignalHold, models.SignalSell:
	default:
		return nil, &Error{Class: FailureSchema, Err: fmt.Errorf("invalid signal %q", raw.Signal)}
	}
	if raw.StopLoss == nil || raw.TakeProfit == nil {
		return nil, &Error{Class: FailureSchema, Err: fmt.Errorf("missing stop_loss/take_profit")}
	}

	res := &models.ClassificationResult{
		Signal:     signal,
		Reason:     raw.Reason,
		StopLoss:   *raw.StopLoss,
		TakeProfit: *raw.TakeProfit,
		Confidence: normalizeConfidence(raw.Confidence),
		Support:    ind.Support,
		Resistance: ind.Resistance,
	}
	if raw.Support != nil && *raw.Support > 0 {
		res.Support = *raw.Support
	}
	if raw.Resistance != nil && *raw.Resistance > 0 {
		res.Resistance = *raw.Resistance
	}
	if raw.RiskRewardRatio != nil && *raw.RiskRewardRatio > 0 {
		res.RiskRewardRatio = *raw.RiskRewardRatio
	} else {
		res.RiskRewardRatio = riskReward(price, res.StopLoss, res.TakeProfit)
	}
	return res, nil
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func normalizeConfidence(s string) models.Confidence {
	switch models.Confidence(strings.ToLower(strings.TrimSpace(s))) {
	case models.ConfidenceLow:
		return models.ConfidenceLow
	case models.ConfidenceHigh:
		return models.ConfidenceHigh
	default:
		return models.ConfidenceMedium
	}
}

func riskReward(price, stopLoss, takeProfit float64) float64 {
	risk := price - stopLoss
	if risk <= 0 {
		return 0
	}
	return (takeProfit - price) / risk
}
