package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"StockScout/internal/domain/models"
	domsvc "StockScout/internal/domain/service"
	"StockScout/internal/service/ratelimit"
	"StockScout/pkg/config"
	xhttp "StockScout/pkg/http"
)

// Client talks to an OpenAI-compatible chat-completions endpoint and turns
// its reply into a validated ClassificationResult. Per-call timeout is owned
// here; callers see classified *Error values on failure.
type Client struct {
	http       *xhttp.Client
	limiter    *ratelimit.Limiter
	baseURL    string
	apiKey     string
	model      string
	temp       float64
	maxTokens  int
	recentBars int
	maxRPS     float64
	burst      float64
}

// NewClient builds an oracle client from config.
func NewClient(cfg *config.Config) *Client {
	timeout := cfg.Oracle.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	recent := cfg.Oracle.RecentBars
	if recent <= 0 {
		recent = 30
	}
	return &Client{
		http:       xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter:    ratelimit.New(),
		baseURL:    strings.TrimRight(cfg.Oracle.BaseURL, "/"),
		apiKey:     cfg.Oracle.APIKey,
		model:      cfg.Oracle.Model,
		temp:       cfg.Oracle.Temperature,
		maxTokens:  cfg.Oracle.MaxTokens,
		recentBars: recent,
		maxRPS:     cfg.Oracle.MaxRPS,
		burst:      cfg.Oracle.Burst,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify sends one candidate to the oracle and parses the verdict.
func (c *Client) Classify(ctx context.Context, candidate *models.CandidateStock, ind *models.IndicatorSnapshot, filterText string) (*models.ClassificationResult, error) {
	if err := c.waitForSlot(ctx); err != nil {
		return nil, &Error{Class: FailureTransport, Err: err}
	}

	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: c.buildUserPrompt(candidate, ind, filterText)},
		},
		Temperature: c.temp,
		MaxTokens:   c.maxTokens,
		Stream:      false,
	}

	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/chat/completions",
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer " + c.apiKey,
		},
		Body: req,
	})
	if err != nil {
		return nil, &Error{Class: FailureTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Class: FailureTransport, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError(resp.StatusCode, body)
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, &Error{Class: FailureMalformed, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return nil, &Error{Class: FailureMalformed, Err: fmt.Errorf("empty choices")}
	}

	res, oerr := parseResult(cr.Choices[0].Message.Content, candidate.Price, ind)
	if oerr != nil {
		return nil, oerr
	}
	return res, nil
}

// waitForSlot blocks until the token bucket admits a call or ctx ends.
func (c *Client) waitForSlot(ctx context.Context) error {
	if c.maxRPS <= 0 {
		return nil
	}
	burst := c.burst
	if burst < 1 {
		burst = 1
	}
	for !c.limiter.Allow("oracle", burst, c.maxRPS) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return nil
}

const systemPrompt = "You are a stock screening assistant. Judge whether the " +
	"given stock currently matches the user's screening criteria based on its " +
	"technical indicators and recent price action. Reply with strict JSON only, " +
	"no prose, with fields: signal (buy/hold/sell), reason, stop_loss, " +
	"take_profit, confidence (low/medium/high), support, resistance, " +
	"risk_reward_ratio."

func (c *Client) buildUserPrompt(candidate *models.CandidateStock, ind *models.IndicatorSnapshot, filterText string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Criteria: %s\n", filterText)
	fmt.Fprintf(&sb, "Stock: %s %s (%s), industry: %s\n", candidate.Code, candidate.Name, candidate.Exchange, candidate.Industry)
	fmt.Fprintf(&sb, "Price: %.4f, change: %.2f%%, volume: %.0f\n", candidate.Price, candidate.ChangePercent, candidate.Volume)

	indJSON, _ := json.Marshal(ind)
	fmt.Fprintf(&sb, "Indicators: %s\n", indJSON)

	// Bounded recent window, most recent bar first.
	n := len(candidate.History)
	limit := c.recentBars
	if n < limit {
		limit = n
	}
	sb.WriteString("Recent bars (newest first): date,open,high,low,close,volume\n")
	for i := 0; i < limit; i++ {
		b := candidate.History[n-1-i]
		fmt.Fprintf(&sb, "%s,%.4f,%.4f,%.4f,%.4f,%.0f\n",
			b.Date.Format("2006-01-02"), b.Open, b.High, b.Low, b.Close, b.Volume)
	}
	return sb.String()
}

var _ domsvc.OracleClient = (*Client)(nil)
