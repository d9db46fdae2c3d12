package marketdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	"StockScout/internal/domain/models"
	domsvc "StockScout/internal/domain/service"
	"StockScout/pkg/config"
	xhttp "StockScout/pkg/http"
	"StockScout/pkg/util"
)

// Client fetches OHLCV history from the market data service and normalizes
// it: ascending date order, unique dates, non-positive OHLC bars rejected.
type Client struct {
	http    *xhttp.Client
	baseURL string
}

// NewClient builds a market data client from config.
func NewClient(cfg *config.Config) *Client {
	timeout := cfg.MarketData.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL: cfg.MarketData.BaseURL,
	}
}

type historyResponse struct {
	Code string `json:"code"`
	Bars []struct {
		Date   string  `json:"date"`
		Open   float64 `json:"open"`
		High   float64 `json:"high"`
		Low    float64 `json:"low"`
		Close  float64 `json:"close"`
		Volume float64 `json:"volume"`
	} `json:"bars"`
}

// GetHistory fetches and normalizes daily bars for one stock code.
func (c *Client) GetHistory(ctx context.Context, code string) ([]models.Bar, error) {
	var hr historyResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/history",
		QueryParams: map[string][]string{"code": {code}},
	}, &hr)
	if err != nil {
		return nil, fmt.Errorf("fetch history %s: %w", code, err)
	}

	bars := make([]models.Bar, 0, len(hr.Bars))
	for _, b := range hr.Bars {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			continue
		}
		date, ok := parseBarDate(b.Date)
		if !ok {
			continue
		}
		bars = append(bars, models.Bar{
			Date:   date,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	// drop duplicate dates, keeping the first occurrence after the sort
	out := bars[:0]
	var last time.Time
	for _, b := range bars {
		if !last.IsZero() && b.Date.Equal(last) {
			continue
		}
		out = append(out, b)
		last = b.Date
	}
	return out, nil
}

func parseBarDate(s string) (time.Time, bool) {
	if t, ok := util.ParseTime(s); ok {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

var _ domsvc.HistoryProvider = (*Client)(nil)
