package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/wonny/gammalert/pkg/apierr"
)

// PriceBar is one daily OHLC record
type PriceBar struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// History is an ordered daily price series, ascending by date,
// deduplicated and trimmed to the requested day count.
type History struct {
	Symbol string
	Bars   []PriceBar
}

// historyEnvelope is the object-wrapped response variant
// (older endpoint versions wrap the list under "historical")
type historyEnvelope struct {
	Historical []PriceBar `json:"historical"`
}

// FetchDailyHistory fetches the last `days` daily bars for a symbol.
// The query range is sized generously (at least max(2*days, 45) calendar
// days back) to tolerate weekends and holidays, then trimmed.
func (c *Client) FetchDailyHistory(ctx context.Context, symbol string, days int) (*History, error) {
	if days <= 0 {
		days = 30
	}

	lookback := 2 * days
	if lookback < 45 {
		lookback = 45
	}

	now := time.Now()
	from := now.AddDate(0, 0, -lookback).Format("2006-01-02")
	to := now.Format("2006-01-02")

	params := url.Values{}
	params.Set("symbol", Ticker(symbol))
	params.Set("from", from)
	params.Set("to", to)
	params.Set("apikey", c.apiKey)

	fullURL := fmt.Sprintf("%s/stable/historical-price-eod/full?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, &apierr.UpstreamError{Provider: providerName, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apierr.UpstreamError{Provider: providerName, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apierr.UpstreamHTTPError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	bars, err := parseHistory(body)
	if err != nil {
		return nil, err
	}

	history := &History{
		Symbol: symbol,
		Bars:   normalizeBars(bars, days),
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":       symbol,
		"bars":         len(history.Bars),
		"latest_close": history.LatestClose(),
	}).Info("Fetched daily price history")

	return history, nil
}

// parseHistory accepts either a bare list or {"historical":[...]}
func parseHistory(body []byte) ([]PriceBar, error) {
	var bars []PriceBar
	if err := json.Unmarshal(body, &bars); err == nil {
		if len(bars) == 0 {
			return nil, &apierr.MalformedResponseError{
				Provider: providerName,
				Reason:   "no historical data returned",
			}
		}
		return bars, nil
	}

	var envelope historyEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &apierr.MalformedResponseError{
			Provider: providerName,
			Reason:   "expected list or {historical:[...]} object",
		}
	}

	if len(envelope.Historical) == 0 {
		return nil, &apierr.MalformedResponseError{
			Provider: providerName,
			Reason:   "no historical data returned",
		}
	}

	return envelope.Historical, nil
}

// normalizeBars sorts ascending by date, drops duplicate dates, and trims
// to the most recent `days` entries
func normalizeBars(bars []PriceBar, days int) []PriceBar {
	byDate := make(map[string]PriceBar, len(bars))
	for _, bar := range bars {
		byDate[bar.Date] = bar
	}

	out := make([]PriceBar, 0, len(byDate))
	for _, bar := range byDate {
		out = append(out, bar)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})

	if len(out) > days {
		out = out[len(out)-days:]
	}

	return out
}

// CSV renders the series as Date,Open,High,Low,Close lines,
// prices formatted to two decimal places
func (h *History) CSV() string {
	var b strings.Builder
	b.WriteString("Date,Open,High,Low,Close")

	for _, bar := range h.Bars {
		b.WriteString(fmt.Sprintf("\n%s,%.2f,%.2f,%.2f,%.2f",
			bar.Date, bar.Open, bar.High, bar.Low, bar.Close))
	}

	return b.String()
}

// LatestClose returns the close of the most recent bar
func (h *History) LatestClose() float64 {
	if len(h.Bars) == 0 {
		return 0
	}
	return h.Bars[len(h.Bars)-1].Close
}
