package spotgamma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wonny/gammalert/pkg/apierr"
	"github.com/wonny/gammalert/pkg/httputil"
	"github.com/wonny/gammalert/pkg/logger"
)

const providerName = "spotgamma"

// Client handles communication with the SpotGamma levels API
// ⭐ SSOT: SpotGamma API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	jwtSecret  string
	baseURL    string
}

// ZeroGammaLevel is the derived strike level for a symbol on a trade date.
// Fetched fresh each run, never persisted.
type ZeroGammaLevel struct {
	Sym         string
	TradeDate   string
	ZeroGStrike float64
	SourceURL   string
}

// NewClient creates a new SpotGamma API client
func NewClient(httpClient *httputil.Client, jwtSecret, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		jwtSecret:  jwtSecret,
		baseURL:    baseURL,
	}
}

// FetchLevels fetches the zero gamma level for a symbol.
// A fresh signed token is built per call; single attempt, no retry.
func (c *Client) FetchLevels(ctx context.Context, sym string) (*ZeroGammaLevel, error) {
	token, err := SignedToken(c.jwtSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("sign request token: %w", err)
	}

	fullURL := fmt.Sprintf("%s/v2/levelsBySym?sym=%s", c.baseURL, url.QueryEscape(sym))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-json-web-token", token)

	resp, err := c.httpClient.Do(req)
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

	level, err := parseLevels(body, sym, fullURL)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"sym":           level.Sym,
		"trade_date":    level.TradeDate,
		"zero_g_strike": level.ZeroGStrike,
	}).Info("Fetched zero gamma level")

	return level, nil
}

// parseLevels extracts the zero gamma level from the API response.
// The endpoint returns a JSON array; only the first row is consumed.
func parseLevels(body []byte, sym, sourceURL string) (*ZeroGammaLevel, error) {
	var rows []map[string]interface{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &apierr.MalformedResponseError{
			Provider: providerName,
			Reason:   "expected JSON array",
		}
	}

	if len(rows) == 0 {
		return nil, &apierr.MalformedResponseError{
			Provider: providerName,
			Reason:   "expected non-empty array",
		}
	}

	row := rows[0]
	raw, ok := row["zero_g_strike"]
	if !ok {
		return nil, &apierr.MalformedResponseError{
			Provider: providerName,
			Reason:   "response missing 'zero_g_strike'",
		}
	}

	strike, ok := toFloat64(raw)
	if !ok {
		return nil, &apierr.MalformedResponseError{
			Provider: providerName,
			Reason:   fmt.Sprintf("'zero_g_strike' not numeric: %v", raw),
		}
	}

	level := &ZeroGammaLevel{
		Sym:         sym,
		TradeDate:   toString(row["trade_date"]),
		ZeroGStrike: strike,
		SourceURL:   sourceURL,
	}

	if s := toString(row["sym"]); s != "" {
		level.Sym = s
	}

	return level, nil
}

// toFloat64 converts JSON number or numeric string values to float64
func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}
