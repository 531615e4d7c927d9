package fmp

import (
	"github.com/wonny/gammalert/pkg/httputil"
	"github.com/wonny/gammalert/pkg/logger"
)

const providerName = "fmp"

// Client handles communication with the Financial Modeling Prep API
// ⭐ SSOT: FMP API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string
}

// NewClient creates a new FMP API client
func NewClient(httpClient *httputil.Client, apiKey, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

// indexTickers maps common index symbols to FMP tickers
var indexTickers = map[string]string{
	"SPX": "^GSPC",
	"NDX": "^NDX",
	"RUT": "^RUT",
	"DJI": "^DJI",
}

// Ticker returns the FMP ticker for a symbol (passthrough when unmapped)
func Ticker(symbol string) string {
	if ticker, ok := indexTickers[symbol]; ok {
		return ticker
	}
	return symbol
}
