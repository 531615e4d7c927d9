package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wonny/gammalert/pkg/apierr"
)

// AnalysisRequest carries the market context submitted for analysis
type AnalysisRequest struct {
	Symbol    string
	ZeroGamma float64
	OHLCCSV   string
}

// Narrative is the structured analysis contract: every field non-empty
// after trimming, implications filtered to non-empty items
type Narrative struct {
	Significance string   `json:"zero_gamma_significance"`
	Trend        string   `json:"trend"`
	Implications []string `json:"implications"`
}

// Analyze submits the market context and parses the structured reply.
// The prompt pins the model to a strict three-field JSON object with a
// ~120 word budget; anything off-contract fails with InvalidNarrativeError.
func (c *Client) Analyze(ctx context.Context, req AnalysisRequest) (*Narrative, error) {
	prompt := structuredPrompt(req)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	narrative, err := parseNarrative(content)
	if err != nil {
		return nil, err
	}

	c.logger.WithField("symbol", req.Symbol).Info("Received structured analysis")
	return narrative, nil
}

// AnalyzeText is the free-text fallback variant: same transport, no JSON
// contract. Kept behind the same client so callers can switch when the
// structured path misbehaves upstream.
func (c *Client) AnalyzeText(ctx context.Context, req AnalysisRequest) (string, error) {
	prompt := freeformPrompt(req)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	c.logger.WithField("symbol", req.Symbol).Info("Received free-text analysis")
	return strings.TrimSpace(content), nil
}

func structuredPrompt(req AnalysisRequest) string {
	return fmt.Sprintf(`Analyze the following market data for %s:

Zero Gamma Level: $%.2f

Recent 30-Day OHLC Data:
%s

Return ONLY a JSON object with these fields:
{
    "zero_gamma_significance": "string",
    "trend": "string",
    "implications": ["string", "string", "string"]
}

Constraints:
- Max 120 words total across all fields
- Use short, direct sentences
- No headers, no extra keys, no Markdown
- The implications array should contain 2-4 short bullets`,
		req.Symbol, req.ZeroGamma, req.OHLCCSV)
}

func freeformPrompt(req AnalysisRequest) string {
	return fmt.Sprintf(`Analyze the following market data for %s:

Zero Gamma Level: $%.2f

Recent 30-Day OHLC Data:
%s

Write a concise market read (max 120 words): what the zero gamma level
means for current positioning, the prevailing trend, and 2-4 short
implications for the days ahead.`,
		req.Symbol, req.ZeroGamma, req.OHLCCSV)
}

// parseNarrative validates the structured contract
func parseNarrative(content string) (*Narrative, error) {
	var narrative Narrative
	if err := json.Unmarshal([]byte(content), &narrative); err != nil {
		return nil, &apierr.InvalidNarrativeError{Reason: "content is not valid JSON", Err: err}
	}

	narrative.Significance = strings.TrimSpace(narrative.Significance)
	if narrative.Significance == "" {
		return nil, &apierr.InvalidNarrativeError{Reason: "missing or empty zero_gamma_significance"}
	}

	narrative.Trend = strings.TrimSpace(narrative.Trend)
	if narrative.Trend == "" {
		return nil, &apierr.InvalidNarrativeError{Reason: "missing or empty trend"}
	}

	var implications []string
	for _, item := range narrative.Implications {
		if item = strings.TrimSpace(item); item != "" {
			implications = append(implications, item)
		}
	}

	if len(implications) == 0 {
		return nil, &apierr.InvalidNarrativeError{Reason: "implications list contained no valid items"}
	}

	narrative.Implications = implications
	return &narrative, nil
}
