package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/wonny/gammalert/pkg/apierr"
	"github.com/wonny/gammalert/pkg/httputil"
	"github.com/wonny/gammalert/pkg/logger"
)

const providerName = "openrouter"

// Client handles communication with the OpenRouter chat-completions API
// ⭐ SSOT: OpenRouter API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
}

// NewClient creates a new OpenRouter API client
func NewClient(httpClient *httputil.Client, apiKey, baseURL, model string, maxTokens int, log *logger.Logger) *Client {
	if maxTokens <= 0 {
		maxTokens = 250
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		maxTokens:  maxTokens,
	}
}

// chatRequest is the chat-completions request body
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the completion response we consume
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete submits one user prompt and returns the first choice's content.
// Fixed sampling temperature, bounded output length, single attempt.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   c.maxTokens,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	fullURL := c.baseURL + "/api/v1/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &apierr.UpstreamError{Provider: providerName, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &apierr.UpstreamError{Provider: providerName, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &apierr.UpstreamHTTPError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &apierr.MalformedResponseError{
			Provider: providerName,
			Reason:   "completion response not JSON",
		}
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &apierr.EmptyResponseError{Provider: providerName}
	}

	return parsed.Choices[0].Message.Content, nil
}
