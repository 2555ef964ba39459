// Package openai calls the Chat Completions API of OpenAI or of an Azure
// OpenAI deployment and returns the model's JSON answer.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"cv-analyzer/internal/llm"
	"cv-analyzer/internal/shared/telemetry"
)

const publicEndpoint = "https://api.openai.com/v1/chat/completions"

type Client struct {
	http  *resty.Client
	url   string
	model string // empty for Azure, where the deployment selects the model
	label string
}

func NewClient(apiKey, model string, timeout time.Duration) (*Client, error) {
	switch {
	case strings.TrimSpace(apiKey) == "":
		return nil, errors.New("OPENAI_API_KEY is required")
	case strings.TrimSpace(model) == "":
		return nil, errors.New("LLM_MODEL is required for OpenAI")
	}
	return &Client{
		http:  newHTTP(timeout).SetAuthToken(apiKey),
		url:   publicEndpoint,
		model: model,
		label: model,
	}, nil
}

func NewAzureClient(endpoint, apiKey, deployment, apiVersion string, timeout time.Duration) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	switch {
	case endpoint == "":
		return nil, errors.New("AZURE_OPENAI_ENDPOINT is required")
	case strings.TrimSpace(apiKey) == "":
		return nil, errors.New("AZURE_OPENAI_KEY is required")
	case strings.TrimSpace(deployment) == "":
		return nil, errors.New("AZURE_OPENAI_DEPLOYMENT_NAME is required")
	}
	return &Client{
		http: newHTTP(timeout).SetHeader("api-key", apiKey),
		url: endpoint + "/openai/deployments/" + url.PathEscape(deployment) +
			"/chat/completions?api-version=" + url.QueryEscape(apiVersion),
		label: "azure/" + deployment,
	}, nil
}

func newHTTP(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return resty.New().SetTimeout(timeout).SetHeader("Content-Type", "application/json")
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model,omitempty"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float32        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// AnalyzeResume sends the system and user prompts in JSON mode and returns
// the JSON object found in the first choice. Timeouts, 429s and 5xx
// responses are marked transient for the caller's retry policy.
func (c *Client) AnalyzeResume(ctx context.Context, input llm.AnalyzeInput) (json.RawMessage, error) {
	temperature := input.Temperature
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "system", Content: input.System},
				{Role: "user", Content: input.User},
			},
			Temperature:    &temperature,
			MaxTokens:      input.MaxTokens,
			ResponseFormat: &responseFormat{Type: "json_object"},
		}).
		Post(c.url)
	if err != nil {
		if timedOut(err) {
			return nil, llm.Transient(fmt.Errorf("%w: %v", llm.ErrTimeout, err))
		}
		return nil, llm.Transient(fmt.Errorf("chat completion request: %w", err))
	}

	body := resp.Body()
	if resp.StatusCode() >= 300 {
		statusErr := &llm.StatusError{
			Provider:   "openai",
			StatusCode: resp.StatusCode(),
			Message:    gjson.GetBytes(body, "error.message").String(),
		}
		if statusErr.Retryable() {
			return nil, llm.Transient(statusErr)
		}
		return nil, statusErr
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("chat completion: response is not JSON")
	}
	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() {
		return nil, fmt.Errorf("chat completion: %s", msg.String())
	}

	content := strings.TrimSpace(gjson.GetBytes(body, "choices.0.message.content").String())
	if content == "" {
		return nil, errors.New("chat completion: empty first choice")
	}
	telemetry.Info("llm.response", map[string]any{
		"model":             c.label,
		"prompt_tokens":     gjson.GetBytes(body, "usage.prompt_tokens").Int(),
		"completion_tokens": gjson.GetBytes(body, "usage.completion_tokens").Int(),
		"total_tokens":      gjson.GetBytes(body, "usage.total_tokens").Int(),
	})
	return llm.ExtractJSON(content)
}

func timedOut(err error) bool {
	var netErr net.Error
	return errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
}

var _ llm.Client = (*Client)(nil)
