// Package gemini implements llm.Client on the Google Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"cv-analyzer/internal/llm"
	"cv-analyzer/internal/shared/telemetry"
)

// DefaultModel is used when LLM_MODEL is empty.
const DefaultModel = "gemini-2.0-flash"

// Client wraps a genai client bound to one model.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient constructs a Gemini client.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// AnalyzeResume asks the model for a JSON response to the prompt pair.
func (c *Client) AnalyzeResume(ctx context.Context, input llm.AnalyzeInput) (json.RawMessage, error) {
	temp := input.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:       &temp,
		MaxOutputTokens:   int32(input.MaxTokens),
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(input.System, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(input.User), cfg)
	if err != nil {
		return nil, classify(err)
	}
	if resp == nil {
		return nil, fmt.Errorf("gemini: nil response")
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("gemini: no text content in response")
	}
	fields := map[string]any{"model": c.model}
	if resp.UsageMetadata != nil {
		fields["prompt_tokens"] = resp.UsageMetadata.PromptTokenCount
		fields["completion_tokens"] = resp.UsageMetadata.CandidatesTokenCount
		fields["total_tokens"] = resp.UsageMetadata.TotalTokenCount
	}
	telemetry.Info("llm.response", fields)
	return llm.ExtractJSON(text)
}

// classify maps genai failures onto the llm error vocabulary.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return llm.Transient(fmt.Errorf("%w: %v", llm.ErrTimeout, err))
	}
	// genai returns APIError by value; the pointer form is matched too.
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		apiErr = *apiErrPtr
	default:
		return fmt.Errorf("gemini: %w", err)
	}
	statusErr := &llm.StatusError{Provider: "gemini", StatusCode: apiErr.Code, Message: apiErr.Message}
	if statusErr.Retryable() {
		return llm.Transient(statusErr)
	}
	return statusErr
}

var _ llm.Client = (*Client)(nil)
