// Package docintel extracts structured résumé data with Azure Document
// Intelligence's prebuilt resume model.
package docintel

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"cv-analyzer/internal/resume"
	"cv-analyzer/internal/shared/telemetry"
)

const (
	apiVersion         = "2023-07-31"
	defaultPollWait    = 2 * time.Second
	defaultMaxPollWait = 30 * time.Second
	defaultMaxPolls    = 10
)

var (
	// ErrMissingOperationLocation means the service accepted the request
	// without telling us where to poll.
	ErrMissingOperationLocation = errors.New("document intelligence: missing Operation-Location header")
	// ErrPollTimeout means the operation did not finish within the poll budget.
	ErrPollTimeout = errors.New("document intelligence: analysis timed out")
)

// Document is what gets analyzed: a URL the service can fetch, or the bytes.
type Document struct {
	URL     string
	Content []byte
}

// Client talks to one Document Intelligence resource.
type Client struct {
	http     *resty.Client
	endpoint string
	key      string
	modelID  string

	pollWait    time.Duration
	maxPollWait time.Duration
	maxPolls    int
	now         func() time.Time
}

// New returns a client for endpoint. modelID defaults to prebuilt-resume.
func New(endpoint, key, modelID string) *Client {
	if strings.TrimSpace(modelID) == "" {
		modelID = "prebuilt-resume"
	}
	return &Client{
		http:        resty.New().SetTimeout(60 * time.Second),
		endpoint:    strings.TrimRight(endpoint, "/"),
		key:         key,
		modelID:     modelID,
		pollWait:    defaultPollWait,
		maxPollWait: defaultMaxPollWait,
		maxPolls:    defaultMaxPolls,
		now:         time.Now,
	}
}

type analyzeRequest struct {
	URLSource    string `json:"urlSource,omitempty"`
	Base64Source string `json:"base64Source,omitempty"`
}

// Analyze submits doc and waits for the structured result.
func (c *Client) Analyze(ctx context.Context, doc Document) (resume.Data, error) {
	body := analyzeRequest{URLSource: doc.URL}
	if doc.URL == "" {
		if len(doc.Content) == 0 {
			return resume.Data{}, errors.New("document intelligence: empty document")
		}
		body.Base64Source = base64.StdEncoding.EncodeToString(doc.Content)
	}

	analyzeURL := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?api-version=%s",
		c.endpoint, url.PathEscape(c.modelID), apiVersion)
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Ocp-Apim-Subscription-Key", c.key).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(analyzeURL)
	if err != nil {
		return resume.Data{}, fmt.Errorf("document intelligence submit: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusAccepted {
		return resume.Data{}, fmt.Errorf("document intelligence submit: status %d: %s",
			resp.StatusCode(), serviceMessage(resp.Body()))
	}
	operation := resp.Header().Get("Operation-Location")
	if operation == "" {
		return resume.Data{}, ErrMissingOperationLocation
	}

	result, err := c.poll(ctx, operation)
	if err != nil {
		return resume.Data{}, err
	}
	return Parse(result, c.modelID, c.now()), nil
}

// poll fetches the operation until it settles. Transport errors are retried
// within the same attempt budget.
func (c *Client) poll(ctx context.Context, operation string) ([]byte, error) {
	wait := c.pollWait
	for attempt := 1; attempt <= c.maxPolls; attempt++ {
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("Ocp-Apim-Subscription-Key", c.key).
			Get(operation)
		switch {
		case err != nil:
			telemetry.Warn("docintel.poll_error", map[string]any{"attempt": attempt, "error": err})
		case resp.StatusCode() >= 300:
			telemetry.Warn("docintel.poll_status", map[string]any{"attempt": attempt, "status": resp.StatusCode()})
		default:
			switch status := gjson.GetBytes(resp.Body(), "status").String(); status {
			case "succeeded":
				return resp.Body(), nil
			case "failed":
				return nil, fmt.Errorf("document analysis failed: %s", serviceMessage(resp.Body()))
			}
		}

		if attempt == c.maxPolls {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
		if wait > c.maxPollWait {
			wait = c.maxPollWait
		}
	}
	return nil, ErrPollTimeout
}

func serviceMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "error.message").String(); msg != "" {
		return msg
	}
	if len(body) == 0 {
		return "Unknown error"
	}
	return strings.TrimSpace(string(body))
}
