package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"

	"cv-analyzer/internal/llm"
	"cv-analyzer/internal/shared/metrics"
	"cv-analyzer/internal/shared/telemetry"
)

// retryPolicy bounds how often a model call is repeated. The wait doubles
// after each failed attempt.
type retryPolicy struct {
	attempts int
	wait     time.Duration
}

var defaultLLMRetry = retryPolicy{attempts: 2, wait: 300 * time.Millisecond}

// retryingLLM decorates a client with retryPolicy. analysisID only feeds logs.
type retryingLLM struct {
	llm.Client
	policy     retryPolicy
	analysisID string
}

func newRetryingLLM(base llm.Client, analysisID string) llm.Client {
	if base == nil {
		return nil
	}
	return retryingLLM{Client: base, policy: defaultLLMRetry, analysisID: analysisID}
}

func (r retryingLLM) AnalyzeResume(ctx context.Context, input llm.AnalyzeInput) (json.RawMessage, error) {
	wait := r.policy.wait
	for attempt := 1; ; attempt++ {
		out, err := r.Client.AnalyzeResume(ctx, input)
		if err == nil || attempt >= r.policy.attempts || !retryable(ctx, err) {
			return out, err
		}

		metrics.IncLLMRetries()
		telemetry.Warn("llm.retry", map[string]any{
			"attempt":     attempt,
			"wait_ms":     wait.Milliseconds(),
			"request_id":  RequestIDFromContext(ctx),
			"analysis_id": r.analysisID,
			"error":       sanitizeError(err),
		})
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
		wait *= 2
	}
}

// retryable is false once ctx itself is done; a provider timeout or a
// 429/5xx while ctx is still live is worth another attempt.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if llm.IsTransient(err) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if status := (*llm.StatusError)(nil); errors.As(err, &status) {
		return status.Retryable()
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
