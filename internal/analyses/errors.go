package analyses

import (
	"context"
	"errors"
	"strings"

	"cv-analyzer/internal/llm"
	"cv-analyzer/internal/shared/storage/object"
	"cv-analyzer/internal/uploads"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotReady     = errors.New("analysis not ready")
	ErrFailed       = errors.New("analysis failed")
	ErrDispatch     = errors.New("analysis could not be scheduled")
)

const (
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeLLMTimeout = "LLM_TIMEOUT"
	ErrorCodeStorage    = "STORAGE_ERROR"
	ErrorCodeExtraction = "EXTRACTION_ERROR"
	ErrorCodeInternal   = "INTERNAL_ERROR"
)

// stageError tags a pipeline error with the failure code it is stored under.
type stageError struct {
	code string
	err  error
}

func (e *stageError) Error() string { return e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

func withCode(code string, err error) error {
	if err == nil {
		return nil
	}
	return &stageError{code: code, err: err}
}

func classifyFailure(err error) string {
	if err == nil {
		return ErrorCodeInternal
	}
	var se *stageError
	if errors.As(err, &se) {
		return se.code
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, llm.ErrTimeout):
		return ErrorCodeLLMTimeout
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, uploads.ErrInvalidFormat),
		errors.Is(err, uploads.ErrContentSpoofed),
		errors.Is(err, uploads.ErrTooLarge),
		errors.Is(err, uploads.ErrEmpty):
		return ErrorCodeValidation
	case errors.Is(err, object.ErrNotFound):
		return ErrorCodeStorage
	}
	return ErrorCodeInternal
}

const maxErrorLen = 500

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	if r := []rune(msg); len(r) > maxErrorLen {
		msg = string(r[:maxErrorLen])
	}
	return msg
}
