// Package workerproc decodes queued analysis jobs and hands them to the
// analysis pipeline. It is shared by the SQS poller and the Lambda worker.
package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"cv-analyzer/internal/analyses"
	"cv-analyzer/internal/queue"
)

// Processor runs one analysis.
type Processor interface {
	ProcessAnalysis(ctx context.Context, analysisID string) error
}

// Fingerprint identifies a raw queue body in logs without logging its content.
type Fingerprint struct {
	Size   int
	SHA256 string
}

func FingerprintOf(body string) Fingerprint {
	if body == "" {
		return Fingerprint{}
	}
	sum := sha256.Sum256([]byte(body))
	return Fingerprint{Size: len(body), SHA256: hex.EncodeToString(sum[:])}
}

// Job is a decoded queue message.
type Job struct {
	queue.Message
	Fingerprint Fingerprint
}

type Reason string

const (
	ReasonEmpty        Reason = "empty_body"
	ReasonMalformed    Reason = "malformed_body"
	ReasonNoAnalysisID Reason = "missing_analysis_id"
)

// BadMessageError is returned for bodies that can never be processed.
type BadMessageError struct {
	Reason      Reason
	Fingerprint Fingerprint
	RequestID   string
	Err         error
}

func (e *BadMessageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bad message (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("bad message (%s)", e.Reason)
}

func (e *BadMessageError) Unwrap() error { return e.Err }

// Decode parses a queue body into a Job.
func Decode(body string) (Job, error) {
	fp := FingerprintOf(body)
	if strings.TrimSpace(body) == "" {
		return Job{}, &BadMessageError{Reason: ReasonEmpty, Fingerprint: fp}
	}
	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return Job{}, &BadMessageError{Reason: ReasonMalformed, Fingerprint: fp, Err: err}
	}
	if strings.TrimSpace(msg.AnalysisID) == "" {
		return Job{}, &BadMessageError{Reason: ReasonNoAnalysisID, Fingerprint: fp, RequestID: msg.RequestID}
	}
	return Job{Message: msg, Fingerprint: fp}, nil
}

// Run processes job with its request id attached to ctx for log correlation.
func Run(ctx context.Context, p Processor, job Job) error {
	if p == nil {
		return errors.New("analysis processor not configured")
	}
	if err := p.ProcessAnalysis(analyses.WithRequestID(ctx, job.RequestID), job.AnalysisID); err != nil {
		return fmt.Errorf("process analysis %s: %w", job.AnalysisID, err)
	}
	return nil
}

// Handle decodes body and runs the job.
func Handle(ctx context.Context, p Processor, body string) error {
	job, err := Decode(body)
	if err != nil {
		return err
	}
	return Run(ctx, p, job)
}

// Unrecoverable reports whether redelivering the message can never succeed,
// so the caller should drop it instead of retrying.
func Unrecoverable(err error) bool {
	var bad *BadMessageError
	return errors.As(err, &bad) || errors.Is(err, analyses.ErrNotFound)
}
