package main

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"cv-analyzer/internal/analyses"
	"cv-analyzer/internal/queue"
	"cv-analyzer/internal/workerproc"
)

type fakeProcessor struct {
	errs map[string]error
}

func (f fakeProcessor) ProcessAnalysis(ctx context.Context, analysisID string) error {
	return f.errs[analysisID]
}

func body(t *testing.T, id string) string {
	t.Helper()
	b, err := queue.EncodeMessage(queue.Message{AnalysisID: id})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(b)
}

func TestHandleBatchReportsOnlyRetryableFailures(t *testing.T) {
	p := fakeProcessor{errs: map[string]error{
		"flaky": errors.New("connection reset"),
		"gone":  analyses.ErrNotFound,
	}}
	event := events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "m-ok", Body: body(t, "ok")},
		{MessageId: "m-flaky", Body: body(t, "flaky")},
		{MessageId: "m-gone", Body: body(t, "gone")},
		{MessageId: "m-bad", Body: "{not json"},
	}}

	resp := handleBatch(context.Background(), p, event)

	if len(resp.BatchItemFailures) != 1 || resp.BatchItemFailures[0].ItemIdentifier != "m-flaky" {
		t.Fatalf("expected only m-flaky to be retried, got %+v", resp.BatchItemFailures)
	}
}

func TestHandleFailsWholeBatchWhenBootstrapFails(t *testing.T) {
	builds := 0
	l := &lazyProcessor{build: func() (workerproc.Processor, error) {
		builds++
		return nil, errors.New("no database")
	}}
	event := events.SQSEvent{Records: []events.SQSMessage{{MessageId: "m-1", Body: body(t, "a")}}}

	for i := 0; i < 2; i++ {
		if _, err := l.handle(context.Background(), event); err == nil {
			t.Fatalf("expected bootstrap error")
		}
	}
	if builds != 1 {
		t.Fatalf("expected one build attempt, got %d", builds)
	}
}

func TestHandleUsesBuiltProcessor(t *testing.T) {
	l := &lazyProcessor{build: func() (workerproc.Processor, error) {
		return fakeProcessor{}, nil
	}}
	event := events.SQSEvent{Records: []events.SQSMessage{{MessageId: "m-1", Body: body(t, "a")}}}

	resp, err := l.handle(context.Background(), event)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(resp.BatchItemFailures) != 0 {
		t.Fatalf("expected no failures, got %+v", resp.BatchItemFailures)
	}
}
