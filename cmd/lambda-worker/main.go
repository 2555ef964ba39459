// Command lambda-worker processes analysis jobs delivered by an SQS event
// source mapping with ReportBatchItemFailures enabled.
//
//	GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker
package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pkg/errors"

	"cv-analyzer/internal/bootstrap"
	"cv-analyzer/internal/shared/config"
	"cv-analyzer/internal/shared/metrics"
	"cv-analyzer/internal/shared/telemetry"
	"cv-analyzer/internal/workerproc"
)

// lazyProcessor builds the analyses service on the first batch.
type lazyProcessor struct {
	once  sync.Once
	build func() (workerproc.Processor, error)
	proc  workerproc.Processor
	err   error
}

func (l *lazyProcessor) handle(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	l.once.Do(func() { l.proc, l.err = l.build() })
	if l.err != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": l.err.Error(), "records": len(event.Records)})
		// Returning the error makes Lambda retry the whole batch.
		return events.SQSEventResponse{}, l.err
	}
	return handleBatch(ctx, l.proc, event), nil
}

// handleBatch lists only records worth redelivering; malformed or orphaned
// jobs count as handled so SQS deletes them.
func handleBatch(ctx context.Context, p workerproc.Processor, event events.SQSEvent) events.SQSEventResponse {
	resp := events.SQSEventResponse{BatchItemFailures: []events.SQSBatchItemFailure{}}
	for _, record := range event.Records {
		metrics.IncAnalysisJobsReceived()
		if retry := process(ctx, p, record); retry {
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}
	return resp
}

func process(ctx context.Context, p workerproc.Processor, record events.SQSMessage) (retry bool) {
	err := workerproc.Handle(ctx, p, record.Body)
	if err == nil {
		metrics.IncAnalysisJobsCompleted()
		return false
	}

	fields := map[string]any{
		"sqs_message_id": record.MessageId,
		"receive_count":  record.Attributes["ApproximateReceiveCount"],
		"error":          err.Error(),
	}
	if workerproc.Unrecoverable(err) {
		fp := workerproc.FingerprintOf(record.Body)
		fields["body_len"], fields["body_sha256"] = fp.Size, fp.SHA256
		telemetry.Error("worker.job_dropped", fields)
		metrics.IncAnalysisJobsDeletedUnrecoverable()
		return false
	}
	telemetry.Error("worker.job_failed", fields)
	metrics.IncAnalysisJobsFailed()
	return true
}

func buildProcessor() (workerproc.Processor, error) {
	app, err := bootstrap.Build(context.Background(), config.Load())
	if err != nil {
		return nil, errors.Wrap(err, "bootstrap")
	}
	return app.AnalysesService, nil
}

func main() {
	l := &lazyProcessor{build: buildProcessor}
	lambda.Start(l.handle)
}
