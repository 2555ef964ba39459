package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"cv-analyzer/internal/bootstrap"
	"cv-analyzer/internal/queue"
	"cv-analyzer/internal/shared/config"
	"cv-analyzer/internal/shared/metrics"
	"cv-analyzer/internal/shared/telemetry"
	"cv-analyzer/internal/workerproc"
)

func main() {
	cfg := config.Load()
	if strings.TrimSpace(cfg.SQSQueueURL) == "" {
		log.Fatal("SQS_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := queue.LoadAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		log.Fatalf("aws config: %v", err)
	}
	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	c := &consumer{
		sqs:        sqs.NewFromConfig(awsCfg),
		queueURL:   strings.TrimSpace(cfg.SQSQueueURL),
		processor:  app.AnalysesService,
		visibility: cfg.SQSVisibilityTimeout,
		slots:      make(chan struct{}, max(1, cfg.WorkerConcurrency)),
	}
	c.run(ctx)
	c.drain(cfg.ShutdownTimeout)

	if err := app.Shutdown(context.Background()); err != nil {
		telemetry.Warn("worker.close_failed", map[string]any{"error": err})
	}
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// consumer long-polls the analysis queue and runs each job on a bounded
// number of goroutines. A message is deleted once it succeeded or can never
// succeed; anything else is left for SQS to redeliver.
type consumer struct {
	sqs        sqsAPI
	queueURL   string
	processor  workerproc.Processor
	visibility time.Duration
	slots      chan struct{}
	inFlight   sync.WaitGroup
	// sleep pauses between failed receives; nil means sleepCtx.
	sleep func(ctx context.Context, d time.Duration) bool
}

const (
	receiveBackoffMin = time.Second
	receiveBackoffMax = 30 * time.Second
)

// receiveDelay doubles from receiveBackoffMin per consecutive failure, up
// to receiveBackoffMax.
func receiveDelay(failures int) time.Duration {
	if failures < 1 {
		return 0
	}
	d := receiveBackoffMin << min(failures-1, 6)
	return min(d, receiveBackoffMax)
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *consumer) run(ctx context.Context) {
	telemetry.Info("worker.started", map[string]any{
		"queue_url":          c.queueURL,
		"concurrency":        cap(c.slots),
		"visibility_seconds": int(c.visibility.Seconds()),
	})

	// Jobs run on their own context so a signal does not abort a run
	// before it records its outcome.
	jobCtx := context.WithoutCancel(ctx)
	sleep := c.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	failures := 0
	for ctx.Err() == nil {
		out, err := c.sqs.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:                    aws.String(c.queueURL),
			MaxNumberOfMessages:         10,
			WaitTimeSeconds:             20,
			VisibilityTimeout:           int32(c.visibility.Seconds()),
			MessageSystemAttributeNames: []sqstypes.MessageSystemAttributeName{sqstypes.MessageSystemAttributeNameApproximateReceiveCount},
		})
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			failures++
			delay := receiveDelay(failures)
			telemetry.Warn("worker.receive_failed", map[string]any{
				"error":    err.Error(),
				"failures": failures,
				"retry_ms": delay.Milliseconds(),
			})
			if !sleep(ctx, delay) {
				return
			}
			continue
		}
		failures = 0

		for _, msg := range out.Messages {
			select {
			case <-ctx.Done():
				return
			case c.slots <- struct{}{}:
			}
			metrics.IncAnalysisJobsReceived()
			c.inFlight.Add(1)
			go func() {
				defer c.inFlight.Done()
				defer func() { <-c.slots }()
				c.handle(jobCtx, msg)
			}()
		}
	}
}

// drain waits up to timeout for running jobs.
func (c *consumer) drain(timeout time.Duration) {
	telemetry.Info("worker.draining", map[string]any{"timeout_ms": timeout.Milliseconds()})
	done := make(chan struct{})
	go func() {
		c.inFlight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		telemetry.Warn("worker.drain_timeout", map[string]any{"in_flight": len(c.slots)})
	}
}

func (c *consumer) handle(ctx context.Context, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)

	job, err := workerproc.Decode(body)
	if err != nil {
		fields := logFields(msg, "", "")
		var bad *workerproc.BadMessageError
		if errors.As(err, &bad) {
			fields = logFields(msg, "", bad.RequestID)
			fields["reason"] = string(bad.Reason)
			fields["body_len"] = bad.Fingerprint.Size
			if bad.Fingerprint.SHA256 != "" {
				fields["body_sha256"] = bad.Fingerprint.SHA256
			}
		}
		fields["error"] = err.Error()
		telemetry.Error("worker.message_invalid", fields)
		if c.ack(ctx, msg, fields) {
			metrics.IncAnalysisJobsDeletedUnrecoverable()
		}
		return
	}

	fields := logFields(msg, job.AnalysisID, job.RequestID)
	telemetry.Info("worker.job_started", fields)

	err = workerproc.Run(ctx, c.processor, job)
	switch {
	case err == nil:
		if c.ack(ctx, msg, fields) {
			metrics.IncAnalysisJobsCompleted()
			telemetry.Info("worker.job_done", fields)
		}
	case workerproc.Unrecoverable(err):
		fields["error"] = err.Error()
		telemetry.Error("worker.job_dropped", fields)
		if c.ack(ctx, msg, fields) {
			metrics.IncAnalysisJobsDeletedUnrecoverable()
		}
	default:
		fields["error"] = err.Error()
		telemetry.Error("worker.job_failed", fields)
		metrics.IncAnalysisJobsFailed()
	}
}

// ack deletes msg from the queue and reports whether that worked.
func (c *consumer) ack(ctx context.Context, msg sqstypes.Message, fields map[string]any) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	var err error
	if receipt == "" {
		err = errors.New("missing receipt handle")
	} else {
		_, err = c.sqs.DeleteMessage(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      aws.String(c.queueURL),
			ReceiptHandle: aws.String(receipt),
		})
	}
	if err != nil {
		failed := map[string]any{"ack_error": err.Error()}
		for k, v := range fields {
			failed[k] = v
		}
		telemetry.Error("worker.ack_failed", failed)
		return false
	}
	return true
}

func logFields(msg sqstypes.Message, analysisID, requestID string) map[string]any {
	fields := map[string]any{
		"analysis_id":    analysisID,
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if requestID = strings.TrimSpace(requestID); requestID != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	n, err := strconv.Atoi(msg.Attributes[string(sqstypes.MessageSystemAttributeNameApproximateReceiveCount)])
	if err != nil {
		return 0
	}
	return n
}
