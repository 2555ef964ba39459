// Command lambda-http serves the REST API behind an API Gateway HTTP API.
//
//	GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/pkg/errors"

	"cv-analyzer/internal/bootstrap"
	"cv-analyzer/internal/shared/config"
	"cv-analyzer/internal/shared/server/respond"
	"cv-analyzer/internal/shared/telemetry"
)

// coldStart builds the router once per execution environment.
type coldStart struct {
	once    sync.Once
	load    func() config.Config
	adapter *ginadapter.GinLambdaV2
	err     error
}

func (s *coldStart) init() {
	began := time.Now()
	cfg := s.load()
	// The environment is frozen between invocations, so in-process workers
	// would stall; analyses have to go through SQS.
	if strings.TrimSpace(cfg.SQSQueueURL) == "" {
		s.err = errors.New("SQS_QUEUE_URL is required in lambda")
		return
	}
	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		s.err = errors.Wrap(err, "bootstrap")
		return
	}
	s.adapter = ginadapter.NewV2(app.Router)
	telemetry.Info("lambda.cold_start", map[string]any{"init_ms": time.Since(began).Milliseconds()})
}

func (s *coldStart) handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	s.once.Do(s.init)
	if s.err != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{
			"error":      s.err.Error(),
			"request_id": req.RequestContext.RequestID,
		})
		return unavailable(), nil
	}
	return s.adapter.ProxyWithContext(ctx, req)
}

func unavailable() events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(respond.ErrorResponse{Error: true, Code: "INTERNAL_ERROR", Message: "service unavailable"})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

func main() {
	s := &coldStart{load: config.Load}
	lambda.Start(s.handle)
}
