package main

// Build for the provided.al2023 runtime:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"minutes-backend/internal/bootstrap"
	"minutes-backend/internal/shared/config"
	"minutes-backend/internal/shared/server/respond"
	"minutes-backend/internal/shared/telemetry"
)

// gateway builds the router on the first invocation and keeps it for the
// lifetime of the execution environment.
type gateway struct {
	build func() (*ginadapter.GinLambdaV2, error)

	once    sync.Once
	adapter *ginadapter.GinLambdaV2
	err     error
}

func newGateway() *gateway {
	return &gateway{build: func() (*ginadapter.GinLambdaV2, error) {
		cfg := config.Load()
		telemetry.SetLevel(cfg.LogLevel)
		app, err := bootstrap.Build(cfg)
		if err != nil {
			return nil, err
		}
		return ginadapter.NewV2(app.Router), nil
	}}
}

func (g *gateway) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	g.once.Do(func() {
		start := time.Now()
		g.adapter, g.err = g.build()
		telemetry.Info("lambda.cold_start", map[string]any{
			"duration_ms": time.Since(start).Milliseconds(),
			"ok":          g.err == nil,
		})
	})
	if g.err != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{
			"error":      g.err,
			"request_id": req.RequestContext.RequestID,
		})
		return errorResponse(http.StatusInternalServerError, "service unavailable"), nil
	}
	return g.adapter.ProxyWithContext(ctx, req)
}

func errorResponse(status int, message string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(respond.ErrorResponse{Error: respond.ErrorBody{Code: respond.CodeInternal, Message: message}})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	lambda.Start(newGateway().Handle)
}
