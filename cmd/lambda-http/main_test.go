package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"minutes-backend/internal/shared/server/respond"
)

func TestGatewayReportsBootstrapFailureOnce(t *testing.T) {
	builds := 0
	g := &gateway{build: func() (*ginadapter.GinLambdaV2, error) {
		builds++
		return nil, errors.New("ARCHIVE_STORE=s3 requires S3_BUCKET")
	}}

	for i := 0; i < 2; i++ {
		resp, err := g.Handle(context.Background(), events.APIGatewayV2HTTPRequest{})
		if err != nil {
			t.Fatalf("handler should not return an invocation error: %v", err)
		}
		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", resp.StatusCode)
		}
		var payload respond.ErrorResponse
		if err := json.Unmarshal([]byte(resp.Body), &payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if payload.Error.Code != respond.CodeInternal {
			t.Fatalf("unexpected code %q", payload.Error.Code)
		}
	}
	if builds != 1 {
		t.Fatalf("expected one bootstrap attempt, got %d", builds)
	}
}

func TestGatewayProxiesToRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	g := &gateway{build: func() (*ginadapter.GinLambdaV2, error) {
		return ginadapter.NewV2(router), nil
	}}

	resp, err := g.Handle(context.Background(), events.APIGatewayV2HTTPRequest{
		RawPath: "/api/v1/health",
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: http.MethodGet, Path: "/api/v1/health"},
		},
	})
	if err != nil {
		t.Fatalf("proxy: %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Body != `{"ok":true}` {
		t.Fatalf("unexpected response %d %q", resp.StatusCode, resp.Body)
	}
}
