package respond

import (
	"github.com/gin-gonic/gin"

	"minutes-backend/internal/shared/telemetry"
)

// Error codes returned in ErrorBody.Code.
const (
	CodeValidation       = "validation_error"
	CodePayloadTooLarge  = "payload_too_large"
	CodeExtractionFailed = "extraction_failed"
	CodeFormatMismatch   = "format_mismatch"
	CodeNotFound         = "not_found"
	CodeRateLimited      = "rate_limited"
	CodeTimeout          = "timeout"
	CodeInternal         = "internal"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error aborts the request with an ErrorResponse body. Server faults log at
// error level, client faults at warn.
func Error(c *gin.Context, status int, code, message string, details any) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"path":       c.FullPath(),
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if fields["path"] == "" {
		fields["path"] = c.Request.URL.Path
	}
	if runID := c.GetString("runId"); runID != "" {
		fields["run_id"] = runID
	}
	log := telemetry.Warn
	if status >= 500 {
		log = telemetry.Error
		fields["message"] = message
	}
	log("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message, Details: details}})
}
