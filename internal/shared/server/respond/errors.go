package respond

import (
	"github.com/gin-gonic/gin"

	"cv-analyzer/internal/shared/telemetry"
)

// Keys under which handlers and middleware share request facts on *gin.Context.
const (
	KeyRequestID  = "requestId"
	KeyAnalysisID = "analysisId"
	KeyTransition = "statusTransition"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error logs the failure and aborts with the error envelope. 5xx responses
// log at error level, everything else at warn.
func Error(c *gin.Context, status int, code, message string, details any) {
	log := telemetry.Warn
	if status >= 500 {
		log = telemetry.Error
	}
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"route":      c.FullPath(),
		"method":     c.Request.Method,
		"request_id": c.GetString(KeyRequestID),
	}
	if id := c.GetString(KeyAnalysisID); id != "" {
		fields["analysis_id"] = id
	}
	log("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{Error: true, Code: code, Message: message, Details: details})
}
