package apperr

import (
	"net/http" // Status text
	"time"     // Envelope timestamp

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// ErrorResponse is the envelope written for every failed request
type ErrorResponse struct {
	Success    bool   `json:"success"`           // Always false
	Message    string `json:"message"`           // Client-safe message
	Error      string `json:"error"`             // Status text, e.g. "Not Found"
	StatusCode int    `json:"statusCode"`        // HTTP status code
	Timestamp  string `json:"timestamp"`         // RFC3339 time of the failure
	Path       string `json:"path"`              // Request path
	Details    any    `json:"details,omitempty"` // Field errors for validation failures
}

// Build translates err into its status code and envelope. Unclassified and internal
// errors are redacted to a generic message.
func Build(err error, path string) (int, ErrorResponse) {
	appErr, ok := As(err)
	if !ok || appErr.Kind == KindInternal {
		appErr = Internal(err)
	}
	status := appErr.Kind.Status()
	resp := ErrorResponse{
		Success:    false,
		Message:    appErr.Message,
		Error:      http.StatusText(status),
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       path,
		Details:    appErr.Details,
	}
	if appErr.Kind == KindInternal {
		resp.Details = nil // Never leak internals
	}
	return status, resp
}

// Respond writes err as the error envelope and logs it
func Respond(c *gin.Context, err error) {
	status, resp := Build(err, c.Request.URL.Path)
	entry := logrus.WithFields(logrus.Fields{
		"method":     c.Request.Method,         // HTTP method
		"path":       resp.Path,                // Request path
		"status":     status,                   // Response status
		"request_id": c.GetString("requestID"), // Correlation id
	})
	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error("Request failed") // Full detail stays server-side
	} else {
		entry.WithField("reason", resp.Message).Warn("Request rejected")
	}
	c.JSON(status, resp)
}

// Abort writes err as the error envelope and stops the handler chain
func Abort(c *gin.Context, err error) {
	Respond(c, err)
	c.Abort()
}
