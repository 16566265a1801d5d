// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints. Every JSON response is wrapped in the same envelope:
//
//	{ "success": true|false, "message": "...", ... }
//
// mirroring what the frontend expects. Failure envelopes may carry a
// request_id for log correlation; internal error details are logged, never
// returned to the client.
//
// Example failure:
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "success": false,
//	  "message": "Please provide a valid email address.",
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bpatel/go-portfolio-backend/internal/http/middleware"
)

// Envelope is the uniform JSON wrapper for simple success and all failure
// responses.
type Envelope struct {
	// Success indicates whether the request was accepted.
	Success bool `json:"success"`
	// Message is human-readable and safe to show to users.
	Message string `json:"message"`
	// RequestID correlates server logs and client errors.
	RequestID string `json:"request_id,omitempty"`
}

// fail aborts the request with a failure envelope and logs server-side
// errors (>= 500) with the request-scoped logger.
func fail(c *gin.Context, status int, msg string) {
	resp := Envelope{
		Success:   false,
		Message:   msg,
		RequestID: c.Writer.Header().Get("X-Request-ID"),
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail(), used by router fallbacks (404
// handler) so they emit the same envelope without depending on unexported
// helpers.
func Fail(c *gin.Context, status int, msg string) { fail(c, status, msg) }

// okMessage writes a 200 success envelope with the given message.
func okMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: msg})
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
