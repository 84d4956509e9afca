// Package middleware provides HTTP middleware for the warehouse backend.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength caps the X-Request-ID header before it is copied
// into span attributes.
const MaxRequestIDLength = 128

// TracingConfig configures the HTTP tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

func DefaultTracingConfig() TracingConfig {
	return TracingConfig{ServiceName: "wms-backend", Enabled: true}
}

// TracingWithConfig wraps otelgin so every request gets a server span
// named "METHOD route", then tags the span with the request id and the
// authenticated user. With tracing disabled it is a pass-through.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	instrument := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		instrument(c)

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if requestID := requestIDFor(c); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		if userID, ok := c.Get(JWTUserIDKey); ok {
			if id, isString := userID.(string); isString && id != "" {
				span.SetAttributes(attribute.String("user_id", id))
			}
		}
	}
}

// requestIDFor prefers the id set by the RequestID middleware and falls
// back to the inbound header, truncated to a sane length.
func requestIDFor(c *gin.Context) string {
	if v, ok := c.Get("request_id"); ok {
		if id, isString := v.(string); isString && id != "" {
			return id
		}
	}
	header := c.GetHeader("X-Request-ID")
	if len(header) > MaxRequestIDLength {
		return header[:MaxRequestIDLength]
	}
	return header
}

// SpanErrorMarker flags the request span as failed for 4xx and 5xx
// responses. Install it after TracingWithConfig.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}

		span.SetStatus(codes.Error, statusMessage(status))
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}

func statusMessage(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "Internal Server Error"
	case status == http.StatusUnauthorized:
		return "Unauthorized"
	case status == http.StatusForbidden:
		return "Forbidden"
	case status == http.StatusNotFound:
		return "Not Found"
	default:
		return "Client Error"
	}
}
