package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/invoice-builder/internal/platform/logging"
)

const (
	// HeaderRequestID identifies a single HTTP request.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID identifies a whole client session, e.g. one editing
	// tab that issues many requests and holds a live connection.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin context key for the request ID.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin context key for the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

type idKind struct {
	header string
	ginKey string
	enrich func(ctx context.Context, id string) context.Context
}

var (
	requestIDKind = idKind{
		header: HeaderRequestID,
		ginKey: ContextKeyRequestID,
		enrich: func(ctx context.Context, id string) context.Context {
			return logging.WithRequestID(withRequestID(ctx, id), id)
		},
	}
	correlationIDKind = idKind{
		header: HeaderCorrelationID,
		ginKey: ContextKeyCorrelationID,
		enrich: func(ctx context.Context, id string) context.Context {
			return logging.WithCorrelationID(withCorrelationID(ctx, id), id)
		},
	}
)

// RequestID takes X-Request-ID from the request or generates a UUID, echoes
// it on the response and makes it available to handlers, the context logger
// and outbound clients.
func RequestID() gin.HandlerFunc {
	return requestIDKind.middleware()
}

// CorrelationID does the same as RequestID for X-Correlation-ID.
func CorrelationID() gin.HandlerFunc {
	return correlationIDKind.middleware()
}

// GetRequestID returns the request ID, or "" when the middleware did not run.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID, or "" when the middleware did not run.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

func (k idKind) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(k.header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(k.ginKey, id)
		c.Header(k.header, id)
		c.Request = c.Request.WithContext(k.enrich(c.Request.Context(), id))

		c.Next()
	}
}
