// Package dto holds the JSON shapes of the invoice API and the error envelope
// every failing request answers with.
package dto

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
	"github.com/jsamuelsen/invoice-builder/internal/platform/logging"
)

// Machine-readable error codes.
const (
	ErrorCodeBadRequest  = "BAD_REQUEST"
	ErrorCodeValidation  = "VALIDATION_ERROR"
	ErrorCodeNotFound    = "NOT_FOUND"
	ErrorCodeTooLarge    = "PAYLOAD_TOO_LARGE"
	ErrorCodeInternal    = "INTERNAL_ERROR"
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"
	ErrorCodeTimeout     = "TIMEOUT"
)

var statusByCode = map[string]int{
	ErrorCodeBadRequest:  http.StatusBadRequest,
	ErrorCodeValidation:  http.StatusBadRequest,
	ErrorCodeNotFound:    http.StatusNotFound,
	ErrorCodeTooLarge:    http.StatusRequestEntityTooLarge,
	ErrorCodeInternal:    http.StatusInternalServerError,
	ErrorCodeUnavailable: http.StatusServiceUnavailable,
	ErrorCodeTimeout:     http.StatusGatewayTimeout,
}

// Messages that deliberately hide the underlying error.
const (
	msgInternal    = "an internal error occurred"
	msgUnavailable = "a dependency is temporarily unavailable"
)

// gin context key for a trace ID set explicitly by a handler or test.
const traceIDKey = "trace_id"

// ErrorResponse is the body of every 4xx and 5xx answer.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail describes what went wrong. Details maps JSON field names such
// as "issueDate" or "items[2].quantity" to the rule they broke.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// NewErrorResponse builds an envelope without field details.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// WithDetails attaches field-level messages. An empty map is dropped.
func (e *ErrorResponse) WithDetails(details map[string]string) *ErrorResponse {
	if len(details) > 0 {
		e.Error.Details = details
	}

	return e
}

// WithTraceID stamps the envelope with the request's trace ID.
func (e *ErrorResponse) WithTraceID(id string) *ErrorResponse {
	e.TraceID = id
	return e
}

// HTTPStatusFromCode returns the status for an error code, 500 when unknown.
func HTTPStatusFromCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// MapDomainError turns an error from the invoice service into a status and
// envelope. Unavailable and unknown errors get a generic message so logo
// hosts, buckets and file paths never leak to the browser.
func MapDomainError(err error) (int, *ErrorResponse) {
	var invalid *domain.ValidationError

	switch {
	case domain.IsNotFound(err):
		return respond(ErrorCodeNotFound, err.Error())
	case errors.As(err, &invalid) && invalid.Field != "":
		status, resp := respond(ErrorCodeValidation, err.Error())
		return status, resp.WithDetails(map[string]string{invalid.Field: invalid.Message})
	case domain.IsValidation(err):
		return respond(ErrorCodeValidation, err.Error())
	case domain.IsUnavailable(err):
		return respond(ErrorCodeUnavailable, msgUnavailable)
	default:
		return respond(ErrorCodeInternal, msgInternal)
	}
}

func respond(code, message string) (int, *ErrorResponse) {
	return HTTPStatusFromCode(code), NewErrorResponse(code, message)
}

// HandleError answers c with the envelope for err. Server-side failures are
// logged with the request's logger since their message is not sent back.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.WithTraceID(GetTraceID(c))

	if status >= http.StatusInternalServerError {
		ctx := c.Request.Context()
		logging.FromContext(ctx).ErrorContext(ctx, "invoice request failed",
			slog.Any("error", err),
			slog.Int("status", status),
		)
	}

	c.JSON(status, resp)
}

// AbortWithCode stops the handler chain and answers with code and message.
func AbortWithCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code),
		NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// GetTraceID finds the ID to quote in an error envelope. An ID stored on the
// gin context wins, then the active span, then the X-Request-ID header.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(traceIDKey); ok {
		id, _ := v.(string)
		return id
	}

	if c.Request == nil {
		return ""
	}

	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	return c.GetHeader("X-Request-ID")
}
