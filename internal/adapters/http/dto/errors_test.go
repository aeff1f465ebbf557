package dto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorResponse_JSON(t *testing.T) {
	resp := NewErrorResponse(ErrorCodeValidation, "request validation failed").
		WithDetails(map[string]string{"settings.issueDate": "must be a date formatted as 2006-01-02"}).
		WithTraceID("req-42")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"error": {
			"code": "VALIDATION_ERROR",
			"message": "request validation failed",
			"details": {"settings.issueDate": "must be a date formatted as 2006-01-02"}
		},
		"traceId": "req-42"
	}`, string(data))
}

func TestErrorResponse_EmptyDetailsOmitted(t *testing.T) {
	data, err := json.Marshal(NewErrorResponse(ErrorCodeNotFound, "line item not found").WithDetails(map[string]string{}))
	require.NoError(t, err)

	assert.JSONEq(t, `{"error":{"code":"NOT_FOUND","message":"line item not found"}}`, string(data))
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := map[string]int{
		ErrorCodeBadRequest:  http.StatusBadRequest,
		ErrorCodeValidation:  http.StatusBadRequest,
		ErrorCodeNotFound:    http.StatusNotFound,
		ErrorCodeTooLarge:    http.StatusRequestEntityTooLarge,
		ErrorCodeInternal:    http.StatusInternalServerError,
		ErrorCodeUnavailable: http.StatusServiceUnavailable,
		ErrorCodeTimeout:     http.StatusGatewayTimeout,
		"SOMETHING_NEW":      http.StatusInternalServerError,
	}

	for code, want := range tests {
		assert.Equal(t, want, HTTPStatusFromCode(code), code)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
		wantDetails map[string]string
	}{
		{
			name:        "missing row",
			err:         fmt.Errorf("updating row: %w", domain.NewNotFoundError("line item", "7")),
			wantStatus:  http.StatusNotFound,
			wantCode:    ErrorCodeNotFound,
			wantMessage: `updating row: line item with id "7" not found`,
		},
		{
			name:        "unknown field names the field",
			err:         domain.NewValidationErrorWithValue("field", "unknown line item field", "colour"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantMessage: "validation failed for field: unknown line item field",
			wantDetails: map[string]string{"field": "unknown line item field"},
		},
		{
			name:        "upload without field",
			err:         domain.NewValidationError("", "empty upload"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantMessage: "validation failed: empty upload",
		},
		{
			name:        "bare sentinel",
			err:         domain.ErrValidation,
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantMessage: "validation failed",
		},
		{
			name:        "logo host hidden",
			err:         domain.NewUnavailableError("logo-cdn", "dial tcp 10.0.0.7:443: connection refused"),
			wantStatus:  http.StatusServiceUnavailable,
			wantCode:    ErrorCodeUnavailable,
			wantMessage: msgUnavailable,
		},
		{
			name:        "renderer crash hidden",
			err:         errors.New("gofpdf: open /srv/fonts/missing.ttf"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrorCodeInternal,
			wantMessage: msgInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
			assert.Equal(t, tt.wantDetails, resp.Error.Details)
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domain.NewNotFoundError("logo", ""), http.StatusNotFound, ErrorCodeNotFound},
		{"bad format", domain.NewValidationErrorWithValue("format", "must be one of pdf, xlsx, bundle", "docx"), http.StatusBadRequest, ErrorCodeValidation},
		{"bucket down", domain.NewUnavailableError("logo-s3", "timeout"), http.StatusServiceUnavailable, ErrorCodeUnavailable},
		{"unexpected", errors.New("disk full"), http.StatusInternalServerError, ErrorCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/documents/pdf", http.NoBody)
			c.Request.Header.Set("X-Request-ID", "req-9")

			HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-9", resp.TraceID)
			assert.False(t, c.IsAborted())
		})
	}
}

func TestAbortWithCode(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/workspace/logo", http.NoBody)
	c.Set(traceIDKey, "upload-3")

	AbortWithCode(c, ErrorCodeTooLarge, "logo must not exceed 2 MiB")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t,
		`{"error":{"code":"PAYLOAD_TOO_LARGE","message":"logo must not exceed 2 MiB"},"traceId":"upload-3"}`,
		w.Body.String())
}

func TestGetTraceID(t *testing.T) {
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36},
		SpanID:     trace.SpanID{0x00, 0xf0, 0x67, 0xaa, 0x0b, 0xa9, 0x02, 0xb7},
		TraceFlags: trace.FlagsSampled,
	})

	tests := []struct {
		name  string
		setup func(c *gin.Context)
		want  string
	}{
		{
			name:  "nothing known",
			setup: func(*gin.Context) {},
			want:  "",
		},
		{
			name:  "request header",
			setup: func(c *gin.Context) { c.Request.Header.Set("X-Request-ID", "req-1") },
			want:  "req-1",
		},
		{
			name: "span beats header",
			setup: func(c *gin.Context) {
				c.Request.Header.Set("X-Request-ID", "req-1")
				c.Request = c.Request.WithContext(trace.ContextWithSpanContext(context.Background(), spanCtx))
			},
			want: "4bf92f3577b34da6a3ce929d0e0e4736",
		},
		{
			name: "explicit value beats span",
			setup: func(c *gin.Context) {
				c.Request = c.Request.WithContext(trace.ContextWithSpanContext(context.Background(), spanCtx))
				c.Set(traceIDKey, "explicit")
			},
			want: "explicit",
		},
		{
			name:  "explicit value of the wrong type",
			setup: func(c *gin.Context) { c.Set(traceIDKey, 42) },
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/workspace", http.NoBody)
			tt.setup(c)

			assert.Equal(t, tt.want, GetTraceID(c))
		})
	}

	t.Run("no request", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.Empty(t, GetTraceID(c))
	})
}
