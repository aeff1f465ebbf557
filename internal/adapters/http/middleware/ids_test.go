package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/invoice-builder/internal/platform/logging"
)

func TestIDs_GeneratedOrEchoed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mw     gin.HandlerFunc
		header string
		sent   string
		pick   func(c *gin.Context) (string, string)
	}{
		{
			name:   "fresh request id",
			mw:     RequestID(),
			header: HeaderRequestID,
			pick: func(c *gin.Context) (string, string) {
				return GetRequestID(c), TraceIDsFromContext(c.Request.Context()).Request
			},
		},
		{
			name:   "request id from proxy",
			mw:     RequestID(),
			header: HeaderRequestID,
			sent:   "req-123",
			pick: func(c *gin.Context) (string, string) {
				return GetRequestID(c), TraceIDsFromContext(c.Request.Context()).Request
			},
		},
		{
			name:   "fresh editing session",
			mw:     CorrelationID(),
			header: HeaderCorrelationID,
			pick: func(c *gin.Context) (string, string) {
				return GetCorrelationID(c), TraceIDsFromContext(c.Request.Context()).Correlation
			},
		},
		{
			name:   "editing tab keeps its id",
			mw:     CorrelationID(),
			header: HeaderCorrelationID,
			sent:   "tab-7",
			pick: func(c *gin.Context) (string, string) {
				return GetCorrelationID(c), TraceIDsFromContext(c.Request.Context()).Correlation
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var onGin, onCtx string

			req := httptest.NewRequest(http.MethodGet, "/api/v1/workspace", http.NoBody)
			if tt.sent != "" {
				req.Header.Set(tt.header, tt.sent)
			}

			w := do(req, func(c *gin.Context) {
				onGin, onCtx = tt.pick(c)
				c.Status(http.StatusNoContent)
			}, tt.mw)

			id := w.Header().Get(tt.header)
			require.NotEmpty(t, id)
			assert.Equal(t, id, onGin)
			assert.Equal(t, id, onCtx)

			if tt.sent == "" {
				assert.Len(t, id, len("123e4567-e89b-12d3-a456-426614174000"))
			} else {
				assert.Equal(t, tt.sent, id)
			}
		})
	}
}

func TestIDs_ReachContextLogger(t *testing.T) {
	t.Parallel()

	log := newJSONLog()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/totals", http.NoBody)
	req.Header.Set(HeaderRequestID, "req-42")

	do(req, func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("totals computed")
		c.Status(http.StatusOK)
	}, ContextLogger(log.Logger), RequestID(), CorrelationID())

	recs := log.records(t)
	require.Len(t, recs, 1)
	assert.Equal(t, "totals computed", recs[0]["msg"])
	assert.Equal(t, "req-42", recs[0]["request_id"])
	assert.NotEmpty(t, recs[0]["correlation_id"])
}

func TestTraceIDsFromContext(t *testing.T) {
	t.Parallel()

	var got TraceIDs

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspace", http.NoBody)
	req.Header.Set(HeaderRequestID, "req-9")
	req.Header.Set(HeaderCorrelationID, "tab-3")

	do(req, func(c *gin.Context) {
		got = TraceIDsFromContext(c.Request.Context())
	}, CorrelationID(), RequestID())

	assert.Equal(t, TraceIDs{Request: "req-9", Correlation: "tab-3"}, got)
	assert.Zero(t, TraceIDsFromContext(context.Background()))
	assert.Zero(t, TraceIDsFromContext(nil)) //nolint:staticcheck // nil context is tolerated
	assert.Equal(t, TraceIDs{Request: "r"}, TraceIDsFromContext(ContextWithTraceIDs(context.Background(), TraceIDs{Request: "r"})))
}

func TestGetIDs_NoMiddleware(t *testing.T) {
	t.Parallel()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, GetRequestID(c))
	assert.Empty(t, GetCorrelationID(c))
}
