package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/http/dto"
)

func TestRecovery_Envelope(t *testing.T) {
	t.Parallel()

	log := newJSONLog()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/pdf", http.NoBody)
	req.Header.Set(HeaderRequestID, "req-9")

	w := do(req, func(*gin.Context) { panic("font table corrupt") }, Recovery(log.Logger))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, dto.ErrorCodeInternal, body.Error.Code)
	assert.Equal(t, "an internal error occurred", body.Error.Message)
	assert.Equal(t, "req-9", body.TraceID)

	recs := log.records(t)
	require.Len(t, recs, 1)
	assert.Equal(t, "panic recovered", recs[0]["msg"])
	assert.Equal(t, "font table corrupt", recs[0]["error"])
	assert.Equal(t, "/api/v1/documents/pdf", recs[0]["route"])
	assert.Contains(t, recs[0]["stack"], "runtime/debug.Stack")
}

func TestRecovery_ResponseAlreadyStarted(t *testing.T) {
	t.Parallel()

	w := do(httptest.NewRequest(http.MethodGet, "/api/v1/workspace/export/pdf", http.NoBody), func(c *gin.Context) {
		c.String(http.StatusOK, "%PDF-1.3")
		panic("page overflow")
	}, Recovery(slog.New(slog.DiscardHandler)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.3", w.Body.String())
}
