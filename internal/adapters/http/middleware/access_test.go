package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		path  string
		code  int
		quiet []string
		want  string
	}{
		{"totals ok", "/api/v1/totals", http.StatusOK, nil, "INFO"},
		{"invalid settings", "/api/v1/workspace/settings", http.StatusBadRequest, nil, "WARN"},
		{"pdf render failed", "/api/v1/documents/pdf", http.StatusInternalServerError, nil, "ERROR"},
		{"readiness scrape", "/-/ready", http.StatusOK, nil, ""},
		{"metrics scrape", "/-/metrics", http.StatusOK, nil, ""},
		{"quiet preview", "/preview", http.StatusOK, []string{"/preview"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			log := newJSONLog()
			do(httptest.NewRequest(http.MethodGet, tt.path+"?lang=id", http.NoBody), status(tt.code), AccessLog(log.Logger, tt.quiet...))

			recs := log.records(t)
			if tt.want == "" {
				assert.Empty(t, recs)
				return
			}

			require.Len(t, recs, 1)
			assert.Equal(t, tt.want, recs[0]["level"])
			assert.Equal(t, "request completed", recs[0]["msg"])
			assert.Equal(t, tt.path, recs[0]["path"])
			assert.Equal(t, tt.path, recs[0]["route"])
			assert.EqualValues(t, tt.code, recs[0]["status"])
		})
	}
}

func TestAccessLog_GinErrors(t *testing.T) {
	t.Parallel()

	log := newJSONLog()
	do(httptest.NewRequest(http.MethodPost, "/api/v1/documents/xlsx", http.NoBody), func(c *gin.Context) {
		_ = c.Error(errors.New("excelize: sheet missing"))
		c.Status(http.StatusInternalServerError)
	}, AccessLog(log.Logger))

	recs := log.records(t)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0]["errors"], "excelize: sheet missing")
}

func TestAccessLog_MarksWebsocket(t *testing.T) {
	t.Parallel()

	log := newJSONLog()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspace/live", http.NoBody)
	req.Header.Set("Upgrade", "WebSocket")
	do(req, status(http.StatusSwitchingProtocols), AccessLog(log.Logger))

	recs := log.records(t)
	require.Len(t, recs, 1)
	assert.Equal(t, true, recs[0]["websocket"])
}

func TestLevelFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelInfo, levelFor(http.StatusNotModified))
	assert.Equal(t, slog.LevelWarn, levelFor(http.StatusRequestEntityTooLarge))
	assert.Equal(t, slog.LevelError, levelFor(http.StatusServiceUnavailable))
}
