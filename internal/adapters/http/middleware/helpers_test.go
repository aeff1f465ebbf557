package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// jsonLog is a debug level JSON logger and the records it wrote.
type jsonLog struct {
	*slog.Logger
	buf *bytes.Buffer
}

func newJSONLog() jsonLog {
	buf := new(bytes.Buffer)
	return jsonLog{slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf}
}

func (l jsonLog) records(t *testing.T) []map[string]any {
	t.Helper()

	var out []map[string]any

	dec := json.NewDecoder(strings.NewReader(l.buf.String()))
	for dec.More() {
		rec := map[string]any{}
		require.NoError(t, dec.Decode(&rec))
		out = append(out, rec)
	}

	return out
}

// do runs req through a fresh engine with mw installed and h on its path.
func do(req *http.Request, h gin.HandlerFunc, mw ...gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(mw...)
	r.Handle(req.Method, req.URL.Path, h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func status(code int) gin.HandlerFunc {
	return func(c *gin.Context) { c.Status(code) }
}
