package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/invoice-builder/internal/platform/logging"
)

// OpsPrefix covers liveness, readiness and metrics scrapes, which are never
// access logged.
const OpsPrefix = "/-/"

// AccessLog writes one "request completed" line per request once the handler
// chain returns, at Error for 5xx, Warn for 4xx and Info otherwise. Requests
// under OpsPrefix or any of quiet are not logged. A live view session is
// logged when its websocket closes, so its latency is the session length.
func AccessLog(logger *slog.Logger, quiet ...string) gin.HandlerFunc {
	quiet = append(quiet, OpsPrefix)

	return func(c *gin.Context) {
		if hasAnyPrefix(c.Request.URL.Path, quiet) {
			c.Next()
			return
		}

		began := time.Now()
		c.Next()

		ctx := c.Request.Context()
		logging.FromContextOr(ctx, logger).LogAttrs(ctx, levelFor(c.Writer.Status()), "request completed",
			accessAttrs(c, time.Since(began))...)
	}
}

// ContextLogger puts logger on the request context, where the ID middleware
// adds its fields and handlers pick it up with logging.FromContext.
func ContextLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	}
}

func accessAttrs(c *gin.Context, latency time.Duration) []slog.Attr {
	attrs := make([]slog.Attr, 0, 9)
	attrs = append(attrs,
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("route", c.FullPath()),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("latency", latency),
		slog.Int("bytes", c.Writer.Size()),
		slog.String("client_ip", c.ClientIP()),
	)

	if upgradesToWebsocket(c.Request) {
		attrs = append(attrs, slog.Bool("websocket", true))
	}

	if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
		attrs = append(attrs, slog.String("errors", errs.String()))
	}

	return attrs
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}

func upgradesToWebsocket(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
