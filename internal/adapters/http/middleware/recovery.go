package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/http/dto"
	"github.com/jsamuelsen/invoice-builder/internal/platform/logging"
)

// Recovery is gin's recovery with the panic logged through slog and answered
// with the INTERNAL_ERROR envelope. If the handler already started writing,
// such as a half streamed PDF, the response is only aborted. Install it
// first so it covers every other middleware.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		ctx := c.Request.Context()

		logging.FromContextOr(ctx, logger).ErrorContext(ctx, "panic recovered",
			slog.Any("error", recovered),
			slog.String("route", c.FullPath()),
			slog.String("path", c.Request.URL.Path),
			slog.String("trace_id", dto.GetTraceID(c)),
			slog.String("stack", string(debug.Stack())),
		)

		if c.Writer.Written() {
			c.Abort()
			return
		}

		dto.AbortWithCode(c, dto.ErrorCodeInternal, "an internal error occurred")
	})
}
