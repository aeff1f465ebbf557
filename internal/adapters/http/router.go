package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/http/handlers"
	"github.com/jsamuelsen/invoice-builder/internal/adapters/http/middleware"
	"github.com/jsamuelsen/invoice-builder/internal/platform/telemetry"
)

// DefaultRequestTimeout is the deadline put on /api/v1 requests when the
// router is given none.
const DefaultRequestTimeout = 30 * time.Second

const (
	apiPrefix = "/api/v1"

	// LivePath streams workspace views over a websocket.
	LivePath = apiPrefix + "/workspace/live"
)

// RouterConfig lists what SetupRouter mounts. Any nil handler is left out.
type RouterConfig struct {
	Logger      *slog.Logger
	ServiceName string
	Timeout     time.Duration

	Health    *handlers.HealthHandler
	Invoice   *handlers.InvoiceHandler
	Workspace *handlers.WorkspaceHandler
	Live      *handlers.LiveHandler
	Preview   *handlers.PreviewHandler
}

// SetupRouter installs the middleware chain and every route.
//
// Every request passes recovery, the request logger, request and correlation
// IDs, tracing and the access log. Requests under /api/v1 also get the
// deadline. The live websocket is mounted outside that group because it
// stays open for as long as the browser tab does.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := cfg.ServiceName
	if name == "" {
		name = "invoice-builder"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	engine.Use(
		middleware.Recovery(logger),
		middleware.ContextLogger(logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(name)...)
	engine.Use(middleware.AccessLog(logger))

	if cfg.Health != nil {
		cfg.Health.Register(engine)
	}

	if cfg.Live != nil {
		engine.GET(LivePath, cfg.Live.Live)
	}

	if cfg.Preview != nil {
		cfg.Preview.RegisterPreviewRoutes(engine)
	}

	api := engine.Group(apiPrefix, middleware.Deadline(timeout))

	if cfg.Invoice != nil {
		cfg.Invoice.RegisterInvoiceRoutes(api)
	}

	if cfg.Workspace != nil {
		cfg.Workspace.RegisterWorkspaceRoutes(api)
	}
}
