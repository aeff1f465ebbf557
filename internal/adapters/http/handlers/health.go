// Package handlers holds the gin handlers of the invoice API: document
// export and totals, the shared workspace with its live view, the HTML
// preview and the operational endpoints under /-/.
package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/invoice-builder/internal/ports"
)

// OpsPrefix is the route group of the operational endpoints.
const OpsPrefix = "/-"

// BuildInfo identifies the running binary. Version, Commit and BuildTime are
// stamped with -ldflags at release time.
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// NewBuildInfo fills in the Go version of the running binary.
func NewBuildInfo(service, version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Service:   service,
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// HealthHandler serves liveness, readiness, build info and Prometheus metrics.
type HealthHandler struct {
	checks  ports.HealthRegistry
	build   BuildInfo
	metrics http.Handler
	started time.Time
}

// NewHealthHandler builds the handler. A nil registry reports ready with no
// checks.
func NewHealthHandler(checks ports.HealthRegistry, build BuildInfo) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		build:   build,
		metrics: metricsHandler(nil),
		started: time.Now(),
	}
}

// WithGatherer serves metrics from g instead of the global registry.
func (h *HealthHandler) WithGatherer(g prometheus.Gatherer) *HealthHandler {
	h.metrics = metricsHandler(g)
	return h
}

// Register mounts the endpoints under OpsPrefix:
//
//	GET /-/live     process is up
//	GET /-/ready    dependency checks, 503 when a critical one fails
//	GET /-/build    BuildInfo
//	GET /-/metrics  Prometheus exposition
func (h *HealthHandler) Register(r gin.IRouter) {
	ops := r.Group(OpsPrefix)
	ops.GET("/live", h.Live)
	ops.GET("/ready", h.Ready)
	ops.GET("/build", h.Build)
	ops.GET("/metrics", gin.WrapH(h.metrics))
}

type liveResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// Live answers 200 while the process can serve HTTP at all. It never looks
// at dependencies.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, liveResponse{
		Status: "ok",
		Uptime: time.Since(h.started).Round(time.Second).String(),
	})
}

type readyResponse struct {
	Status ports.HealthStatus            `json:"status"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Ready runs the registered checks. A degraded result, such as an
// unreachable logo host, still answers 200 because documents render
// without the logo.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.checks == nil {
		c.JSON(http.StatusOK, readyResponse{Status: ports.HealthStatusHealthy})
		return
	}

	result := h.checks.CheckAll(c.Request.Context())

	code := http.StatusOK
	if result.Status == ports.HealthStatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, readyResponse{Status: result.Status, Checks: result.Checks})
}

// Build returns the BuildInfo.
func (h *HealthHandler) Build(c *gin.Context) {
	c.JSON(http.StatusOK, h.build)
}

func metricsHandler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}

	return promhttp.HandlerFor(g, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
