package telemetry

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/invoice-builder/internal/platform/logging"
)

const scope = "github.com/jsamuelsen/invoice-builder/internal/platform/telemetry"

// HeaderTraceID returns the trace ID to the caller, so a failed export can
// be looked up by what the browser saw.
const HeaderTraceID = "X-Trace-ID"

// Operational endpoints are neither traced nor measured.
const opsPrefix = "/-/"

// Middleware returns, in order: the otelgin span handler, the handler that
// exposes the span's trace ID, and the request instruments. All of them
// ignore /-/ routes.
//
//	engine.Use(telemetry.Middleware("invoice-builder")...)
func Middleware(serviceName string) gin.HandlersChain {
	return gin.HandlersChain{
		otelgin.Middleware(serviceName, otelgin.WithFilter(traced)),
		exposeTraceID,
		newServerInstruments(otel.Meter(scope)).handler,
	}
}

func traced(r *http.Request) bool {
	return !strings.HasPrefix(r.URL.Path, opsPrefix)
}

func exposeTraceID(c *gin.Context) {
	ctx := c.Request.Context()

	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		id := sc.TraceID().String()
		c.Header(HeaderTraceID, id)
		c.Request = c.Request.WithContext(logging.WithTraceID(ctx, id))
	}

	c.Next()
}

// serverInstruments are the per-route request instruments. A meter that
// fails to create one leaves it nil and that instrument is skipped.
type serverInstruments struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func newServerInstruments(m metric.Meter) *serverInstruments {
	var (
		si   serverInstruments
		errs [3]error
	)

	si.duration, errs[0] = m.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Time to answer an invoice API request, or the length of a live view session."),
		metric.WithUnit("s"))
	si.requests, errs[1] = m.Int64Counter("http.server.request.total",
		metric.WithDescription("Invoice API requests answered."))
	si.inFlight, errs[2] = m.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Requests being served, open live view sessions included."))

	if err := errors.Join(errs[:]...); err != nil {
		otel.Handle(err)
	}

	return &si
}

func (si *serverInstruments) handler(c *gin.Context) {
	if !traced(c.Request) {
		c.Next()
		return
	}

	ctx := c.Request.Context()
	began := time.Now()
	route := metric.WithAttributes(
		attribute.String("http.request.method", c.Request.Method),
		attribute.String("http.route", c.FullPath()),
	)

	if si.inFlight != nil {
		si.inFlight.Add(ctx, 1, route)
		defer si.inFlight.Add(ctx, -1, route)
	}

	c.Next()

	status := metric.WithAttributes(attribute.Int("http.response.status_code", c.Writer.Status()))

	if si.duration != nil {
		si.duration.Record(ctx, time.Since(began).Seconds(), route, status)
	}

	if si.requests != nil {
		si.requests.Add(ctx, 1, route, status)
	}
}
