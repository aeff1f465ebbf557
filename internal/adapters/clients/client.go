package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/http/middleware"
	"github.com/jsamuelsen/invoice-builder/internal/platform/config"
	"github.com/jsamuelsen/invoice-builder/internal/platform/logging"
)

const instrumentationName = "github.com/jsamuelsen/invoice-builder/internal/adapters/clients"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "invoice-builder"
	defaultJitter    = 0.25

	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

// Outcomes recorded on the request metrics.
const (
	outcomeCircuitOpen = "circuit_open"
	outcomeError       = "error"
)

// Config describes one remote asset host.
type Config struct {
	// BaseURL is the scheme and host every path is resolved against,
	// e.g. "https://cdn.example.com".
	BaseURL string

	// ServiceName names the host in logs, spans and metrics.
	ServiceName string

	// Timeout bounds a single attempt. Retries and backoff come on top.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	UserAgent string
	Logger    *slog.Logger
}

// Client fetches remote assets such as logos. Attempts that fail with a
// transient transport error or a 408, 429 or 5xx status are retried with
// jittered exponential backoff, honouring Retry-After. A breaker stops
// calling a host that keeps failing.
type Client struct {
	http      *http.Client
	baseURL   string
	name      string
	userAgent string
	retry     config.RetryConfig
	breaker   *CircuitBreaker
	logger    *slog.Logger

	tracer   trace.Tracer
	duration metric.Float64Histogram
	requests metric.Int64Counter
}

// New builds a Client. Zero timeouts, attempts and user agents fall back to
// package defaults.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	retry := cfg.Retry
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "clients.Client"), slog.String("host", cfg.ServiceName))

	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Wall-clock time of asset fetches, retries included"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	requests, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Asset fetches by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	breaker := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   cfg.Circuit.MaxFailures,
		Timeout:       cfg.Circuit.Timeout,
		HalfOpenLimit: cfg.Circuit.HalfOpenLimit,
	})
	breaker.OnStateChange(func(from, to State) {
		logger.Warn("logo host circuit changed", slog.String("from", from.String()), slog.String("to", to.String()))
	})

	return &Client{
		http:      &http.Client{Timeout: timeout, Transport: newTransport(cfg.Transport)},
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		name:      cfg.ServiceName,
		userAgent: userAgent,
		retry:     retry,
		breaker:   breaker,
		logger:    logger,
		tracer:    otel.Tracer(instrumentationName),
		duration:  duration,
		requests:  requests,
	}, nil
}

// Get fetches path relative to the base URL.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return c.Do(ctx, req)
}

// Do sends req, retrying as described on Client. Only requests without a
// body, or with GetBody set, can be retried safely.
//
// A response is returned for every status that is not retried, including
// 4xx; mapping those is up to the caller. When the last attempt still
// fails the error wraps ErrMaxRetriesExceeded.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()

	if !c.breaker.Allow() {
		c.observe(ctx, req.Method, start, outcomeCircuitOpen)
		return nil, ErrCircuitOpen
	}

	ids := middleware.TraceIDsFromContext(ctx)
	if ids.Request != "" {
		req.Header.Set(middleware.HeaderRequestID, ids.Request)
	}

	if ids.Correlation != "" {
		req.Header.Set(middleware.HeaderCorrelationID, ids.Correlation)
	}

	req.Header.Set("User-Agent", c.userAgent)

	ctx, span := c.tracer.Start(ctx, "GET "+c.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.Redacted()),
			attribute.String("peer.service", c.name),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	logger := logging.FromContextOr(ctx, c.logger).With(slog.String("path", req.URL.Path))

	attempts := 0
	resp, err := backoff.Retry(ctx, func() (*http.Response, error) {
		attempts++
		return c.attempt(req.WithContext(ctx))
	},
		backoff.WithBackOff(c.backOff()),
		backoff.WithMaxTries(uint(c.retry.MaxAttempts)), //nolint:gosec // validated positive
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			logger.DebugContext(ctx, "retrying logo fetch",
				slog.Int("attempt", attempts),
				slog.Duration("wait", wait),
				slog.Any("error", err),
			)
		}),
	)

	span.SetAttributes(attribute.Int("http.attempts", attempts))

	if err != nil {
		c.breaker.RecordFailure()
		span.SetStatus(codes.Error, err.Error())
		c.observe(ctx, req.Method, start, outcomeError)
		logger.WarnContext(ctx, "logo fetch failed",
			slog.Int("attempts", attempts),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)

		if attempts >= c.retry.MaxAttempts {
			return nil, fmt.Errorf("%w after %d attempts: %w", ErrMaxRetriesExceeded, attempts, err)
		}

		return nil, err
	}

	c.breaker.RecordSuccess()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, resp.Status)
	}

	c.observe(ctx, req.Method, start, statusClass(resp.StatusCode), attribute.Int("http.status_code", resp.StatusCode))
	logger.DebugContext(ctx, "logo fetched", slog.Int("status", resp.StatusCode), slog.Duration("duration", time.Since(start)))

	return resp, nil
}

// CircuitState reports the breaker state for health checks.
func (c *Client) CircuitState() State {
	return c.breaker.State()
}

// attempt sends req once and classifies the outcome for backoff.Retry.
func (c *Client) attempt(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if transient(err) {
			return nil, err
		}

		return nil, backoff.Permanent(err)
	}

	if !retryableStatus(resp.StatusCode) {
		return resp, nil
	}

	_ = resp.Body.Close()

	statusErr := &StatusError{Code: resp.StatusCode}
	if wait, ok := retryAfter(resp.Header.Get("Retry-After"), time.Now()); ok {
		return nil, fmt.Errorf("%w: %w", statusErr, &backoff.RetryAfterError{Duration: min(wait, c.retry.MaxInterval)})
	}

	return nil, statusErr
}

func (c *Client) backOff() backoff.BackOff {
	jitter := c.retry.JitterFactor
	if jitter == 0 {
		jitter = defaultJitter
	}

	return &backoff.ExponentialBackOff{
		InitialInterval:     c.retry.InitialInterval,
		RandomizationFactor: jitter,
		Multiplier:          c.retry.Multiplier,
		MaxInterval:         c.retry.MaxInterval,
	}
}

func (c *Client) observe(ctx context.Context, method string, start time.Time, outcome string, extra ...attribute.KeyValue) {
	attrs := metric.WithAttributes(append([]attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.name),
		attribute.String("result", outcome),
	}, extra...)...)

	c.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	c.requests.Add(ctx, 1, attrs)
}

// retryableStatus reports statuses worth another attempt: timeouts, rate
// limiting and server-side failures other than 501.
func retryableStatus(code int) bool {
	switch {
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return true
	case code == http.StatusNotImplemented:
		return false
	default:
		return code >= http.StatusInternalServerError
	}
}

// retryAfter parses a Retry-After header given either in seconds or as an
// HTTP date relative to now.
func retryAfter(header string, now time.Time) (time.Duration, bool) {
	if header == "" {
		return 0, false
	}

	if secs, err := strconv.Atoi(header); err == nil {
		if secs < 0 {
			return 0, false
		}

		return time.Duration(secs) * time.Second, true
	}

	at, err := http.ParseTime(header)
	if err != nil {
		return 0, false
	}

	return max(at.Sub(now), 0), true
}

// transient reports transport errors that a retry may cure: timeouts and
// network-level failures such as refused or reset connections. Cancellation
// is never transient.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

func newTransport(cfg config.TransportConfig) *http.Transport {
	t := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        defaultMaxIdleConns,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
	}

	if cfg.MaxIdleConns > 0 {
		t.MaxIdleConns = cfg.MaxIdleConns
	}

	if cfg.MaxIdleConnsPerHost > 0 {
		t.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	}

	if cfg.IdleConnTimeout > 0 {
		t.IdleConnTimeout = cfg.IdleConnTimeout
	}

	return t
}
