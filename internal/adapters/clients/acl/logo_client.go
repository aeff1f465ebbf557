package acl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"strings"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/clients"
	"github.com/jsamuelsen/invoice-builder/internal/domain"
	"github.com/jsamuelsen/invoice-builder/internal/platform/logging"
)

// DefaultMaxLogoBytes caps the size of a downloaded logo.
const DefaultMaxLogoBytes = 5 << 20

// LogoClientConfig contains configuration for the logo client.
type LogoClientConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should be the origin hosting the logo.
	Client *clients.Client

	// ServiceName names the host in errors and health checks.
	ServiceName string

	// MaxBytes caps the response body. Zero uses DefaultMaxLogoBytes.
	MaxBytes int64

	// Logger is the structured logger.
	Logger *slog.Logger
}

// LogoClient downloads logo images from a remote host.
type LogoClient struct {
	client      *clients.Client
	serviceName string
	maxBytes    int64
	logger      *slog.Logger
}

// NewLogoClient creates a new logo client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewLogoClient(cfg LogoClientConfig) *LogoClient {
	if cfg.Client == nil {
		panic("LogoClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := cfg.ServiceName
	if name == "" {
		name = "logo-host"
	}

	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxLogoBytes
	}

	return &LogoClient{
		client:      cfg.Client,
		serviceName: name,
		maxBytes:    maxBytes,
		logger:      logger,
	}
}

// Fetch downloads the image at path and returns its raw bytes.
// Non-image content types are rejected as validation errors.
func (c *LogoClient) Fetch(ctx context.Context, path string) ([]byte, error) {
	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))

	resp, err := c.client.Get(ctx, path)
	if err != nil {
		return nil, translateFetch(nil, err, c.serviceName, path)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode))

	if mapped := translateFetch(resp, nil, c.serviceName, path); mapped != nil {
		c.logger.WarnContext(ctx, "logo host returned an error",
			slog.Int("status_code", resp.StatusCode),
			slog.String("path", path),
		)

		return nil, mapped
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, _ := mime.ParseMediaType(ct)
		if !strings.HasPrefix(mediaType, "image/") {
			return nil, domain.NewValidationErrorWithValue("content-type", "logo is not an image", ct)
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, domain.NewUnavailableError(c.serviceName, fmt.Sprintf("reading logo: %v", err))
	}

	if int64(len(data)) > c.maxBytes {
		return nil, domain.NewValidationError("logo", fmt.Sprintf("larger than %d bytes", c.maxBytes))
	}

	return data, nil
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *LogoClient) Name() string {
	return c.serviceName
}

// Check reports the host as unhealthy while its circuit breaker is open.
// Implements ports.HealthChecker.
func (c *LogoClient) Check(_ context.Context) error {
	if c.client.CircuitState() == clients.StateOpen {
		return fmt.Errorf("%s: %w", c.serviceName, clients.ErrCircuitOpen)
	}

	return nil
}
