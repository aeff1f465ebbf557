package logo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/clients"
	"github.com/jsamuelsen/invoice-builder/internal/adapters/clients/acl"
	"github.com/jsamuelsen/invoice-builder/internal/domain"
	"github.com/jsamuelsen/invoice-builder/internal/ports"
)

// SourceConfig selects and configures a logo source.
type SourceConfig struct {
	// Location is a file path, an http(s):// URL or an s3://bucket/key URI.
	Location string

	// Client is the template for HTTP sources. BaseURL and ServiceName are
	// filled in from Location.
	Client clients.Config

	// S3Region overrides the region resolved by the AWS default chain.
	S3Region string

	// S3 is an optional pre-built S3 client, used by tests.
	S3 S3GetObjectAPI

	// Logger is an optional logger.
	Logger *slog.Logger
}

// NewSource returns the source matching the location scheme.
func NewSource(ctx context.Context, cfg SourceConfig) (ports.LogoSource, error) {
	loc := strings.TrimSpace(cfg.Location)
	if loc == "" {
		return nil, domain.NewValidationError("logo.location", "is required")
	}

	switch {
	case strings.HasPrefix(loc, "http://"), strings.HasPrefix(loc, "https://"):
		return newHTTPSource(loc, cfg)
	case strings.HasPrefix(loc, "s3://"):
		return newS3Source(ctx, loc, cfg)
	default:
		return &FileSource{Path: strings.TrimPrefix(loc, "file://")}, nil
	}
}

// FileSource reads the logo from the local filesystem.
type FileSource struct {
	Path string
}

// Fetch implements ports.LogoSource.
func (s *FileSource) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(s.Path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.NewNotFoundError("logo", s.Path)
	}

	if err != nil {
		return nil, fmt.Errorf("reading logo file: %w", err)
	}

	return data, nil
}

// Location implements ports.LogoSource.
func (s *FileSource) Location() string {
	return s.Path
}

// HTTPSource downloads the logo through the resilient HTTP client.
type HTTPSource struct {
	client   *acl.LogoClient
	path     string
	location string
}

func newHTTPSource(loc string, cfg SourceConfig) (*HTTPSource, error) {
	u, err := url.Parse(loc)
	if err != nil || u.Host == "" {
		return nil, domain.NewValidationErrorWithValue("logo.location", "invalid URL", loc)
	}

	clientCfg := cfg.Client
	clientCfg.BaseURL = u.Scheme + "://" + u.Host
	clientCfg.ServiceName = "logo-" + u.Hostname()
	clientCfg.Logger = cfg.Logger

	c, err := clients.New(&clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating logo client: %w", err)
	}

	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	return &HTTPSource{
		client: acl.NewLogoClient(acl.LogoClientConfig{
			Client:      c,
			ServiceName: clientCfg.ServiceName,
			Logger:      cfg.Logger,
		}),
		path:     path,
		location: loc,
	}, nil
}

// Fetch implements ports.LogoSource.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	return s.client.Fetch(ctx, s.path)
}

// Location implements ports.LogoSource.
func (s *HTTPSource) Location() string {
	return s.location
}

// Name implements ports.HealthChecker.
func (s *HTTPSource) Name() string {
	return s.client.Name()
}

// Check implements ports.HealthChecker.
func (s *HTTPSource) Check(ctx context.Context) error {
	return s.client.Check(ctx)
}

// NonCritical marks the logo host as optional for readiness.
func (s *HTTPSource) NonCritical() bool {
	return true
}
