// Command service runs the invoice builder API.
//
// The deployment profile comes from APP_ENVIRONMENT (default "local") and
// selects configs/<profile>.yaml on top of configs/base.yaml. Any key can be
// overridden with an APP_ variable, for example APP_SERVER_PORT=9090.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/clients"
	"github.com/jsamuelsen/invoice-builder/internal/adapters/csvimport"
	"github.com/jsamuelsen/invoice-builder/internal/adapters/http"
	"github.com/jsamuelsen/invoice-builder/internal/adapters/http/handlers"
	"github.com/jsamuelsen/invoice-builder/internal/adapters/logo"
	"github.com/jsamuelsen/invoice-builder/internal/adapters/pdf"
	"github.com/jsamuelsen/invoice-builder/internal/adapters/spreadsheet"
	"github.com/jsamuelsen/invoice-builder/internal/app"
	"github.com/jsamuelsen/invoice-builder/internal/platform/config"
	"github.com/jsamuelsen/invoice-builder/internal/platform/logging"
	"github.com/jsamuelsen/invoice-builder/internal/platform/telemetry"
	"github.com/jsamuelsen/invoice-builder/internal/ports"
)

// Stamped at release:
//
//	go build -ldflags "-X main.Version=1.4.0 -X main.Commit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%FT%TZ)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "invoice-builder:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	profile := cmp.Or(os.Getenv("APP_ENVIRONMENT"), "local")

	cfg, err := config.Load(profile)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)
	logging.SetDefault(logger)

	logger.Info("invoice builder starting",
		slog.String("profile", profile),
		slog.String("version", Version),
		slog.String("commit", Commit),
	)

	tracing, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		Insecure:     cfg.Telemetry.Insecure,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}

	defer func() {
		if err := tracing.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("flushing traces", slog.Any("error", err))
		}
	}()

	gatherer := prometheus.NewRegistry()
	gatherer.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewBusinessMetrics(gatherer)

	checks := ports.NewHealthRegistry(0)

	logos, err := startLogoLoader(ctx, cfg, logger, checks)
	if err != nil {
		return err
	}

	service := app.NewInvoiceService(app.InvoiceServiceConfig{
		Parser:       csvimport.Parser{},
		Spreadsheets: spreadsheet.Codec{},
		PDF: pdf.New(pdf.Config{
			Compress: cfg.Export.Compress,
			Creator:  cfg.App.Name,
			Logger:   logger,
		}),
		Logos:   logos,
		Metrics: metrics,
		Logger:  logger,
	})

	workspace := app.NewWorkspace(app.WorkspaceConfig{
		Settings:         cfg.Invoice.DocumentSettings(time.Now()),
		SeedSampleItems:  cfg.Workspace.SeedSampleItems,
		SubscriberBuffer: cfg.Workspace.SubscriberBuffer,
		Logger:           logger,
		Metrics:          metrics,
	})

	server := http.New(cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:      logger,
		ServiceName: cfg.Telemetry.ServiceName,
		Health: handlers.NewHealthHandler(checks, handlers.NewBuildInfo(cfg.App.Name, Version, Commit, BuildTime)).
			WithGatherer(gatherer),
		Invoice:   handlers.NewInvoiceHandler(service),
		Workspace: handlers.NewWorkspaceHandler(workspace, service),
		Live:      handlers.NewLiveHandler(workspace, nil),
		Preview:   handlers.NewPreviewHandler(workspace),
	})

	serveErr, err := server.Start()
	if err != nil {
		return err
	}

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		logger.Info("shutting down", slog.Duration("grace", cfg.Server.ShutdownTimeout))
	}

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(drainCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
}

// startLogoLoader starts fetching the configured logo in the background.
// Remote sources join the readiness checks as non-critical. With the logo
// disabled it returns a nil provider and documents render without one.
func startLogoLoader(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	checks ports.HealthRegistry,
) (ports.LogoProvider, error) {
	if !cfg.Logo.Enabled {
		logger.Info("logo disabled")
		return nil, nil
	}

	source, err := logo.NewSource(ctx, logo.SourceConfig{
		Location: cfg.Logo.Location,
		Client: clients.Config{
			Timeout:   cfg.Client.Timeout,
			Retry:     cfg.Client.Retry,
			Circuit:   cfg.Client.CircuitBreaker,
			Transport: cfg.Client.Transport,
			UserAgent: cfg.App.Name + "/" + Version,
			Logger:    logger,
		},
		S3Region: cfg.Logo.S3Region,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("logo source %q: %w", cfg.Logo.Location, err)
	}

	if checker, ok := source.(ports.HealthChecker); ok {
		if err := checks.Register(checker); err != nil {
			return nil, err
		}
	}

	loader := logo.NewLoader(logo.LoaderConfig{
		Source:  source,
		Timeout: cfg.Logo.Timeout,
		Logger:  logger,
	})
	loader.Start(ctx)

	return loader, nil
}
