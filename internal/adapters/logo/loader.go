package logo

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
	"github.com/jsamuelsen/invoice-builder/internal/ports"
)

const defaultFetchTimeout = 10 * time.Second

// Loader fetches the logo once in the background and publishes it for readers.
// Readers never block: until the fetch completes, and forever if it fails,
// Current returns nil and documents render without a logo.
type Loader struct {
	source  ports.LogoSource
	timeout time.Duration
	logger  *slog.Logger

	current atomic.Pointer[domain.Logo]
	once    sync.Once
	done    chan struct{}
}

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	// Source is where the logo lives. A nil source disables loading.
	Source ports.LogoSource

	// Timeout bounds the fetch. Zero uses a default.
	Timeout time.Duration

	// Logger is an optional logger.
	Logger *slog.Logger
}

// NewLoader creates a Loader. Call Start to begin fetching.
func NewLoader(cfg LoaderConfig) *Loader {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{
		source:  cfg.Source,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "logo.Loader")),
		done:    make(chan struct{}),
	}
}

// Start launches the fetch. Subsequent calls are no-ops.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		if l.source == nil {
			close(l.done)
			return
		}

		go l.run(ctx)
	})
}

func (l *Loader) run(ctx context.Context) {
	defer close(l.done)

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	location := l.source.Location()

	data, err := l.source.Fetch(ctx)
	if err != nil {
		l.logger.WarnContext(ctx, "logo unavailable, documents will render without it",
			slog.String("location", location),
			slog.Any("error", err),
		)

		return
	}

	logo, err := Decode(data)
	if err != nil {
		l.logger.WarnContext(ctx, "logo could not be decoded",
			slog.String("location", location),
			slog.Any("error", err),
		)

		return
	}

	l.current.Store(logo)
	l.logger.InfoContext(ctx, "logo loaded",
		slog.String("location", location),
		slog.String("format", logo.Format),
		slog.Int("width", logo.Width),
		slog.Int("height", logo.Height),
		slog.Duration("duration", time.Since(start)),
	)
}

// Current implements ports.LogoProvider.
func (l *Loader) Current() *domain.Logo {
	return l.current.Load()
}

// Done is closed once the fetch has finished, successfully or not.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}
