// Package http serves the invoice API: a gin engine behind an http.Server
// that binds eagerly and drains in-flight exports on shutdown.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/http/middleware"
	"github.com/jsamuelsen/invoice-builder/internal/platform/config"
)

// Server owns the listener and the gin engine routes are mounted on.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	cfg    config.ServerConfig
	logger *slog.Logger

	mu sync.Mutex
	ln net.Listener
}

// New builds a server for cfg. Request bodies, uploads included, are capped
// at cfg.MaxRequestSize before any handler reads them.
func New(cfg config.ServerConfig, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.MaxMultipartMemory = cfg.MaxRequestSize
	engine.Use(middleware.BodyLimit(cfg.MaxRequestSize))

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		cfg:    cfg,
		logger: logger.With(slog.String("component", "http.Server")),
	}
}

// Engine is where routes are mounted.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start binds the listen address and serves in the background. A bind
// failure, such as a port in use, is returned directly. The channel carries
// a later serve failure and is closed once serving stops.
func (s *Server) Start() (<-chan error, error) {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", s.http.Addr, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.logger.Info("serving invoices",
		slog.String("addr", ln.Addr().String()),
		slog.Int64("max_request_size", s.cfg.MaxRequestSize),
	)

	done := make(chan error, 1)

	go func() {
		defer close(done)

		if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			done <- fmt.Errorf("serving http: %w", err)
		}
	}()

	return done, nil
}

// Addr is the bound address once started, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln != nil {
		return s.ln.Addr().String()
	}

	return s.http.Addr
}

// Shutdown stops accepting connections and waits for running requests until
// ctx ends. Live websocket sessions are hijacked connections the server no
// longer tracks; they close when their client goes away or the process exits.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("draining http server: %w", err)
	}

	s.logger.Info("http server stopped")

	return nil
}
