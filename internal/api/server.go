package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kestrelworks/aquamon-core/internal/audit"
	"github.com/kestrelworks/aquamon-core/internal/auth"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/config"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/logging"
	"github.com/kestrelworks/aquamon-core/internal/monitor"
)

// gracefulShutdownTimeout caps the wait for in-flight requests on shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config  config.APIConfig
	Logger  *logging.Logger
	Auth    *auth.Service
	Monitor *monitor.Service
	Audit   audit.Repository // optional; nil disables the trail endpoint
	Version string
}

// Server is the HTTP API server.
type Server struct {
	cfg     config.APIConfig
	logger  *logging.Logger
	auth    *auth.Service
	monitor *monitor.Service
	audit   audit.Repository
	version string
	server  *http.Server
}

// New creates an API server. It is not listening until Start is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("auth service is required")
	}
	if deps.Monitor == nil {
		return nil, fmt.Errorf("monitor service is required")
	}

	return &Server{
		cfg:     deps.Config,
		logger:  deps.Logger,
		auth:    deps.Auth,
		monitor: deps.Monitor,
		audit:   deps.Audit,
		version: deps.Version,
	}, nil
}

// Start launches the HTTP listener in a background goroutine.
func (s *Server) Start(_ context.Context) error {
	router := s.buildRouter()

	readTimeout := s.timeout(s.cfg.Timeouts.Read, 30)
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      s.timeout(s.cfg.Timeouts.Write, 30),
		IdleTimeout:       s.timeout(s.cfg.Timeouts.Idle, 60),
	}

	go func() {
		s.logger.Info("api server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", "error", err)
		}
	}()

	return nil
}

// Close waits for in-flight requests and shuts the listener down.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("api server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down api server: %w", err)
	}
	return nil
}

// HealthCheck reports whether the server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}

// timeout converts a configured timeout in seconds to a Duration, falling
// back when unset.
func (s *Server) timeout(seconds, fallback int) time.Duration {
	if seconds <= 0 {
		seconds = fallback
	}
	return time.Duration(seconds) * time.Second
}
