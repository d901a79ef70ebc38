package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// DefaultShutdownTimeout bounds the graceful shutdown of the server and its cleanup functions.
const DefaultShutdownTimeout = 20 * time.Second

type Server struct {
	*http.Server
	Logger *slog.Logger
	// ShutdownTimeout defaults to DefaultShutdownTimeout.
	ShutdownTimeout time.Duration
	// CertFile and KeyFile switch the server to TLS when both are set.
	CertFile string
	KeyFile  string
	// CleanUpFuncs is a list of functions that will be called when the server has successfully shutdown.
	CleanUpFuncs []func(ctx context.Context)
}

// Start serves until ctx is done, then shuts the server down gracefully and runs the cleanup functions.
func (s *Server) Start(ctx context.Context) error {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}

	s.Server.BaseContext = func(_ net.Listener) context.Context {
		return ctx
	}

	done := make(chan error, 1)

	go func() {
		<-ctx.Done()

		s.Logger.Info("server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
		defer cancel()

		err := s.Server.Shutdown(shutdownCtx)

		for _, cf := range s.CleanUpFuncs {
			cf(shutdownCtx)
		}

		if err != nil {
			done <- fmt.Errorf("server shutdown: %w", err)
			return
		}
		close(done)
	}()

	s.Logger.Info("server started", slog.String("addr", s.Server.Addr))

	var err error
	if s.CertFile != "" && s.KeyFile != "" {
		err = s.ListenAndServeTLS(s.CertFile, s.KeyFile)
	} else {
		err = s.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server exit: %w", err)
	}

	return <-done
}
