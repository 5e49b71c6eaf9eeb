package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/libris/internal/logging"
)

// Listener runs an http.Server as a supervised service.
type Listener struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          logging.Logger

	// ready receives the bound address once listening; used by tests
	// that bind ":0".
	ready chan string
}

func NewListener(srv *http.Server, shutdownTimeout time.Duration, l logging.Logger) *Listener {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &Listener{
		server:          srv,
		shutdownTimeout: shutdownTimeout,
		logger:          l.With("module", "http_listener"),
		ready:           make(chan string, 1),
	}
}

// Serve listens until ctx is cancelled, then shuts the server down
// gracefully.
func (l *Listener) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", l.server.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- l.server.Serve(ln)
	}()

	l.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())
	select {
	case l.ready <- ln.Addr().String():
	default:
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)

	case <-ctx.Done():
		l.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
		defer cancel()
		if err := l.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (l *Listener) String() string { return "http-server" }
