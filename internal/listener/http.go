package listener

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/pixil98/go-gridworld/internal/logging"
)

const (
	DefaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
)

// HTTPListener serves handler until its context is canceled, then drains
// in-flight requests.
type HTTPListener struct {
	port            uint16
	handler         http.Handler
	shutdownTimeout time.Duration
	onShutdown      []func()
}

type HTTPListenerOpt func(*HTTPListener)

// WithShutdownTimeout bounds how long in-flight requests may take to drain.
func WithShutdownTimeout(d time.Duration) HTTPListenerOpt {
	return func(l *HTTPListener) {
		l.shutdownTimeout = d
	}
}

// WithShutdownHook registers f to run when shutdown begins. Hijacked
// connections such as websockets are not tracked by the server and must be
// closed this way.
func WithShutdownHook(f func()) HTTPListenerOpt {
	return func(l *HTTPListener) {
		l.onShutdown = append(l.onShutdown, f)
	}
}

func NewHTTPListener(port uint16, handler http.Handler, opts ...HTTPListenerOpt) *HTTPListener {
	l := &HTTPListener{
		port:            port,
		handler:         handler,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *HTTPListener) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", l.port),
		Handler:           l.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		// Requests keep the worker's values but outlive its cancellation so
		// Shutdown can let them finish.
		BaseContext: func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	for _, f := range l.onShutdown {
		srv.RegisterOnShutdown(f)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logging.GetLogger(ctx).WithField("port", l.port).Info("listening for http")

	select {
	case err := <-errCh:
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d is already in use (another server running?)", l.port)
		}
		return fmt.Errorf("serving http on port %d: %w", l.port, err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http listener: %w", err)
		}
		return nil
	}
}
