package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const (
	requestTimeout    = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 30 * time.Second
)

// An HTTPServer serves the storefront pages and the JSON API.
type HTTPServer struct {
	httpServer *http.Server
	ln         net.Listener
}

// NewHTTPServer wraps handler with the session, timeout and logging
// middlewares, outermost last.
func NewHTTPServer(addr string, handler http.Handler) *HTTPServer {
	handler = Sessions(handler)
	handler = http.TimeoutHandler(handler, requestTimeout, "unavailable")
	handler = LogRequests(handler)
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	return &HTTPServer{httpServer: s}
}

// Listen binds the configured address. Run calls it when it was not
// called before.
func (s *HTTPServer) Listen() error {
	if s.ln != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	return nil
}

// Addr reports the bound address, or the configured one before Listen.
func (s *HTTPServer) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.httpServer.Addr
}

// Run serves until Close. stopFn is called when serving ends for any
// reason.
func (s *HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := slog.With("op", op)

	defer stopFn()

	if err := s.Listen(); err != nil {
		log.Error("failed to listen", "addr", s.httpServer.Addr, "err", err)
		return
	}

	log.Info("http server is listening", "addr", s.Addr())
	err := s.httpServer.Serve(s.ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("unexpected servers shutdown", "err", err)
	}
}

func (s *HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := slog.With("op", op)

	log.Info("closing http server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
		return
	}
	log.Info("http server is closed")
}
