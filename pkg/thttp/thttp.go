package thttp

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/outofforest/parallel"
)

const shutdownTimeout = 5 * time.Second

// Config is the server configuration.
type Config struct {
	Handler http.Handler
}

// NewServer creates a new HTTP server serving requests on the listener.
func NewServer(l net.Listener, config Config) *Server {
	return &Server{
		listener: l,
		server: &http.Server{
			Handler: h2c.NewHandler(config.Handler, &http2.Server{}),
		},
	}
}

// Server is an HTTP server shut down gracefully when context is canceled.
type Server struct {
	listener net.Listener
	server   *http.Server
}

// ListenAddr returns the address the server listens on.
func (s *Server) ListenAddr() net.Addr {
	return s.listener.Addr()
}

// Run serves requests until context is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.server.BaseContext = func(net.Listener) context.Context {
		return ctx
	}

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("server", parallel.Fail, func(ctx context.Context) error {
			err := s.server.Serve(s.listener)
			if errors.Is(err, http.ErrServerClosed) {
				return errors.WithStack(ctx.Err())
			}
			return errors.WithStack(err)
		})
		spawn("closer", parallel.Fail, func(ctx context.Context) error {
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			_ = s.server.Shutdown(shutdownCtx)
			return errors.WithStack(ctx.Err())
		})
		return nil
	})
}
