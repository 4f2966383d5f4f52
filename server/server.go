// Package server exposes window resolver over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"treegrid/client"
	"treegrid/config"
	"treegrid/window"
)

const (
	maxRequestBody  = 1 << 20
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg  config.ServerConfig
	r    *window.Resolver
	log  *zap.Logger
	etag string
}

func New(cfg config.ServerConfig, r *window.Resolver, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		cfg:  cfg,
		r:    r,
		log:  log,
		etag: `"` + r.Index().GenerationID().String() + `"`,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+client.RowsPath, s.handleRows)
	mux.HandleFunc("GET "+client.StatsPath, s.handleStats)
	return withRequestLog(s.log, mux)
}

// Run listens on configured address and serves until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", s.cfg.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until context is cancelled, then shuts
// down gracefully. Listener is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConnections)
	}

	hs := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		ErrorLog:     zap.NewStdLog(s.log.Named("http")),
		// in-flight requests are drained by Shutdown, not cancelled with ctx
		BaseContext: func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("Serving tree", zap.Stringer("address", ln.Addr()), zap.String("etag", s.etag))
		if err := hs.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		err := hs.Shutdown(sctx)
		if err != nil {
			// connections did not finish in time
			err = multierr.Append(err, hs.Close())
		}
		s.log.Info("Server stopped", zap.Error(err))
		return err
	})
	return g.Wait()
}
