// Package server accepts TCP connections and hands each one to a thread pool as a job.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/jzx17/gothreadpool/pkg/types"
)

// Server is the connection-accept loop
type Server struct {
	pool    types.ThreadPool
	handler *Handler
	logger  logrus.FieldLogger
}

// New creates a Server that submits connections to pool
func New(pool types.ThreadPool, handler *Handler, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		pool:    pool,
		handler: handler,
		logger:  logger,
	}
}

// ListenAndServe binds addr and serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.logger.Infof("Serving your application at http://%s", ln.Addr())
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is cancelled or ln is closed.
// It never waits for a connection to be handled before accepting the next.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			ln.Close()
		case <-stop:
		}
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}

		if err := s.pool.Submit(func() {
			s.handler.ServeConn(conn)
		}); err != nil {
			conn.Close()
			ln.Close()
			return fmt.Errorf("failed to submit connection: %w", err)
		}
	}
}
