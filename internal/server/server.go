package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Brownie44l1/httpserver/internal/logging"
	"github.com/Brownie44l1/httpserver/internal/request"
	"github.com/Brownie44l1/httpserver/internal/response"
)

// ErrServerClosed is returned by Serve and ListenAndServe after Close.
var ErrServerClosed = errors.New("server closed")

const (
	acceptMinDelay = 5 * time.Millisecond
	acceptMaxDelay = time.Second
)

// Handler turns a parsed request into a response. A returned error is an
// internal failure: it is logged and the connection is closed without a
// response.
type Handler interface {
	ServeRequest(req *request.Request) (*response.Response, error)
}

type HandlerFunc func(req *request.Request) (*response.Response, error)

func (f HandlerFunc) ServeRequest(req *request.Request) (*response.Response, error) {
	return f(req)
}

type Config struct {
	Addr string
	// MaxBodyBytes limits a declared request body; zero means no limit.
	MaxBodyBytes int64
}

type Server struct {
	cfg     Config
	handler Handler
	logger  *slog.Logger
	metrics *Metrics

	mu       sync.Mutex
	listener net.Listener
	closed   atomic.Bool
}

// New builds a server. logger and metrics may be nil.
func New(cfg Config, handler Handler, logger *slog.Logger, metrics *Metrics) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled or Close is called. Connections already open are left to finish
// on their own.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	s.logger.Info("listening", "addr", ln.Addr().String())

	stop := context.AfterFunc(ctx, func() {
		_ = s.Close()
	})
	defer stop()

	return s.Serve(ln)
}

// Serve accepts connections on ln and handles each on its own goroutine.
// Accept errors are retried with exponential backoff. It always returns a
// non-nil error; after Close that error is ErrServerClosed.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		_ = ln.Close()
		return ErrServerClosed
	}
	s.listener = ln
	s.mu.Unlock()

	bo := newAcceptBackOff()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("accept: %w", err)
			}
			delay := bo.NextBackOff()
			s.logger.Warn("accept failed, retrying", "error", err, "delay", delay)
			time.Sleep(delay)
			continue
		}
		bo.Reset()

		go s.serveConn(conn)
	}
}

// Close stops the listener. It does not touch open connections.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Swap(true) || s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func newAcceptBackOff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = acceptMinDelay
	bo.MaxInterval = acceptMaxDelay
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}
