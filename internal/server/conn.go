package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/Brownie44l1/httpserver/internal/logging"
	"github.com/Brownie44l1/httpserver/internal/request"
	"github.com/Brownie44l1/httpserver/internal/response"
)

// errHandlerPanic wraps a recovered panic from the handler.
var errHandlerPanic = errors.New("handler panic")

// conn is the state of one client connection.
type conn struct {
	srv    *Server
	rwc    net.Conn
	reader *request.Reader
	logger *slog.Logger
}

func (s *Server) newConn(rwc net.Conn) *conn {
	reader := request.NewReader(rwc)
	reader.MaxBodyBytes = s.cfg.MaxBodyBytes

	return &conn{
		srv:    s,
		rwc:    rwc,
		reader: reader,
		logger: s.logger.With("conn_id", uuid.NewString(), "remote", rwc.RemoteAddr().String()),
	}
}

// serveConn handles all requests on a single connection
func (s *Server) serveConn(rwc net.Conn) {
	c := s.newConn(rwc)

	s.metrics.connOpened()
	defer s.metrics.connClosed()
	defer func() {
		if err := rwc.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			c.logger.Debug("close connection", "error", err)
		}
	}()

	c.logger.Debug("connection opened")
	c.serve()
	c.logger.Debug("connection closed")
}

func (c *conn) serve() {
	for {
		req, err := c.reader.ReadRequest()
		if err != nil {
			c.readFailed(err)
			return
		}

		start := time.Now()
		resp, err := c.handle(req)
		if err != nil {
			c.logger.Error("request failed, closing connection",
				"method", req.Method,
				"path", logging.Truncate(req.Path),
				"error", err,
			)
			c.srv.metrics.connDropped(dropInternal)
			return
		}

		w := response.NewWriter(c.rwc)
		if err := w.Write(resp, req); err != nil {
			c.logger.Warn("write response", "error", err, "bytes", w.BytesWritten())
			c.srv.metrics.connDropped(dropWrite)
			return
		}

		elapsed := time.Since(start)
		c.srv.metrics.RecordRequest(req.Method, resp.Status, elapsed)
		c.logger.Debug("request handled",
			"method", req.Method,
			"path", logging.Truncate(req.Path),
			"status", int(resp.Status),
			"duration", elapsed,
		)

		if shouldCloseConnection(req, w) {
			return
		}
	}
}

// handle calls the handler, turning a panic into an error so only this
// connection is lost.
func (c *conn) handle(req *request.Request) (resp *response.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("handler panic", "panic", r, "stack", string(debug.Stack()))
			resp, err = nil, fmt.Errorf("%w: %v", errHandlerPanic, r)
		}
	}()

	resp, err = c.srv.handler.ServeRequest(req)
	if err == nil && resp == nil {
		err = errors.New("handler returned no response")
	}
	return resp, err
}

// readFailed logs why no further request can be read. Nothing is written back.
func (c *conn) readFailed(err error) {
	switch {
	case errors.Is(err, io.EOF):
		c.logger.Debug("client closed connection")
	case errors.Is(err, net.ErrClosed):
		c.logger.Debug("connection closed while reading")
	case errors.Is(err, request.ErrMalformedRequestLine),
		errors.Is(err, request.ErrMalformedHeader),
		errors.Is(err, request.ErrBodyTooLarge),
		errors.Is(err, io.ErrUnexpectedEOF):
		c.logger.Warn("dropping malformed request", "error", err)
		c.srv.metrics.connDropped(dropMalformed)
	default:
		c.logger.Warn("read request", "error", err)
		c.srv.metrics.connDropped(dropInternal)
	}
}
