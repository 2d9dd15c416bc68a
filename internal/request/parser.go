package request

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Brownie44l1/httpserver/internal/headers"
)

var (
	ErrMalformedRequestLine = errors.New("malformed request line")
	ErrMalformedHeader      = headers.ErrMalformedHeader
	ErrBodyTooLarge         = errors.New("request body exceeds maximum size")
)

// Reader turns a byte stream into a sequence of requests. It is not safe for
// concurrent use; one Reader belongs to one connection.
type Reader struct {
	br *bufio.Reader

	// MaxBodyBytes limits a declared Content-Length. Zero means no limit.
	MaxBodyBytes int64
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ReadRequest reads the next request off the stream. It returns io.EOF when
// the stream ends before a request line starts; every other error means the
// connection can no longer be trusted and should be closed.
func (r *Reader) ReadRequest() (*Request, error) {
	line, err := r.readRequestLine()
	if err != nil {
		return nil, err
	}

	method, path, version, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	h, err := r.readHeaders()
	if err != nil {
		return nil, err
	}

	req, err := newRequest(method, path, version, h)
	if err != nil {
		return nil, err
	}

	if err := r.readBody(req); err != nil {
		return nil, err
	}
	return req, nil
}

// readRequestLine skips blank lines some clients send between requests.
func (r *Reader) readRequestLine() (string, error) {
	for {
		line, err := r.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				if strings.TrimSpace(line) == "" {
					return "", io.EOF
				}
				return "", fmt.Errorf("%w: stream ended mid-line", ErrMalformedRequestLine)
			}
			return "", fmt.Errorf("read request line: %w", err)
		}

		if strings.TrimSpace(line) != "" {
			return line, nil
		}
	}
}

func (r *Reader) readHeaders() (*headers.Headers, error) {
	h := headers.NewHeaders()
	for {
		line, err := r.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("read headers: %w", err)
		}

		if line == "" {
			return h, nil
		}

		if err := h.ParseLine(line); err != nil {
			return nil, err
		}
	}
}

// readLine returns one line without its terminator. A line cut short by the
// end of the stream is returned together with io.ErrUnexpectedEOF.
func (r *Reader) readLine() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", io.EOF
			}
			return line, io.ErrUnexpectedEOF
		}
		return "", err
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
