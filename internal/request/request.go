package request

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Brownie44l1/httpserver/internal/headers"
)

const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// ConnectionPreference is what the client asked for in its Connection header.
type ConnectionPreference int

const (
	KeepAlive ConnectionPreference = iota
	Close
)

func (c ConnectionPreference) String() string {
	if c == Close {
		return "close"
	}
	return "keep-alive"
}

// Request is one parsed HTTP request. It is not modified after the Reader
// returns it.
type Request struct {
	Method  string
	Path    string
	Version string // may be empty, the request line only needs method and path
	Headers *headers.Headers

	Connection        ConnectionPreference
	AcceptedEncodings []string

	// Body is nil unless the method carries a body and Content-Length was sent.
	Body []byte
}

func newRequest(method, path, version string, h *headers.Headers) (*Request, error) {
	if method == "" || path == "" {
		return nil, fmt.Errorf("%w: empty method or path", ErrMalformedRequestLine)
	}
	if h == nil {
		h = headers.NewHeaders()
	}

	return &Request{
		Method:            method,
		Path:              path,
		Version:           version,
		Headers:           h,
		Connection:        connectionPreference(h),
		AcceptedEncodings: acceptedEncodings(h),
	}, nil
}

// Header returns a request header by its exact name.
func (r *Request) Header(name string) (string, bool) {
	return r.Headers.Get(name)
}

// WantsClose reports whether the client sent "Connection: close".
func (r *Request) WantsClose() bool {
	return r.Connection == Close
}

func (r *Request) AcceptsEncoding(encoding string) bool {
	for _, e := range r.AcceptedEncodings {
		if e == encoding {
			return true
		}
	}
	return false
}

// ContentLength returns the declared body length, or -1 when the header is
// missing or not a non-negative integer.
func (r *Request) ContentLength() int64 {
	return contentLength(r.Headers)
}

func connectionPreference(h *headers.Headers) ConnectionPreference {
	v, ok := h.Get("Connection")
	if ok && strings.EqualFold(strings.TrimSpace(v), "close") {
		return Close
	}
	return KeepAlive
}

func acceptedEncodings(h *headers.Headers) []string {
	v, ok := h.Get("Accept-Encoding")
	if !ok || v == "" {
		return nil
	}
	return strings.Split(strings.ToLower(v), ", ")
}

func contentLength(h *headers.Headers) int64 {
	v, ok := h.Get("Content-Length")
	if !ok {
		return -1
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// carriesBody reports whether the body of a request with this method is read
// and exposed to handlers.
func carriesBody(method string) bool {
	return method == MethodPost
}
