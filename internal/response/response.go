package response

import (
	"github.com/Brownie44l1/httpserver/internal/headers"
)

const (
	ContentTypeText  = "text/plain"
	ContentTypeOctet = "application/octet-stream"
)

// Response is what a route hands back. The Writer fills in the framing
// headers and serializes it exactly once.
type Response struct {
	Status  StatusCode
	Headers *headers.Headers
	Body    []byte

	written bool
}

// New creates an empty response with the given status
func New(status StatusCode) *Response {
	return &Response{
		Status:  status,
		Headers: headers.NewHeaders(),
	}
}

// Text creates a text/plain response
func Text(status StatusCode, body string) *Response {
	r := New(status)
	r.Headers.Set("Content-Type", ContentTypeText)
	r.Body = []byte(body)
	return r
}

// Octet creates a 200 response carrying raw bytes
func Octet(body []byte) *Response {
	r := New(StatusOK)
	r.Headers.Set("Content-Type", ContentTypeOctet)
	r.Body = body
	return r
}

func NotFound() *Response {
	return New(StatusNotFound)
}

func MethodNotAllowed() *Response {
	return New(StatusMethodNotAllowed)
}
