package server

import (
	"github.com/Brownie44l1/httpserver/internal/request"
	"github.com/Brownie44l1/httpserver/internal/response"
)

// shouldCloseConnection determines if connection should be closed after this request
func shouldCloseConnection(req *request.Request, w *response.Writer) bool {
	// A partial write leaves the stream in an unknown state
	if w.HadError() {
		return true
	}

	// Keep-alive unless the client said "Connection: close", for every version
	return req.WantsClose()
}
