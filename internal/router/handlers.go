package router

import (
	"errors"
	"io/fs"

	"github.com/Brownie44l1/httpserver/internal/response"
)

// FileStore is the filesystem the /files/ routes read from and write to.
type FileStore interface {
	FindFile(name string) (string, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(name string, data []byte) error
	EnsureDirectory() error
}

const unknownUserAgent = "Unknown"

// Handlers implements the server's routes
type Handlers struct {
	Files FileStore
}

// NewDefault builds the router with the full route table.
func NewDefault(store FileStore) *Router {
	h := &Handlers{Files: store}

	r := New()
	r.GET("/", h.Root)
	r.GET("*/files/*", h.GetFile)
	r.GET("*/echo/*", h.Echo, TailAfterFirst)
	r.GET("*/user-agent*", h.UserAgent)
	r.POST("*/files/*", h.PostFile)
	return r
}

func (h *Handlers) Root(c *Context) (*response.Response, error) {
	return response.New(response.StatusOK), nil
}

func (h *Handlers) Echo(c *Context) (*response.Response, error) {
	return response.Text(response.StatusOK, c.Tail), nil
}

func (h *Handlers) UserAgent(c *Context) (*response.Response, error) {
	ua, ok := c.Request.Header("User-Agent")
	if !ok {
		ua = unknownUserAgent
	}
	return response.Text(response.StatusOK, ua), nil
}

func (h *Handlers) GetFile(c *Context) (*response.Response, error) {
	path, err := h.Files.FindFile(c.Tail)
	if err != nil {
		return notFoundOr(err)
	}

	data, err := h.Files.ReadFile(path)
	if err != nil {
		return notFoundOr(err)
	}
	return response.Octet(data), nil
}

func (h *Handlers) PostFile(c *Context) (*response.Response, error) {
	if c.Tail == "" {
		return response.NotFound(), nil
	}

	if err := h.Files.EnsureDirectory(); err != nil {
		return nil, err
	}

	if err := h.Files.WriteFile(c.Tail, c.Request.Body); err != nil {
		return notFoundOr(err)
	}
	return response.New(response.StatusCreated), nil
}

// notFoundOr maps a missing file or directory to 404 and passes every other
// error through.
func notFoundOr(err error) (*response.Response, error) {
	if errors.Is(err, fs.ErrNotExist) {
		return response.NotFound(), nil
	}
	return nil, err
}
