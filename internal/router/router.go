package router

import (
	"strings"

	"github.com/Brownie44l1/httpserver/internal/request"
	"github.com/Brownie44l1/httpserver/internal/response"
)

// Context carries the request and the part of the path a wildcard matched
type Context struct {
	Request *request.Request
	Tail    string
}

// HandlerFunc produces the response for a matched route. A returned error
// is an internal failure, not a client-visible status.
type HandlerFunc func(c *Context) (*response.Response, error)

// Route represents a single route
type Route struct {
	Method  string
	Pattern string
	Handler HandlerFunc

	// FirstMarker takes Context.Tail after the first occurrence of the
	// marker instead of the last.
	FirstMarker bool
}

// RouteOption adjusts a route at registration.
type RouteOption func(*Route)

// TailAfterFirst makes the tail start after the first marker, so the tail
// itself may contain the marker.
func TailAfterFirst(r *Route) {
	r.FirstMarker = true
}

// Router matches requests against routes in registration order; the first
// match wins.
type Router struct {
	routes  []*Route
	methods map[string]bool
}

// New creates an empty router
func New() *Router {
	return &Router{
		routes:  make([]*Route, 0),
		methods: make(map[string]bool),
	}
}

// Handle registers a new route. Pattern is either an exact path ("/") or a
// marker wrapped in stars ("*/echo/*") that matches any path containing the
// marker; the text after its last occurrence becomes Context.Tail unless
// TailAfterFirst is given.
func (r *Router) Handle(method, pattern string, handler HandlerFunc, opts ...RouteOption) {
	route := &Route{
		Method:  method,
		Pattern: pattern,
		Handler: handler,
	}
	for _, opt := range opts {
		opt(route)
	}
	r.routes = append(r.routes, route)
	r.methods[method] = true
}

// GET is a shortcut for Handle("GET", ...)
func (r *Router) GET(pattern string, handler HandlerFunc, opts ...RouteOption) {
	r.Handle(request.MethodGet, pattern, handler, opts...)
}

// POST is a shortcut for Handle("POST", ...)
func (r *Router) POST(pattern string, handler HandlerFunc, opts ...RouteOption) {
	r.Handle(request.MethodPost, pattern, handler, opts...)
}

// Match finds the route for method and path
func (r *Router) Match(method, path string) (*Route, string) {
	for _, route := range r.routes {
		if route.Method != method {
			continue
		}
		if tail, ok := matchPath(route.Pattern, path, route.FirstMarker); ok {
			return route, tail
		}
	}
	return nil, ""
}

// ServeRequest routes req. Unmatched paths are 404 for methods the router
// knows about and 405 for every other method.
func (r *Router) ServeRequest(req *request.Request) (*response.Response, error) {
	route, tail := r.Match(req.Method, req.Path)
	if route == nil {
		if r.methods[req.Method] {
			return response.NotFound(), nil
		}
		return response.MethodNotAllowed(), nil
	}

	return route.Handler(&Context{Request: req, Tail: tail})
}

func matchPath(pattern, path string, first bool) (string, bool) {
	if len(pattern) >= 2 && strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") {
		marker := pattern[1 : len(pattern)-1]
		idx := strings.LastIndex(path, marker)
		if first {
			idx = strings.Index(path, marker)
		}
		if idx == -1 {
			return "", false
		}
		return path[idx+len(marker):], true
	}

	if pattern == path {
		return "", true
	}
	return "", false
}
