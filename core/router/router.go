package router

import (
	"github.com/searchktools/login-server/core/http"
)

// Result classifies a lookup
type Result uint8

const (
	Found Result = iota
	NotFound
	MethodNotAllowed
)

// Router dispatches on exact (method, path) pairs, with an optional
// per-method fallback for every other path of that method.
type Router struct {
	static    map[routeKey]http.HandlerFunc
	fallbacks map[http.Method]http.HandlerFunc
	methods   map[http.Method]struct{}
}

type routeKey struct {
	method http.Method
	path   string
}

// New creates an empty router
func New() *Router {
	return &Router{
		static:    make(map[routeKey]http.HandlerFunc, 16),
		fallbacks: make(map[http.Method]http.HandlerFunc, 2),
		methods:   make(map[http.Method]struct{}, 2),
	}
}

// Handle registers handler for an exact method and path
func (r *Router) Handle(method http.Method, path string, handler http.HandlerFunc) {
	if path == "" || path[0] != '/' {
		panic("path must begin with '/'")
	}
	r.static[routeKey{method, path}] = handler
	r.methods[method] = struct{}{}
}

// GET registers a GET route
func (r *Router) GET(path string, handler http.HandlerFunc) {
	r.Handle(http.MethodGet, path, handler)
}

// POST registers a POST route
func (r *Router) POST(path string, handler http.HandlerFunc) {
	r.Handle(http.MethodPost, path, handler)
}

// Fallback registers handler for paths of method with no exact route
func (r *Router) Fallback(method http.Method, handler http.HandlerFunc) {
	r.fallbacks[method] = handler
	r.methods[method] = struct{}{}
}

// Find looks up the handler for method and path.
// Unknown methods yield MethodNotAllowed; known methods without a match yield NotFound.
func (r *Router) Find(method http.Method, path string) (http.HandlerFunc, Result) {
	if h, ok := r.static[routeKey{method, path}]; ok {
		return h, Found
	}
	if h, ok := r.fallbacks[method]; ok {
		return h, Found
	}
	if _, ok := r.methods[method]; ok {
		return nil, NotFound
	}
	return nil, MethodNotAllowed
}

// Allows reports whether any route is registered for method
func (r *Router) Allows(method http.Method) bool {
	_, ok := r.methods[method]
	return ok
}
