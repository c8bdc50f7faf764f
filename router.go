package httpd

import (
	"sort"
	"sync"

	"github.com/talostrading/httpd/codec/http"
)

// HandlerFunc answers one request. It runs on a worker goroutine, inline
// with the event loop, and stalls every connection of that worker while it
// runs: it must not block. A non-nil error is answered with a 500.
type HandlerFunc func(req *http.Request) (*http.Response, error)

// Router is the two-level route table: URI, then method.
type Router struct {
	mu     sync.RWMutex
	routes map[http.URI]map[http.Method]HandlerFunc
}

func NewRouter() *Router {
	return &Router{
		routes: make(map[http.URI]map[http.Method]HandlerFunc),
	}
}

// Register sets the handler of (uri, method), replacing any previous one.
func (r *Router) Register(uri http.URI, method http.Method, h HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	methods, ok := r.routes[uri]
	if !ok {
		methods = make(map[http.Method]HandlerFunc)
		r.routes[uri] = methods
	}
	methods[method] = h
}

// Lookup returns the handler of (uri, method). found reports whether the
// uri is known at all.
func (r *Router) Lookup(uri http.URI, method http.Method) (h HandlerFunc, found bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods, ok := r.routes[uri]
	if !ok {
		return nil, false
	}
	return methods[method], true
}

// Dispatch answers 404 for an unknown URI, 405 for a known URI without a
// handler for the method, and otherwise returns whatever the handler returns.
func (r *Router) Dispatch(req *http.Request) (*http.Response, error) {
	h, found := r.Lookup(req.URI, req.Method)
	if !found {
		return emptyResponse(http.StatusNotFound), nil
	}
	if h == nil {
		return emptyResponse(http.StatusMethodNotAllowed), nil
	}
	return h(req)
}

// URIs returns the registered URIs in order.
func (r *Router) URIs() []http.URI {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uris := make([]http.URI, 0, len(r.routes))
	for uri := range r.routes {
		uris = append(uris, uri)
	}
	sort.Slice(uris, func(i, j int) bool { return uris[i].Less(uris[j]) })
	return uris
}

func emptyResponse(status http.Status) *http.Response {
	res := http.NewResponse(status)
	res.SetBody(nil)
	return res
}
